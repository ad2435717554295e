package pizzaz

import (
	"github.com/wagiedev/pizzaz-mcp-go/internal/errors"
	mcpserver "github.com/wagiedev/pizzaz-mcp-go/internal/mcp"
)

// JSON-RPC error codes carried by failed protocol replies.
const (
	// CodeInvalidParams marks tool arguments that failed validation.
	CodeInvalidParams = mcpserver.CodeInvalidParams

	// CodeToolNotFound marks a call to a tool the server does not expose.
	CodeToolNotFound = mcpserver.CodeToolNotFound

	// CodeResourceNotFound marks a read of a URI the server does not expose.
	CodeResourceNotFound = mcpserver.CodeResourceNotFound

	// CodeInternalError marks any other failure.
	CodeInternalError = mcpserver.CodeInternalError
)

// Re-export error types from internal package

// AssetMissingError indicates a widget body could not be resolved.
type AssetMissingError = errors.AssetMissingError

// InvalidArgumentsError indicates tool arguments failed validation.
type InvalidArgumentsError = errors.InvalidArgumentsError

// StreamOpenError indicates an event stream could not be established.
type StreamOpenError = errors.StreamOpenError

// StreamWriteError indicates an established event stream failed.
type StreamWriteError = errors.StreamWriteError

// MessageHandlingError indicates a side-channel message could not be processed.
type MessageHandlingError = errors.MessageHandlingError

// ServerError is the base interface for all server errors.
type ServerError = errors.ServerError

// Re-export sentinel errors from internal package.
var (
	// ErrAssetMissing indicates a widget body could not be resolved.
	ErrAssetMissing = errors.ErrAssetMissing

	// ErrUnknownResource indicates no widget has the requested URI.
	ErrUnknownResource = errors.ErrUnknownResource

	// ErrUnknownTool indicates no widget has the requested tool name.
	ErrUnknownTool = errors.ErrUnknownTool

	// ErrUnknownSession indicates no open session has the requested id.
	ErrUnknownSession = errors.ErrUnknownSession

	// ErrInvalidArguments indicates tool arguments failed validation.
	ErrInvalidArguments = errors.ErrInvalidArguments

	// ErrStreamOpen indicates an event stream could not be established.
	ErrStreamOpen = errors.ErrStreamOpen

	// ErrStreamWrite indicates an established event stream failed.
	ErrStreamWrite = errors.ErrStreamWrite

	// ErrMessageHandling indicates a side-channel message could not be processed.
	ErrMessageHandling = errors.ErrMessageHandling

	// ErrShuttingDown indicates the server no longer accepts new streams.
	ErrShuttingDown = errors.ErrShuttingDown
)
