package mcp

import (
	"errors"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"

	serrors "github.com/wagiedev/pizzaz-mcp-go/internal/errors"
)

// JSON-RPC error codes used in replies to failed requests.
const (
	CodeInvalidParams    int64 = -32602
	CodeInternalError    int64 = -32603
	CodeToolNotFound     int64 = -32001
	CodeResourceNotFound int64 = -32002
)

// ErrorCode returns the JSON-RPC code for a dispatcher failure.
func ErrorCode(err error) int64 {
	switch {
	case errors.Is(err, serrors.ErrInvalidArguments):
		return CodeInvalidParams
	case errors.Is(err, serrors.ErrUnknownTool):
		return CodeToolNotFound
	case errors.Is(err, serrors.ErrUnknownResource):
		return CodeResourceNotFound
	default:
		return CodeInternalError
	}
}

// ProtocolError converts a dispatcher failure into a JSON-RPC error reply.
func ProtocolError(err error) error {
	if err == nil {
		return nil
	}

	return &jsonrpc.Error{
		Code:    ErrorCode(err),
		Message: err.Error(),
	}
}
