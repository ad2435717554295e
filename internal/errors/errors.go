package errors

import (
	"errors"
	"fmt"
)

// ServerError is the base interface for all structured server errors.
type ServerError interface {
	error
	IsServerError() bool
}

// Compile-time verification that all error types implement ServerError.
var (
	_ ServerError = (*AssetMissingError)(nil)
	_ ServerError = (*InvalidArgumentsError)(nil)
	_ ServerError = (*StreamOpenError)(nil)
	_ ServerError = (*StreamWriteError)(nil)
	_ ServerError = (*MessageHandlingError)(nil)
)

// Sentinel errors, one per failure kind.
var (
	// ErrAssetMissing indicates a widget's HTML body could not be resolved.
	// It is fatal at startup: the server never serves an incomplete catalog.
	ErrAssetMissing = errors.New("asset missing")

	// ErrUnknownResource indicates a resource URI that is not in the catalog.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrUnknownTool indicates a tool name that is not in the catalog.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrUnknownSession indicates a session id that is not open.
	ErrUnknownSession = errors.New("unknown session")

	// ErrInvalidArguments indicates tool arguments that fail validation.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrStreamOpen indicates a stream could not be established.
	ErrStreamOpen = errors.New("stream open failed")

	// ErrStreamWrite indicates an open stream failed while delivering output.
	ErrStreamWrite = errors.New("stream write failed")

	// ErrMessageHandling indicates a side-channel message could not be processed.
	ErrMessageHandling = errors.New("message handling failed")

	// ErrSessionExists indicates a session id collision in the registry.
	ErrSessionExists = errors.New("session already registered")

	// ErrShuttingDown indicates the server no longer accepts new streams.
	ErrShuttingDown = errors.New("server shutting down")
)

// AssetMissingError indicates the asset loader found no HTML for a widget.
type AssetMissingError struct {
	Name string
	Dir  string
	Err  error
}

func (e *AssetMissingError) Error() string {
	msg := fmt.Sprintf("no HTML for %q", e.Name)
	if e.Dir != "" {
		msg += " in " + e.Dir
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *AssetMissingError) Unwrap() error { return e.Err }

// Is reports whether target is ErrAssetMissing.
func (e *AssetMissingError) Is(target error) bool { return target == ErrAssetMissing }

// IsServerError implements ServerError.
func (e *AssetMissingError) IsServerError() bool { return true }

// InvalidArgumentsError indicates tool arguments did not satisfy the input schema.
type InvalidArgumentsError struct {
	Tool string
	Err  error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %s: %v", e.Tool, e.Err)
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidArguments.
func (e *InvalidArgumentsError) Is(target error) bool { return target == ErrInvalidArguments }

// IsServerError implements ServerError.
func (e *InvalidArgumentsError) IsServerError() bool { return true }

// StreamOpenError indicates a session stream never reached the open state.
type StreamOpenError struct {
	SessionID string
	Err       error
}

func (e *StreamOpenError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("failed to open stream: %v", e.Err)
	}

	return fmt.Sprintf("failed to open stream %s: %v", e.SessionID, e.Err)
}

func (e *StreamOpenError) Unwrap() error { return e.Err }

// Is reports whether target is ErrStreamOpen.
func (e *StreamOpenError) Is(target error) bool { return target == ErrStreamOpen }

// IsServerError implements ServerError.
func (e *StreamOpenError) IsServerError() bool { return true }

// StreamWriteError indicates an open stream ended because of a transport failure.
type StreamWriteError struct {
	SessionID string
	Err       error
}

func (e *StreamWriteError) Error() string {
	return fmt.Sprintf("stream %s failed: %v", e.SessionID, e.Err)
}

func (e *StreamWriteError) Unwrap() error { return e.Err }

// Is reports whether target is ErrStreamWrite.
func (e *StreamWriteError) Is(target error) bool { return target == ErrStreamWrite }

// IsServerError implements ServerError.
func (e *StreamWriteError) IsServerError() bool { return true }

// MessageHandlingError indicates a side-channel message was rejected.
// The owning stream stays open.
type MessageHandlingError struct {
	SessionID string
	Err       error
}

func (e *MessageHandlingError) Error() string {
	return fmt.Sprintf("failed to process message for session %s: %v", e.SessionID, e.Err)
}

func (e *MessageHandlingError) Unwrap() error { return e.Err }

// Is reports whether target is ErrMessageHandling.
func (e *MessageHandlingError) Is(target error) bool { return target == ErrMessageHandling }

// IsServerError implements ServerError.
func (e *MessageHandlingError) IsServerError() bool { return true }
