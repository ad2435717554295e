// Package errors defines error types for the pizzaz widget server.
//
// Every failure the server can report belongs to one kind, exposed as a
// sentinel error. Structured error types add context (asset name, session id,
// tool name) and match their kind through errors.Is, so callers can classify
// failures without type switches. All error types support unwrapping.
package errors
