// Package httpapi adapts the stream manager to HTTP.
//
// The adapter only translates: it routes requests, attaches CORS headers and
// maps manager errors to status codes. Session handling lives in package stream.
package httpapi
