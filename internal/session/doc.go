// Package session tracks the live event-stream sessions of one server process.
package session
