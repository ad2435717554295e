// Package mcp answers Model Context Protocol requests against the widget catalog.
//
// A Dispatcher exposes one operation per protocol request kind: resources/list,
// resources/read, resources/templates/list, tools/list and tools/call. It holds
// no state beyond a pointer to the immutable catalog, so every operation is a
// pure function of its input. NewServer binds a Dispatcher onto an SDK server,
// which owns the JSON-RPC framing for one session.
//
// Dispatcher failures carry a typed kind (unknown resource, unknown tool,
// invalid arguments) and are turned into JSON-RPC error replies by
// ProtocolError. They never terminate the session.
package mcp
