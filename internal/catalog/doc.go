// Package catalog holds the fixed set of widgets the server exposes.
//
// Each widget is both an invocable tool and a renderable resource, sharing one
// identity: a stable id (the tool name) and a template URI (the resource
// locator). A Catalog is built once at startup from static definitions plus
// one HTML body per widget, and is never mutated afterwards. Concurrent
// readers need no synchronization.
package catalog
