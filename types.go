package pizzaz

import (
	"github.com/wagiedev/pizzaz-mcp-go/internal/catalog"
	"github.com/wagiedev/pizzaz-mcp-go/internal/config"
	"github.com/wagiedev/pizzaz-mcp-go/internal/stream"
)

// ServerOptions is the full configuration of a Server.
type ServerOptions = config.Options

// WidgetDefinition describes one widget of the catalog source.
type WidgetDefinition = catalog.Definition

// Widget is one loaded catalog item.
type Widget = catalog.Item

// SessionState is the lifecycle state of a stream session.
type SessionState = stream.State

const (
	// SessionOpening means the session is registered but not yet established.
	SessionOpening = stream.StateOpening
	// SessionOpen means the session accepts side-channel requests.
	SessionOpen = stream.StateOpen
	// SessionClosing means teardown has started.
	SessionClosing = stream.StateClosing
	// SessionClosed is terminal.
	SessionClosed = stream.StateClosed
)

// Widget meta keys attached to tools, resources and tool results.
const (
	MetaOutputTemplate    = catalog.MetaOutputTemplate
	MetaInvoking          = catalog.MetaInvoking
	MetaInvoked           = catalog.MetaInvoked
	MetaWidgetAccessible  = catalog.MetaWidgetAccessible
	MetaResultCanBeWidget = catalog.MetaResultCanBeWidget
)

// DefaultWidgets returns the built-in pizzaz widget catalog.
func DefaultWidgets() []WidgetDefinition {
	return catalog.DefaultDefinitions()
}
