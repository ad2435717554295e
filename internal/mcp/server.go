package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	serrors "github.com/wagiedev/pizzaz-mcp-go/internal/errors"
)

// methodCallTool is the protocol method routed through the dispatcher.
const methodCallTool = "tools/call"

// NewServer builds an SDK server whose handlers delegate to d.
// Every catalog item is registered as a resource, a resource template
// and a tool. Tool calls bypass the SDK's own tool lookup so unknown
// names reply with CodeToolNotFound. The returned server serves a single
// session.
func NewServer(d *Dispatcher, impl *mcp.Implementation) *mcp.Server {
	server := mcp.NewServer(impl, nil)
	server.AddReceivingMiddleware(d.routeToolCalls)

	for _, resource := range d.ListResources() {
		server.AddResource(resource, d.handleReadResource)
	}

	for _, template := range d.ListResourceTemplates() {
		server.AddResourceTemplate(template, d.handleReadResource)
	}

	for _, tool := range d.ListTools() {
		server.AddTool(tool, d.handleCallTool)
	}

	return server
}

func (d *Dispatcher) handleReadResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	result, err := d.ReadResource(req.Params.URI)
	if err != nil {
		return nil, ProtocolError(err)
	}

	return result, nil
}

func (d *Dispatcher) handleCallTool(
	_ context.Context,
	req *mcp.CallToolRequest,
) (*mcp.CallToolResult, error) {
	if req.Params == nil {
		return nil, ProtocolError(fmt.Errorf("%w: missing params", serrors.ErrInvalidArguments))
	}

	result, err := d.CallTool(req.Params.Name, req.Params.Arguments)
	if err != nil {
		return nil, ProtocolError(err)
	}

	return result, nil
}

// routeToolCalls answers every tools/call from the dispatcher, including
// calls naming a tool the server never registered.
func (d *Dispatcher) routeToolCalls(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		call, ok := req.(*mcp.CallToolRequest)
		if method != methodCallTool || !ok {
			return next(ctx, method, req)
		}

		result, err := d.handleCallTool(ctx, call)
		if err != nil {
			return nil, err
		}

		return result, nil
	}
}
