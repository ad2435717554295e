package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagiedev/pizzaz-mcp-go/internal/catalog"
	serrors "github.com/wagiedev/pizzaz-mcp-go/internal/errors"
)

// WidgetMIMEType is the media type of every widget body.
const WidgetMIMEType = "text/html+skybridge"

// Dispatcher answers protocol requests from an immutable catalog.
// It is safe for concurrent use.
type Dispatcher struct {
	catalog *catalog.Catalog
}

// NewDispatcher creates a Dispatcher over cat.
func NewDispatcher(cat *catalog.Catalog) *Dispatcher {
	return &Dispatcher{catalog: cat}
}

// Catalog returns the catalog the dispatcher reads from.
func (d *Dispatcher) Catalog() *catalog.Catalog {
	return d.catalog
}

// ListResources returns one resource per catalog item, in catalog order.
func (d *Dispatcher) ListResources() []*mcp.Resource {
	items := d.catalog.Items()
	resources := make([]*mcp.Resource, 0, len(items))

	for _, item := range items {
		resources = append(resources, &mcp.Resource{
			URI:         item.TemplateURI,
			Name:        item.Title,
			Title:       item.Title,
			Description: widgetDescription(item),
			MIMEType:    WidgetMIMEType,
			Meta:        item.Meta(),
		})
	}

	return resources
}

// ListResourceTemplates returns one template per catalog item, in catalog order.
func (d *Dispatcher) ListResourceTemplates() []*mcp.ResourceTemplate {
	items := d.catalog.Items()
	templates := make([]*mcp.ResourceTemplate, 0, len(items))

	for _, item := range items {
		templates = append(templates, &mcp.ResourceTemplate{
			URITemplate: item.TemplateURI,
			Name:        item.Title,
			Title:       item.Title,
			Description: widgetDescription(item),
			MIMEType:    WidgetMIMEType,
			Meta:        item.Meta(),
		})
	}

	return templates
}

// ReadResource returns the widget body registered under uri.
//
// Returns an error wrapping errors.ErrUnknownResource if no item has that URI.
func (d *Dispatcher) ReadResource(uri string) (*mcp.ReadResourceResult, error) {
	item, ok := d.catalog.ByURI(uri)
	if !ok {
		return nil, fmt.Errorf("%w: %s", serrors.ErrUnknownResource, uri)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      item.TemplateURI,
				MIMEType: WidgetMIMEType,
				Text:     item.Body,
				Meta:     item.Meta(),
			},
		},
	}, nil
}

// ListTools returns one tool per catalog item, in catalog order.
func (d *Dispatcher) ListTools() []*mcp.Tool {
	items := d.catalog.Items()
	tools := make([]*mcp.Tool, 0, len(items))

	for _, item := range items {
		tool := NewTool(item.ID, item.Title, ToolInputSchema())
		tool.Title = item.Title
		tool.Annotations = widgetAnnotations()
		tool.Meta = item.Meta()

		tools = append(tools, tool)
	}

	return tools
}

// CallTool invokes the widget tool name with raw JSON arguments.
//
// The tool name is checked before the arguments. Returns an error wrapping
// errors.ErrUnknownTool for an unknown name, or an *errors.InvalidArgumentsError
// when the arguments do not match the tool input schema.
func (d *Dispatcher) CallTool(name string, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	item, ok := d.catalog.ByID(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", serrors.ErrUnknownTool, name)
	}

	args, err := ValidateArguments(name, arguments)
	if err != nil {
		return nil, err
	}

	result := TextResult(item.ResponseText)
	result.StructuredContent = args
	result.Meta = item.Meta()

	return result, nil
}

func widgetDescription(item catalog.Item) string {
	return item.Title + " widget markup"
}
