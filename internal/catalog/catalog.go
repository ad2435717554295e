package catalog

import (
	"fmt"
	"strings"
)

// Meta keys attached to every tool, resource and tool result.
const (
	MetaOutputTemplate    = "openai/outputTemplate"
	MetaInvoking          = "openai/toolInvocation/invoking"
	MetaInvoked           = "openai/toolInvocation/invoked"
	MetaWidgetAccessible  = "openai/widgetAccessible"
	MetaResultCanBeWidget = "openai/resultCanProduceWidget"
)

// AssetLoader resolves a widget's HTML body by asset name.
type AssetLoader interface {
	Resolve(name string) ([]byte, error)
}

// Item is one loaded widget. Its fields never change after Load.
type Item struct {
	ID            string
	Title         string
	TemplateURI   string
	InvokingLabel string
	InvokedLabel  string
	Body          string
	ResponseText  string
}

// Meta derives the protocol _meta map for the item.
// A fresh map is returned on every call.
func (i Item) Meta() map[string]any {
	return map[string]any{
		MetaOutputTemplate:    i.TemplateURI,
		MetaInvoking:          i.InvokingLabel,
		MetaInvoked:           i.InvokedLabel,
		MetaWidgetAccessible:  true,
		MetaResultCanBeWidget: true,
	}
}

// Catalog is an immutable, ordered set of widgets indexed by id and URI.
type Catalog struct {
	items []Item
	byID  map[string]int
	byURI map[string]int
}

// Load builds a Catalog from defs, resolving each body through loader.
//
// Returns an error wrapping errors.ErrAssetMissing when any body cannot be
// resolved, or a validation error when ids or URIs are empty or duplicated.
func Load(loader AssetLoader, defs []Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("catalog has no widgets")
	}

	c := &Catalog{
		items: make([]Item, 0, len(defs)),
		byID:  make(map[string]int, len(defs)),
		byURI: make(map[string]int, len(defs)),
	}

	for _, def := range defs {
		if strings.TrimSpace(def.ID) == "" {
			return nil, fmt.Errorf("widget id is required")
		}

		if strings.TrimSpace(def.TemplateURI) == "" {
			return nil, fmt.Errorf("widget %s: templateUri is required", def.ID)
		}

		if _, dup := c.byID[def.ID]; dup {
			return nil, fmt.Errorf("duplicate widget id %q", def.ID)
		}

		if _, dup := c.byURI[def.TemplateURI]; dup {
			return nil, fmt.Errorf("duplicate widget templateUri %q", def.TemplateURI)
		}

		asset := def.Asset
		if asset == "" {
			asset = def.ID
		}

		body, err := loader.Resolve(asset)
		if err != nil {
			return nil, fmt.Errorf("load widget %s: %w", def.ID, err)
		}

		c.byID[def.ID] = len(c.items)
		c.byURI[def.TemplateURI] = len(c.items)
		c.items = append(c.items, Item{
			ID:            def.ID,
			Title:         def.Title,
			TemplateURI:   def.TemplateURI,
			InvokingLabel: def.Invoking,
			InvokedLabel:  def.Invoked,
			Body:          string(body),
			ResponseText:  def.ResponseText,
		})
	}

	return c, nil
}

// Items returns the widgets in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)

	return out
}

// ByID looks up a widget by tool name.
func (c *Catalog) ByID(id string) (Item, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}

	return c.items[idx], true
}

// ByURI looks up a widget by template URI.
func (c *Catalog) ByURI(uri string) (Item, bool) {
	idx, ok := c.byURI[uri]
	if !ok {
		return Item{}, false
	}

	return c.items[idx], true
}

// Len returns the number of widgets.
func (c *Catalog) Len() int {
	return len(c.items)
}
