package mcp

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	serrors "github.com/wagiedev/pizzaz-mcp-go/internal/errors"
)

// ToppingField is the single required tool argument.
const ToppingField = "pizzaTopping"

// ToolCallArguments is the decoded input of every widget tool.
type ToolCallArguments struct {
	PizzaTopping string `json:"pizzaTopping"`
}

// ToolInputSchema returns a fresh copy of the widget tool input schema: a
// closed object with one required string property.
func ToolInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			ToppingField: {Type: "string", Description: "Topping to mention"},
		},
		Required:             []string{ToppingField},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

var resolvedToolInput = sync.OnceValues(func() (*jsonschema.Resolved, error) {
	return ToolInputSchema().Resolve(nil)
})

// ValidateArguments decodes raw tool arguments and checks them against
// ToolInputSchema. Absent arguments are treated as an empty object.
//
// Returns an *errors.InvalidArgumentsError on any failure.
func ValidateArguments(tool string, raw json.RawMessage) (ToolCallArguments, error) {
	resolved, err := resolvedToolInput()
	if err != nil {
		return ToolCallArguments{}, fmt.Errorf("resolve tool input schema: %w", err)
	}

	instance, err := ParseArguments(raw)
	if err != nil {
		return ToolCallArguments{}, &serrors.InvalidArgumentsError{Tool: tool, Err: err}
	}

	if err := resolved.Validate(instance); err != nil {
		return ToolCallArguments{}, &serrors.InvalidArgumentsError{Tool: tool, Err: err}
	}

	topping, _ := instance[ToppingField].(string)

	return ToolCallArguments{PizzaTopping: topping}, nil
}

// ParseArguments unmarshals raw tool arguments into a map.
func ParseArguments(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return make(map[string]any), nil
	}

	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("failed to unmarshal arguments: %w", err)
	}

	if args == nil {
		args = make(map[string]any)
	}

	return args, nil
}
