package catalog

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Definition is the static configuration of one widget.
type Definition struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	TemplateURI  string `yaml:"templateUri"`
	Invoking     string `yaml:"invoking"`
	Invoked      string `yaml:"invoked"`
	Asset        string `yaml:"asset"`
	ResponseText string `yaml:"responseText"`
}

// DefaultDefinitions returns the built-in pizzaz widgets, in catalog order.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			ID:           "pizza-map",
			Title:        "Show Pizza Map",
			TemplateURI:  "ui://widget/pizza-map.html",
			Invoking:     "Hand-tossing a map",
			Invoked:      "Served a fresh map",
			Asset:        "pizzaz",
			ResponseText: "Rendered a pizza map!",
		},
		{
			ID:           "pizza-carousel",
			Title:        "Show Pizza Carousel",
			TemplateURI:  "ui://widget/pizza-carousel.html",
			Invoking:     "Carousel some spots",
			Invoked:      "Served a fresh carousel",
			Asset:        "pizzaz-carousel",
			ResponseText: "Rendered a pizza carousel!",
		},
		{
			ID:           "pizza-albums",
			Title:        "Show Pizza Album",
			TemplateURI:  "ui://widget/pizza-albums.html",
			Invoking:     "Hand-tossing an album",
			Invoked:      "Served a fresh album",
			Asset:        "pizzaz-albums",
			ResponseText: "Rendered a pizza album!",
		},
		{
			ID:           "pizza-list",
			Title:        "Show Pizza List",
			TemplateURI:  "ui://widget/pizza-list.html",
			Invoking:     "Hand-tossing a list",
			Invoked:      "Served a fresh list",
			Asset:        "pizzaz-list",
			ResponseText: "Rendered a pizza list!",
		},
	}
}

type definitionFile struct {
	Widgets []Definition `yaml:"widgets"`
}

// ParseDefinitions decodes a YAML catalog source of the form:
//
//	widgets:
//	  - id: pizza-map
//	    title: Show Pizza Map
//	    templateUri: ui://widget/pizza-map.html
//	    invoking: Hand-tossing a map
//	    invoked: Served a fresh map
//	    asset: pizzaz
//	    responseText: Rendered a pizza map!
func ParseDefinitions(r io.Reader) ([]Definition, error) {
	var file definitionFile

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("catalog source is empty")
		}

		return nil, fmt.Errorf("decode catalog source: %w", err)
	}

	if len(file.Widgets) == 0 {
		return nil, fmt.Errorf("catalog source defines no widgets")
	}

	return file.Widgets, nil
}

// LoadDefinitionsFile reads a YAML catalog source from path.
func LoadDefinitionsFile(path string) ([]Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog source: %w", err)
	}
	defer f.Close()

	return ParseDefinitions(f)
}
