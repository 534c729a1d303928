// Package layout parses XML chrome templates describing how a popup
// surface is furnished (title, body, icon, close affordance).
package layout

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ElementType identifies the type of chrome element.
type ElementType string

const (
	ElementTypeHeader    ElementType = "header"
	ElementTypeBox       ElementType = "box"
	ElementTypeIcon      ElementType = "icon"
	ElementTypeTitle     ElementType = "title"
	ElementTypeBody      ElementType = "body"
	ElementTypeTimestamp ElementType = "timestamp"
	ElementTypeClose     ElementType = "close"
)

// ValidElements lists all recognized chrome element names.
var ValidElements = map[string]ElementType{
	"header":    ElementTypeHeader,
	"box":       ElementTypeBox,
	"icon":      ElementTypeIcon,
	"title":     ElementTypeTitle,
	"body":      ElementTypeBody,
	"timestamp": ElementTypeTimestamp,
	"close":     ElementTypeClose,
}

// Config is a parsed chrome template ready for surface building.
type Config struct {
	// Surface sizing (0 = backend default). Set min=max for a fixed
	// size, or use a range for content-driven sizing.
	MinWidth  int
	MaxWidth  int
	MinHeight int
	MaxHeight int
	// Chrome elements in document order.
	Elements []Element
}

// Element is a single chrome element.
type Element struct {
	Type       ElementType
	Attributes map[string]string
	Children   []Element
}

// Parse reads a chrome template from r. The root element must be
// <chrome>.
func Parse(r io.Reader) (*Config, error) {
	decoder := xml.NewDecoder(r)

	var cfg Config
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "chrome" {
			continue
		}

		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "min-width":
				if v, err := parsePixelValue(attr.Value); err == nil {
					cfg.MinWidth = v
				}
			case "max-width":
				if v, err := parsePixelValue(attr.Value); err == nil {
					cfg.MaxWidth = v
				}
			case "min-height":
				if v, err := parsePixelValue(attr.Value); err == nil {
					cfg.MinHeight = v
				}
			case "max-height":
				if v, err := parsePixelValue(attr.Value); err == nil {
					cfg.MaxHeight = v
				}
			}
		}

		elements, err := parseElements(decoder)
		if err != nil {
			return nil, err
		}
		cfg.Elements = elements
		break
	}

	return &cfg, nil
}

// parsePixelValue parses a pixel value string (e.g. "300", "300px").
func parsePixelValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	var v int
	_, err := fmt.Sscanf(s, "%d", &v)
	return v, err
}

// parseElements recursively parses child elements until the enclosing
// end tag.
func parseElements(decoder *xml.Decoder) ([]Element, error) {
	var elements []Element

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read element: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := strings.ToLower(t.Name.Local)
			elemType, ok := ValidElements[name]
			if !ok {
				return nil, fmt.Errorf("unknown chrome element: %s", name)
			}

			elem := Element{
				Type:       elemType,
				Attributes: make(map[string]string),
			}
			for _, attr := range t.Attr {
				elem.Attributes[attr.Name.Local] = attr.Value
			}

			children, err := parseElements(decoder)
			if err != nil {
				return nil, err
			}
			elem.Children = children

			elements = append(elements, elem)

		case xml.EndElement:
			return elements, nil
		}
	}

	return elements, nil
}

// ParseString parses a chrome template from a string.
func ParseString(s string) (*Config, error) {
	return Parse(strings.NewReader(s))
}

// LoadFile loads a chrome template from a file.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Loader loads chrome templates by name, preferring a user directory
// over embedded defaults.
type Loader struct {
	templatesDir string
}

// NewLoader creates a loader rooted at templatesDir. An empty dir means
// embedded templates only.
func NewLoader(templatesDir string) *Loader {
	return &Loader{templatesDir: templatesDir}
}

// Load loads the named template. An empty name loads the default.
func (l *Loader) Load(name string) (*Config, error) {
	if l.templatesDir != "" && name != "" {
		path := filepath.Join(l.templatesDir, name+".xml")
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}

	if name == "" {
		name = "default"
	}
	if cfg, found := GetEmbeddedTemplate(name); found {
		return cfg, nil
	}

	return nil, fmt.Errorf("chrome template not found: %s", name)
}

// DefaultChrome returns the built-in default chrome layout.
func DefaultChrome() *Config {
	return &Config{
		MinWidth:  300,
		MaxWidth:  300,
		MinHeight: 0,
		MaxHeight: 600,
		Elements: []Element{
			{
				Type: ElementTypeHeader,
				Children: []Element{
					{Type: ElementTypeIcon},
					{
						Type: ElementTypeBox,
						Attributes: map[string]string{
							"orientation": "vertical",
						},
						Children: []Element{
							{Type: ElementTypeTitle},
							{Type: ElementTypeTimestamp},
						},
					},
					{Type: ElementTypeClose},
				},
			},
			{Type: ElementTypeBody},
		},
	}
}
