package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// Format is an output format for built trees.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatHTML, FormatMarkdown}
}

// ParseFormat accepts a format name or the aliases "yml" and "md".
func ParseFormat(s string) (Format, error) {
	switch s {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Extension is the file extension used when writing format to disk.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatHTML:
		return ".html"
	case FormatMarkdown:
		return ".md"
	default:
		return ".json"
	}
}

// Write renders tree to w in format f.
func Write(w io.Writer, f Format, tree *doctree.Tree) error {
	switch f {
	case FormatJSON, FormatYAML:
		return Encode(w, f, NewView(tree))
	case FormatHTML:
		return writeHTML(w, tree)
	case FormatMarkdown:
		return writeMarkdown(w, tree)
	default:
		return fmt.Errorf("unknown output format: %s", f)
	}
}

// Encode writes any value as indented JSON or YAML.
func Encode(w io.Writer, f Format, data any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("format %s cannot encode arbitrary data", f)
	}
}
