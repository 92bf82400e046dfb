package structure

import (
	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/doctree"
)

// Document is a classified line sequence plus the tables extracted from it.
type Document struct {
	Lines  []doctree.Line
	Tables []Table
}

// Dispatcher resolves structure type tokens and runs the chosen builder.
type Dispatcher struct {
	Default Kind
	Merger  annotation.Merger
}

// NewDispatcher parses the configured default token. An empty token
// defaults to the tree builder.
func NewDispatcher(defaultToken string, m annotation.Merger) (Dispatcher, error) {
	def, err := ParseKind(defaultToken, KindTree)
	if err != nil {
		return Dispatcher{}, err
	}
	return Dispatcher{Default: def, Merger: m}, nil
}

// Resolve maps a caller-supplied token to a Kind.
func (d Dispatcher) Resolve(token string) (Kind, error) {
	return ParseKind(token, d.Default)
}

// Build splices tables into the line sequence and runs the builder for k.
func (d Dispatcher) Build(k Kind, doc Document) (*doctree.Tree, error) {
	lines := SpliceTables(doc.Lines, doc.Tables)
	return New(k, d.Merger).Build(lines)
}

// Structure resolves token and builds doc.
func (d Dispatcher) Structure(token string, doc Document) (*doctree.Tree, error) {
	k, err := d.Resolve(token)
	if err != nil {
		return nil, err
	}
	return d.Build(k, doc)
}
