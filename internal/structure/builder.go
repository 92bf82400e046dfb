package structure

import (
	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/doctree"
)

// Builder turns a classified line sequence into a tree. Implementations
// hold no per-build state, so one value may serve concurrent builds.
type Builder interface {
	Build(lines []doctree.Line) (*doctree.Tree, error)
}

// Kind selects a builder.
type Kind int

const (
	KindTree Kind = iota
	KindLinear
)

var kindNames = map[Kind]string{
	KindTree:   "tree",
	KindLinear: "linear",
}

// ValidKinds lists the accepted structure type tokens.
func ValidKinds() []string {
	return []string{"linear", "tree"}
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a structure type token to a Kind. An empty token
// selects def; anything else unknown is a *ConfigurationError.
func ParseKind(token string, def Kind) (Kind, error) {
	switch token {
	case "":
		return def, nil
	case "tree":
		return KindTree, nil
	case "linear":
		return KindLinear, nil
	default:
		return 0, &ConfigurationError{Token: token, Valid: ValidKinds()}
	}
}

// New returns the builder for k.
func New(k Kind, m annotation.Merger) Builder {
	if k == KindLinear {
		return LinearBuilder{}
	}
	return TreeBuilder{Merger: m}
}
