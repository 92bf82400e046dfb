package doctree

import "github.com/dgallion1/docstruct/internal/annotation"

// Line is one classified input line. Builders never modify it.
type Line struct {
	Text        string
	Annotations []annotation.Annotation
	Level       Level
	PageID      int
	LineID      int
	UID         string // optional upstream identifier
}
