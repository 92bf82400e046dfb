package annotation

import "fmt"

// Common annotation names produced by upstream readers.
const (
	Bold        = "bold"
	Italic      = "italic"
	Underlined  = "underlined"
	Strike      = "strike"
	Superscript = "superscript"
	Subscript   = "subscript"
	Size        = "size"
	Style       = "style"
	LinkedText  = "linked_text"
	Table       = "table"
)

// Annotation marks the rune range [Start, End) of its owner's text.
type Annotation struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

func (a Annotation) String() string {
	return fmt.Sprintf("%s=%s[%d,%d)", a.Name, a.Value, a.Start, a.End)
}

// Valid reports whether the range is non-empty and non-negative.
func (a Annotation) Valid() bool {
	return a.Start >= 0 && a.Start < a.End
}

// Shift returns a copy moved by offset runes.
func (a Annotation) Shift(offset int) Annotation {
	a.Start += offset
	a.End += offset
	return a
}

// Shifted copies anns and moves every copy by offset runes.
func Shifted(anns []Annotation, offset int) []Annotation {
	if len(anns) == 0 {
		return nil
	}
	out := make([]Annotation, len(anns))
	for i, a := range anns {
		out[i] = a.Shift(offset)
	}
	return out
}
