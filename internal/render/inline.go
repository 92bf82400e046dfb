package render

import (
	"sort"

	"github.com/dgallion1/docstruct/internal/annotation"
)

// style is the set of inline formats active over a run of text.
type style struct {
	bold      bool
	italic    bool
	underline bool
	strike    bool
	sup       bool
	sub       bool
	href      string
}

type segment struct {
	text  string
	style style
}

func enabled(value string) bool {
	switch value {
	case "", "False", "false", "0":
		return false
	}
	return true
}

// apply reports whether a is an inline format and records it in s.
func (s *style) apply(a annotation.Annotation) bool {
	switch a.Name {
	case annotation.Bold:
		s.bold = s.bold || enabled(a.Value)
	case annotation.Italic:
		s.italic = s.italic || enabled(a.Value)
	case annotation.Underlined:
		s.underline = s.underline || enabled(a.Value)
	case annotation.Strike:
		s.strike = s.strike || enabled(a.Value)
	case annotation.Superscript:
		s.sup = s.sup || enabled(a.Value)
	case annotation.Subscript:
		s.sub = s.sub || enabled(a.Value)
	case annotation.LinkedText:
		if a.Value != "" {
			s.href = a.Value
		}
	default:
		return false
	}
	return true
}

// segments cuts text at every inline format boundary. Adjacent runs with
// the same style are joined.
func segments(text string, anns []annotation.Annotation) []segment {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var active []annotation.Annotation
	cuts := map[int]bool{0: true, len(runes): true}
	for _, a := range anns {
		var probe style
		if !probe.apply(a) {
			continue
		}
		start, end := max(a.Start, 0), min(a.End, len(runes))
		if start >= end {
			continue
		}
		a.Start, a.End = start, end
		active = append(active, a)
		cuts[start] = true
		cuts[end] = true
	}

	points := make([]int, 0, len(cuts))
	for p := range cuts {
		points = append(points, p)
	}
	sort.Ints(points)

	var out []segment
	for k := 0; k+1 < len(points); k++ {
		from, to := points[k], points[k+1]
		var st style
		for _, a := range active {
			if a.Start <= from && to <= a.End {
				st.apply(a)
			}
		}
		if n := len(out); n > 0 && out[n-1].style == st {
			out[n-1].text += string(runes[from:to])
			continue
		}
		out = append(out, segment{text: string(runes[from:to]), style: st})
	}
	return out
}
