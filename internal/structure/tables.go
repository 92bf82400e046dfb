package structure

import (
	"sort"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// Table is a placeholder for a table extracted upstream. It is anchored
// to the position (PageID, LineID) it followed in the source.
type Table struct {
	UID    string
	PageID int
	LineID int
}

func (t Table) before(l doctree.Line) bool {
	if t.PageID != l.PageID {
		return t.PageID < l.PageID
	}
	return t.LineID < l.LineID
}

// SpliceTables returns lines with one table line per placeholder. A
// placeholder goes in front of the first body line positioned after its
// anchor, or at the end; it never lands inside the leading title band.
// The input slice is not modified.
func SpliceTables(lines []doctree.Line, tables []Table) []doctree.Line {
	if len(tables) == 0 {
		return lines
	}

	sorted := make([]Table, len(tables))
	copy(sorted, tables)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PageID != sorted[j].PageID {
			return sorted[i].PageID < sorted[j].PageID
		}
		return sorted[i].LineID < sorted[j].LineID
	})

	n := titleLen(lines)
	out := make([]doctree.Line, 0, len(lines)+len(sorted))
	out = append(out, lines[:n]...)

	next := 0
	for _, l := range lines[n:] {
		for next < len(sorted) && sorted[next].before(l) {
			out = append(out, tableLine(sorted[next]))
			next++
		}
		out = append(out, l)
	}
	for ; next < len(sorted); next++ {
		out = append(out, tableLine(sorted[next]))
	}
	return out
}

func tableLine(t Table) doctree.Line {
	return doctree.Line{
		Level:  doctree.TableLevel(),
		PageID: t.PageID,
		LineID: t.LineID,
		UID:    t.UID,
	}
}
