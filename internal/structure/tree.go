package structure

import (
	"fmt"

	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/doctree"
)

// TreeBuilder nests lines by hierarchy level.
//
// Leading (0,0) lines become the root's text. Every run of list items
// that does not continue an open list gets a synthetic, empty "list"
// parent. Consecutive raw text lines, and consecutive multiline lines of
// the same level and role, are concatenated into one node; any other line
// becomes a child of the nearest open node with a strictly smaller level.
type TreeBuilder struct {
	Merger annotation.Merger
}

// workLine is a line of the augmented sequence. src is the input index;
// a synthesized list line carries the index of the item that opened it.
type workLine struct {
	doctree.Line
	src int
}

func (b TreeBuilder) Build(lines []doctree.Line) (*doctree.Tree, error) {
	for i, l := range lines {
		if err := l.Level.Validate(); err != nil {
			return nil, &ContractViolation{Index: i, PageID: l.PageID, LineID: l.LineID, Reason: err.Error()}
		}
	}

	tree := doctree.NewTree()
	root := tree.Root()

	n := titleLen(lines)
	for i, l := range lines[:n] {
		if i == 0 {
			tree.SetOrigin(root, l)
		}
		tree.AppendLine(root, l, b.Merger)
	}

	cursor := root
	for _, wl := range withLists(lines, n) {
		l := wl.Line
		cur := tree.Node(cursor)

		if l.Level.IsRawText() && cur.Level.IsRawText() {
			tree.AppendLine(cursor, l, b.Merger)
			continue
		}
		if l.Level.CanBeMultiline && l.Level.Same(cur.Level) {
			tree.AppendLine(cursor, l, b.Merger)
			continue
		}

		for l.Level.LessOrEqual(tree.Node(cursor).Level) {
			parent, ok := tree.Parent(cursor)
			if !ok {
				return nil, &ContractViolation{
					Index:  wl.src,
					PageID: l.PageID,
					LineID: l.LineID,
					Reason: fmt.Sprintf("level %s does not fit below the root", l.Level),
				}
			}
			cursor = parent
		}
		cursor = tree.AddChild(cursor, l)
		tree.MergeAnnotations(cursor, b.Merger)
	}

	return tree, nil
}

// titleLen counts the leading lines of the (0,0) band.
func titleLen(lines []doctree.Line) int {
	for i, l := range lines {
		if !l.Level.IsTitle() {
			return i
		}
	}
	return len(lines)
}

// withLists returns lines[from:] with a synthetic list line inserted in
// front of every list item that opens a new list. A list stays open
// across raw text and deeper items; any other line closes all lists.
func withLists(lines []doctree.Line, from int) []workLine {
	out := make([]workLine, 0, len(lines)-from)
	var open []doctree.Level

	for i := from; i < len(lines); i++ {
		l := lines[i]
		switch {
		case l.Level.IsListItem():
			for len(open) > 0 && l.Level.Less(open[len(open)-1]) {
				open = open[:len(open)-1]
			}
			if len(open) == 0 || open[len(open)-1].Less(l.Level) {
				out = append(out, workLine{Line: listLine(l), src: i})
				open = append(open, l.Level)
			}
		case !l.Level.IsRawText():
			open = open[:0]
		}
		out = append(out, workLine{Line: l, src: i})
	}
	return out
}

func listLine(item doctree.Line) doctree.Line {
	return doctree.Line{
		Level:  doctree.ListLevel(item.Level),
		PageID: item.PageID,
		LineID: item.LineID,
	}
}
