package structure

import "github.com/dgallion1/docstruct/internal/doctree"

// LinearBuilder puts every line directly under an empty root, in input
// order, without looking at levels or merging anything.
type LinearBuilder struct{}

func (LinearBuilder) Build(lines []doctree.Line) (*doctree.Tree, error) {
	tree := doctree.NewTree()
	for _, l := range lines {
		tree.AddChild(tree.Root(), l)
	}
	return tree, nil
}
