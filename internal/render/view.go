package render

import (
	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/doctree"
)

// View is the serialized form of a tree node and its subtree.
type View struct {
	NodeID        string                  `json:"node_id" yaml:"node_id"`
	Text          string                  `json:"text" yaml:"text"`
	Annotations   []annotation.Annotation `json:"annotations" yaml:"annotations"`
	Metadata      Metadata                `json:"metadata" yaml:"metadata"`
	Subparagraphs []View                  `json:"subparagraphs" yaml:"subparagraphs"`
}

// Metadata carries a node's hierarchy and origin.
type Metadata struct {
	LineType       doctree.LineType `json:"line_type" yaml:"line_type"`
	Level1         *int             `json:"level_1" yaml:"level_1"`
	Level2         float64          `json:"level_2" yaml:"level_2"`
	CanBeMultiline bool             `json:"can_be_multiline" yaml:"can_be_multiline"`
	PageID         int              `json:"page_id" yaml:"page_id"`
	LineID         int              `json:"line_id" yaml:"line_id"`
	UID            string           `json:"uid,omitempty" yaml:"uid,omitempty"`
}

// NewView converts tree into nested views rooted at the tree's root.
func NewView(tree *doctree.Tree) View {
	return viewOf(tree, tree.Root())
}

func viewOf(tree *doctree.Tree, i int) View {
	n := tree.Node(i)
	v := View{
		NodeID:      n.ID,
		Text:        n.Text,
		Annotations: n.Annotations,
		Metadata: Metadata{
			LineType:       n.Level.LineType,
			Level1:         n.Level.Level1,
			Level2:         n.Level.Level2,
			CanBeMultiline: n.Level.CanBeMultiline,
			PageID:         n.PageID,
			LineID:         n.LineID,
			UID:            n.UID,
		},
		Subparagraphs: make([]View, 0, len(n.Children)),
	}
	if v.Annotations == nil {
		v.Annotations = []annotation.Annotation{}
	}
	for _, c := range n.Children {
		v.Subparagraphs = append(v.Subparagraphs, viewOf(tree, c))
	}
	return v
}
