package doctree

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docstruct/internal/annotation"
)

// RootID is the node id of every tree's root.
const RootID = "0"

// NoParent is the Parent index of the root node.
const NoParent = -1

// Node is an entry in a Tree's arena. Parent and Children hold arena
// indices; the tree owns every node.
type Node struct {
	ID          string
	Text        string
	Annotations []annotation.Annotation
	Level       Level
	PageID      int
	LineID      int
	UID         string
	Parent      int
	Children    []int

	runes int
}

// Tree is a document hierarchy stored as an index arena. Node 0 is the root.
type Tree struct {
	nodes []Node
}

// NewTree returns a tree holding only an empty root.
func NewTree() *Tree {
	return &Tree{nodes: []Node{{ID: RootID, Level: RootLevel(), Parent: NoParent}}}
}

// Root returns the root index.
func (t *Tree) Root() int { return 0 }

// Len returns the number of nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node at index i. The pointer is valid until the next
// AddChild call.
func (t *Tree) Node(i int) *Node { return &t.nodes[i] }

// Children returns the child indices of node i in document order.
func (t *Tree) Children(i int) []int { return t.nodes[i].Children }

// Parent returns the parent index of node i, or false for the root.
func (t *Tree) Parent(i int) (int, bool) {
	p := t.nodes[i].Parent
	return p, p != NoParent
}

// AddChild appends a node built from line under parent and returns its
// index. The child's id is the parent's id plus its ordinal. The line's
// annotations are copied as they are.
func (t *Tree) AddChild(parent int, line Line) int {
	p := &t.nodes[parent]
	child := Node{
		ID:          p.ID + "." + strconv.Itoa(len(p.Children)),
		Text:        line.Text,
		Annotations: annotation.Shifted(line.Annotations, 0),
		Level:       line.Level,
		PageID:      line.PageID,
		LineID:      line.LineID,
		UID:         line.UID,
		Parent:      parent,
		runes:       utf8.RuneCountInString(line.Text),
	}
	idx := len(t.nodes)
	p.Children = append(p.Children, idx)
	t.nodes = append(t.nodes, child)
	return idx
}

// AppendLine concatenates line onto node i, shifting the line's
// annotations into the node's coordinates and merging them.
func (t *Tree) AppendLine(i int, line Line, m annotation.Merger) {
	n := &t.nodes[i]
	anns := make([]annotation.Annotation, 0, len(n.Annotations)+len(line.Annotations))
	anns = append(anns, n.Annotations...)
	anns = append(anns, annotation.Shifted(line.Annotations, n.runes)...)

	n.Text += line.Text
	n.runes += utf8.RuneCountInString(line.Text)
	n.Annotations = m.Merge(anns, n.Text)
}

// MergeAnnotations converges the annotations of node i.
func (t *Tree) MergeAnnotations(i int, m annotation.Merger) {
	n := &t.nodes[i]
	n.Annotations = m.Merge(n.Annotations, n.Text)
}

// SetOrigin records where node i came from.
func (t *Tree) SetOrigin(i int, line Line) {
	n := &t.nodes[i]
	n.PageID = line.PageID
	n.LineID = line.LineID
	n.UID = line.UID
}

// Walk visits nodes in pre-order with their depth (root is 0).
func (t *Tree) Walk(fn func(i int, depth int)) {
	var visit func(i, depth int)
	visit = func(i, depth int) {
		fn(i, depth)
		for _, c := range t.nodes[i].Children {
			visit(c, depth+1)
		}
	}
	visit(0, 0)
}

// Path returns the indices from the root down to node i.
func (t *Tree) Path(i int) []int {
	var path []int
	for cur := i; cur != NoParent; cur = t.nodes[cur].Parent {
		path = append(path, cur)
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

// Lookup finds a node by id.
func (t *Tree) Lookup(id string) (int, bool) {
	parts := strings.Split(id, ".")
	if len(parts) == 0 || parts[0] != RootID {
		return 0, false
	}
	cur := 0
	for _, p := range parts[1:] {
		ord, err := strconv.Atoi(p)
		if err != nil || ord < 0 || ord >= len(t.nodes[cur].Children) {
			return 0, false
		}
		cur = t.nodes[cur].Children[ord]
	}
	return cur, true
}

// CompareIDs orders node ids component-wise as integers. Sorting ids
// with it reproduces a pre-order traversal.
func CompareIDs(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		x, _ := strconv.Atoi(pa[i])
		y, _ := strconv.Atoi(pb[i])
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(pa) < len(pb):
		return -1
	case len(pa) > len(pb):
		return 1
	}
	return 0
}
