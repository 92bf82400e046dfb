package render

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/doctree"
)

var headings = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func writeHTML(w io.Writer, tree *doctree.Tree) error {
	root := tree.Node(tree.Root())

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	title := element(atom.Title)
	title.AppendChild(&html.Node{Type: html.TextNode, Data: root.Text})
	head.AppendChild(title)

	body := element(atom.Body, attr("data-node-id", root.ID))
	if root.Text != "" {
		h := element(atom.H1, attr("class", "title"))
		appendInline(h, root.Text, root.Annotations)
		body.AppendChild(h)
	}
	for _, c := range tree.Children(tree.Root()) {
		appendNode(body, tree, c, 1)
	}

	page := element(atom.Html)
	page.AppendChild(head)
	page.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(page)
	return html.Render(w, doc)
}

func appendNode(parent *html.Node, tree *doctree.Tree, i, depth int) {
	n := tree.Node(i)
	id := attr("data-node-id", n.ID)

	switch {
	case n.Level.IsHeader():
		section := element(atom.Section, id)
		h := element(headings[min(depth+1, len(headings))-1])
		appendInline(h, n.Text, n.Annotations)
		section.AppendChild(h)
		for _, c := range n.Children {
			appendNode(section, tree, c, depth+1)
		}
		parent.AppendChild(section)

	case n.Level.IsList():
		ul := element(atom.Ul, id)
		for _, c := range n.Children {
			if tree.Node(c).Level.IsListItem() {
				appendNode(ul, tree, c, depth+1)
				continue
			}
			li := element(atom.Li)
			appendNode(li, tree, c, depth+1)
			ul.AppendChild(li)
		}
		parent.AppendChild(ul)

	case n.Level.IsListItem():
		li := element(atom.Li, id)
		appendInline(li, n.Text, n.Annotations)
		for _, c := range n.Children {
			appendNode(li, tree, c, depth+1)
		}
		parent.AppendChild(li)

	case n.Level.IsTable():
		parent.AppendChild(element(atom.Div, id, attr("class", "table"), attr("data-table-uid", n.UID)))

	case n.Level.IsRawText():
		p := element(atom.P, id)
		appendInline(p, n.Text, n.Annotations)
		parent.AppendChild(p)
		for _, c := range n.Children {
			appendNode(parent, tree, c, depth+1)
		}

	default:
		div := element(atom.Div, id, attr("data-line-type", string(n.Level.LineType)))
		appendInline(div, n.Text, n.Annotations)
		for _, c := range n.Children {
			appendNode(div, tree, c, depth+1)
		}
		parent.AppendChild(div)
	}
}

// appendInline adds text to parent, wrapping each styled run in the
// matching inline elements.
func appendInline(parent *html.Node, text string, anns []annotation.Annotation) {
	for _, seg := range segments(text, anns) {
		target := parent
		wrap := func(el *html.Node) {
			target.AppendChild(el)
			target = el
		}
		st := seg.style
		if st.href != "" {
			wrap(element(atom.A, attr("href", st.href)))
		}
		if st.bold {
			wrap(element(atom.B))
		}
		if st.italic {
			wrap(element(atom.I))
		}
		if st.underline {
			wrap(element(atom.U))
		}
		if st.strike {
			wrap(element(atom.S))
		}
		if st.sup {
			wrap(element(atom.Sup))
		}
		if st.sub {
			wrap(element(atom.Sub))
		}
		target.AppendChild(&html.Node{Type: html.TextNode, Data: seg.text})
	}
}
