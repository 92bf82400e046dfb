package render

import (
	"io"
	"strings"
	"unicode"

	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/doctree"
)

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"~", `\~`,
)

func writeMarkdown(w io.Writer, tree *doctree.Tree) error {
	var b strings.Builder
	root := tree.Node(tree.Root())
	if root.Text != "" {
		b.WriteString("# ")
		b.WriteString(headingText(inlineMarkdown(root.Text, root.Annotations)))
		b.WriteString("\n\n")
	}
	for _, c := range tree.Children(tree.Root()) {
		markdownNode(&b, tree, c, 1, "")
	}
	_, err := io.WriteString(w, strings.TrimRight(b.String(), "\n")+"\n")
	return err
}

// markdownNode writes node i. indent is non-empty inside a list item,
// where blocks are written as continuation lines.
func markdownNode(b *strings.Builder, tree *doctree.Tree, i, depth int, indent string) {
	n := tree.Node(i)
	text := inlineMarkdown(n.Text, n.Annotations)

	switch {
	case n.Level.IsHeader():
		if indent != "" {
			b.WriteString(indent + escapeBlockStart(oneLine(text)) + "\n")
		} else {
			b.WriteString(strings.Repeat("#", min(depth+1, 6)) + " " + headingText(text) + "\n\n")
		}
		for _, c := range n.Children {
			markdownNode(b, tree, c, depth+1, indent)
		}

	case n.Level.IsList():
		for _, c := range n.Children {
			markdownNode(b, tree, c, depth+1, indent)
		}
		if indent == "" {
			b.WriteString("\n")
		}

	case n.Level.IsListItem():
		b.WriteString(indent + "- " + escapeBlockStart(oneLine(text)) + "\n")
		for _, c := range n.Children {
			markdownNode(b, tree, c, depth+1, indent+"  ")
		}

	case n.Level.IsTable():
		comment := "<!-- table: " + n.UID + " -->"
		if indent != "" {
			b.WriteString(indent + comment + "\n")
		} else {
			b.WriteString(comment + "\n\n")
		}

	default:
		if strings.TrimSpace(n.Text) != "" {
			if indent != "" {
				b.WriteString(indent + escapeBlockStart(oneLine(text)) + "\n")
			} else {
				b.WriteString(paragraph(text) + "\n\n")
			}
		}
		for _, c := range n.Children {
			markdownNode(b, tree, c, depth+1, indent)
		}
	}
}

// inlineMarkdown escapes text and wraps bold, italic and linked runs.
// Surrounding whitespace stays outside the markers.
func inlineMarkdown(text string, anns []annotation.Annotation) string {
	var b strings.Builder
	for _, seg := range segments(text, anns) {
		core := strings.TrimFunc(seg.text, unicode.IsSpace)
		if core == "" {
			b.WriteString(seg.text)
			continue
		}
		lead := seg.text[:strings.Index(seg.text, core)]
		trail := seg.text[len(lead)+len(core):]

		core = mdEscaper.Replace(core)
		marker := ""
		if seg.style.bold {
			marker += "**"
		}
		if seg.style.italic {
			marker += "*"
		}
		if seg.style.strike {
			core = "~~" + core + "~~"
		}
		core = marker + core + marker
		if seg.style.href != "" {
			core = "[" + core + "](" + seg.style.href + ")"
		}
		b.WriteString(lead + core + trail)
	}
	return b.String()
}

// paragraph writes text as one paragraph, escaping every line that would
// otherwise start a block of its own.
func paragraph(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, l := range lines {
		lines[i] = escapeBlockStart(strings.TrimLeft(l, " \t"))
	}
	return strings.Join(lines, "\n")
}

// headingText keeps a trailing # from reading as a closing sequence.
func headingText(text string) string {
	h := oneLine(text)
	if strings.HasSuffix(h, "#") {
		h = h[:len(h)-1] + `\#`
	}
	return h
}

// escapeBlockStart escapes a leading character that would open a heading,
// quote, list, setext underline or thematic break.
func escapeBlockStart(line string) string {
	if line == "" {
		return line
	}
	switch line[0] {
	case '#', '>', '-', '+', '=':
		return `\` + line
	}
	i := 0
	for i < len(line) && i < 9 && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < len(line) && (line[i] == '.' || line[i] == ')') &&
		(i+1 == len(line) || line[i+1] == ' ' || line[i+1] == '\t') {
		return line[:i] + `\` + line[i:]
	}
	return line
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
