package structure

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/doctree"
)

func scenarioA() []doctree.Line {
	return []doctree.Line{
		title("Title"),
		header(1, 0, "Header A"),
		item(2, 1, "one"),
		item(2, 1, "two"),
		header(1, 0, "Header B"),
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		token   string
		def     Kind
		want    Kind
		wantErr bool
	}{
		{"", KindTree, KindTree, false},
		{"", KindLinear, KindLinear, false},
		{"tree", KindLinear, KindTree, false},
		{"linear", KindTree, KindLinear, false},
		{"Tree", KindTree, 0, true},
		{"paragraphs", KindTree, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.token, tt.def)
		if tt.wantErr {
			require.Errorf(t, err, "token %q", tt.token)
			assert.True(t, errors.Is(err, ErrConfiguration))
			var ce *ConfigurationError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.token, ce.Token)
			assert.Contains(t, ce.Error(), "linear, tree")
			continue
		}
		require.NoErrorf(t, err, "token %q", tt.token)
		assert.Equal(t, tt.want, got)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "tree", KindTree.String())
	assert.Equal(t, "linear", KindLinear.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestNewDispatcher(t *testing.T) {
	d, err := NewDispatcher("", annotation.Merger{})
	require.NoError(t, err)
	assert.Equal(t, KindTree, d.Default)

	d, err = NewDispatcher("linear", annotation.Merger{})
	require.NoError(t, err)
	assert.Equal(t, KindLinear, d.Default)

	_, err = NewDispatcher("nested", annotation.Merger{})
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestDispatcher_Structure(t *testing.T) {
	d, err := NewDispatcher("tree", annotation.Merger{})
	require.NoError(t, err)
	doc := Document{Lines: scenarioA()}

	tree, err := d.Structure("", doc)
	require.NoError(t, err)
	assert.Equal(t, "Title[Header A[<list>[one,two]],Header B]", describe(tree, tree.Root()))

	tree, err = d.Structure("linear", doc)
	require.NoError(t, err)
	assert.Equal(t, "[Title,Header A,one,two,Header B]", describe(tree, tree.Root()))

	_, err = d.Structure("bogus", doc)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestDispatcher_SplicesTables(t *testing.T) {
	lines := []doctree.Line{
		title("T"),
		header(1, 0, "H"),
		raw("before"),
		raw("after"),
	}
	for i := range lines {
		lines[i].LineID = i
	}
	d := Dispatcher{Default: KindTree}

	tree, err := d.Structure("", Document{Lines: lines, Tables: []Table{{UID: "t1", LineID: 2}}})
	require.NoError(t, err)
	assert.Equal(t, "T[H[before,<table:t1>,after]]", describe(tree, tree.Root()))
}

func TestLinearBuilder_KeepsLinesUnchanged(t *testing.T) {
	lines := []doctree.Line{
		title("T"),
		raw("ab cd", bold(0, 2), bold(3, 5)),
		raw("ef"),
	}
	tree, err := LinearBuilder{}.Build(lines)
	require.NoError(t, err)

	root := tree.Node(tree.Root())
	assert.Equal(t, "", root.Text)
	require.Len(t, root.Children, 3)
	for i, c := range root.Children {
		n := tree.Node(c)
		assert.Equal(t, lines[i].Text, n.Text)
		assert.Equal(t, lines[i].Level, n.Level)
	}
	assert.Equal(t, []annotation.Annotation{bold(0, 2), bold(3, 5)}, tree.Node(root.Children[1]).Annotations)
}

func TestLinearBuilder_MatchesTreeOrder(t *testing.T) {
	lines := []doctree.Line{
		header(1, 0, "A"),
		raw("p"),
		header(2, 0, "A.1"),
		header(1, 0, "B"),
	}
	flat, err := LinearBuilder{}.Build(lines)
	require.NoError(t, err)
	nested, err := TreeBuilder{}.Build(lines)
	require.NoError(t, err)

	var want, got []string
	for _, c := range flat.Children(flat.Root()) {
		want = append(want, flat.Node(c).Text)
	}
	nested.Walk(func(i, depth int) {
		if depth > 0 {
			got = append(got, nested.Node(i).Text)
		}
	})
	assert.Equal(t, want, got)
}

func TestSpliceTables(t *testing.T) {
	at := func(page, line int, l doctree.Line) doctree.Line {
		l.PageID, l.LineID = page, line
		return l
	}
	lines := []doctree.Line{
		at(0, 0, title("T")),
		at(0, 1, header(1, 0, "H")),
		at(0, 2, raw("a")),
		at(1, 0, raw("b")),
	}
	tables := []Table{
		{UID: "end", PageID: 3, LineID: 0},
		{UID: "first", PageID: 0, LineID: 0},
		{UID: "mid", PageID: 0, LineID: 5},
	}

	out := SpliceTables(lines, tables)
	var got []string
	for _, l := range out {
		if l.Level.IsTable() {
			got = append(got, "<"+l.UID+">")
			continue
		}
		got = append(got, l.Text)
	}
	assert.Equal(t, []string{"T", "<first>", "H", "a", "<mid>", "b", "<end>"}, got)
	assert.Len(t, lines, 4)
	assert.Equal(t, lines, SpliceTables(lines, nil))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ConfigurationError{Token: "x"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(&ContractViolation{}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
