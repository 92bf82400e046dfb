package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bold(start, end int) Annotation {
	return Annotation{Start: start, End: end, Name: Bold, Value: "True"}
}

func TestMerge_SpaceGapJoins(t *testing.T) {
	got := Merge([]Annotation{bold(0, 2), bold(3, 5)}, "ab cd")
	assert.Equal(t, []Annotation{bold(0, 5)}, got)
}

func TestMerge_PunctuationGapSeparates(t *testing.T) {
	anns := []Annotation{bold(0, 2), bold(4, 6)}
	got := Merge(anns, "ab. cd")
	assert.Equal(t, anns, got)
}

func TestMerge_WordGapSeparates(t *testing.T) {
	anns := []Annotation{bold(0, 2), bold(5, 7)}
	got := Merge(anns, "ab xy cd")
	assert.Equal(t, anns, got)
}

func TestMerge_OverlapAndTouch(t *testing.T) {
	tests := []struct {
		name string
		in   []Annotation
		want []Annotation
	}{
		{"overlap", []Annotation{bold(0, 4), bold(2, 6)}, []Annotation{bold(0, 6)}},
		{"touch", []Annotation{bold(0, 3), bold(3, 6)}, []Annotation{bold(0, 6)}},
		{"contained", []Annotation{bold(0, 6), bold(1, 2)}, []Annotation{bold(0, 6)}},
		{"duplicate", []Annotation{bold(1, 4), bold(1, 4)}, []Annotation{bold(1, 4)}},
		{"unsorted chain", []Annotation{bold(4, 8), bold(0, 2), bold(2, 5)}, []Annotation{bold(0, 8)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.in, "abcdef ghijk"))
		})
	}
}

func TestMerge_NewlineGapJoins(t *testing.T) {
	got := Merge([]Annotation{bold(0, 3), bold(5, 8)}, "one\r\ntwo")
	assert.Equal(t, []Annotation{bold(0, 8)}, got)
}

func TestMerge_DifferentValuesStayApart(t *testing.T) {
	a := Annotation{Start: 0, End: 2, Name: Size, Value: "12.0"}
	b := Annotation{Start: 2, End: 4, Name: Size, Value: "14.0"}
	got := Merge([]Annotation{a, b}, "abcd")
	assert.Equal(t, []Annotation{a, b}, got)
}

func TestMerge_SortedByStartThenDeclaration(t *testing.T) {
	italic := Annotation{Start: 0, End: 3, Name: Italic, Value: "True"}
	size := Annotation{Start: 0, End: 9, Name: Size, Value: "10"}
	got := Merge([]Annotation{bold(4, 6), italic, size}, "abc def gh")
	assert.Equal(t, []Annotation{italic, size, bold(4, 6)}, got)
}

func TestMerge_EmptyAndSingle(t *testing.T) {
	assert.Nil(t, Merge(nil, ""))
	assert.Nil(t, Merge([]Annotation{}, "text"))
	assert.Equal(t, []Annotation{bold(0, 2)}, Merge([]Annotation{bold(0, 2)}, "ab"))
}

func TestMerge_DropsEmptyRanges(t *testing.T) {
	got := Merge([]Annotation{bold(2, 2), bold(3, 1), bold(0, 1)}, "abc")
	assert.Equal(t, []Annotation{bold(0, 1)}, got)
}

func TestMerge_GapPastEndOfTextNeverJoins(t *testing.T) {
	anns := []Annotation{bold(0, 2), bold(10, 12)}
	assert.Equal(t, anns, Merge(anns, "ab"))
}

func TestMerge_RuneOffsets(t *testing.T) {
	// "жир шрифт": the gap is one rune even though it follows multibyte runes.
	got := Merge([]Annotation{bold(0, 3), bold(4, 9)}, "жир шрифт")
	assert.Equal(t, []Annotation{bold(0, 9)}, got)
}

func TestMerge_Idempotent(t *testing.T) {
	text := "Hello, big world. Bold again and again"
	in := []Annotation{
		bold(0, 5), bold(7, 10), bold(11, 16), bold(18, 22), bold(23, 28),
		{Start: 0, End: 38, Name: Size, Value: "12"},
		{Start: 29, End: 32, Name: Italic, Value: "True"},
		{Start: 33, End: 38, Name: Italic, Value: "True"},
	}
	once := Merge(in, text)
	twice := Merge(once, text)
	assert.Equal(t, once, twice)
}

func TestMerge_Coverage(t *testing.T) {
	text := "aa bb, cc\ndd ee.ff  gg"
	in := []Annotation{
		bold(0, 2), bold(3, 5), bold(7, 9), bold(10, 12), bold(13, 15),
		bold(16, 18), bold(20, 22), bold(1, 4),
	}
	out := Merge(in, text)
	runes := []rune(text)
	p := DefaultPolicy()

	covered := func(set []Annotation, pos int) bool {
		for _, a := range set {
			if a.Start <= pos && pos < a.End {
				return true
			}
		}
		return false
	}
	for pos := range runes {
		inBefore := covered(in, pos)
		inAfter := covered(out, pos)
		if inBefore {
			assert.Truef(t, inAfter, "position %d lost", pos)
		}
		if inAfter && !inBefore {
			assert.Truef(t, p.Joins(runes[pos]), "position %d gained non-joiner %q", pos, runes[pos])
		}
	}

	m := Merger{}
	for i := range out {
		for j := range out {
			if i == j {
				continue
			}
			a, b := out[i], out[j]
			if a.Start > b.Start {
				continue
			}
			assert.Falsef(t, m.mergeable(a, b, runes), "%v and %v still mergeable", a, b)
		}
	}
}

func TestMerger_CustomBoundary(t *testing.T) {
	// Without '\n' in the class a newline gap no longer joins.
	m := NewMerger(".?! ")
	anns := []Annotation{bold(0, 3), bold(4, 7)}
	assert.Equal(t, anns, m.Merge(anns, "one\ntwo"))
	assert.Equal(t, []Annotation{bold(0, 7)}, m.Merge(anns, "one two"))
}

func TestShifted_CopiesInput(t *testing.T) {
	in := []Annotation{bold(0, 2)}
	out := Shifted(in, 5)
	require.Len(t, out, 1)
	assert.Equal(t, bold(5, 7), out[0])
	assert.Equal(t, bold(0, 2), in[0])
	assert.Nil(t, Shifted(nil, 3))
}

func TestPolicy_OnlyWhitespaceMembersJoin(t *testing.T) {
	p := Policy{Boundary: "-_ "}
	assert.True(t, p.Joins(' '))
	assert.False(t, p.Joins('-'))
	assert.False(t, p.Joins('_'))
	assert.False(t, p.Joins('\t'))

	m := Merger{Policy: p}
	anns := []Annotation{bold(0, 3), bold(4, 7)}
	assert.Equal(t, anns, m.Merge(anns, "one-two"))
	assert.Equal(t, []Annotation{bold(0, 7)}, m.Merge(anns, "one two"))
}
