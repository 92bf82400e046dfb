package annotation

import (
	"sort"
	"strings"
	"unicode"
)

// DefaultBoundary is the sentence-boundary character class. Only its
// whitespace members (space, \n, \r) ever join annotations across a gap.
// Listing a non-whitespace character has no joining effect, so a custom
// class can narrow the joiners but not widen them past whitespace.
const DefaultBoundary = ".?!,:;\"'\n\r "

// Policy decides when two annotations of the same name and value that do
// not touch may still be joined across the text between them.
type Policy struct {
	// Boundary is the sentence-boundary character class. Its whitespace
	// members join neighbouring annotations; its punctuation members and
	// every character outside the class keep them apart.
	Boundary string
}

// DefaultPolicy returns the policy built on DefaultBoundary.
func DefaultPolicy() Policy {
	return Policy{Boundary: DefaultBoundary}
}

func (p Policy) boundary() string {
	if p.Boundary == "" {
		return DefaultBoundary
	}
	return p.Boundary
}

// Joins reports whether r may sit in a gap between two mergeable annotations.
func (p Policy) Joins(r rune) bool {
	return unicode.IsSpace(r) && strings.ContainsRune(p.boundary(), r)
}

// Merger converges an annotation set to its minimal sorted form.
// The zero value uses DefaultPolicy.
type Merger struct {
	Policy Policy
}

// NewMerger returns a merger using the given boundary class. An empty
// class falls back to DefaultBoundary.
func NewMerger(boundary string) Merger {
	return Merger{Policy: Policy{Boundary: boundary}}
}

// Merge is Merger{}.Merge.
func Merge(anns []Annotation, text string) []Annotation {
	return Merger{}.Merge(anns, text)
}

type entry struct {
	Annotation
	order int
}

type groupKey struct {
	name  string
	value string
}

// Merge joins overlapping, touching and whitespace-separated annotations
// that share a name and value, repeating until a pass changes nothing.
// The result is sorted by start; ties keep the order in which the first
// contributing annotation was declared. Empty ranges are dropped.
func (m Merger) Merge(anns []Annotation, text string) []Annotation {
	entries := make([]entry, 0, len(anns))
	for i, a := range anns {
		if a.Valid() {
			entries = append(entries, entry{Annotation: a, order: i})
		}
	}
	if len(entries) == 0 {
		return nil
	}

	runes := []rune(text)
	for {
		var merged bool
		entries, merged = m.pass(entries, runes)
		if !merged {
			break
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Start != entries[j].Start {
			return entries[i].Start < entries[j].Start
		}
		return entries[i].order < entries[j].order
	})

	out := make([]Annotation, len(entries))
	for i, e := range entries {
		out[i] = e.Annotation
	}
	return out
}

// pass runs one sweep over every (name, value) group.
func (m Merger) pass(entries []entry, text []rune) ([]entry, bool) {
	groups := make(map[groupKey][]entry)
	var keys []groupKey
	for _, e := range entries {
		k := groupKey{name: e.Name, value: e.Value}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], e)
	}

	out := make([]entry, 0, len(entries))
	merged := false
	for _, k := range keys {
		group := groups[k]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Start < group[j].Start })

		cur := group[0]
		for _, next := range group[1:] {
			if !m.mergeable(cur.Annotation, next.Annotation, text) {
				out = append(out, cur)
				cur = next
				continue
			}
			// cur.Start <= next.Start, so only the end and order can move.
			if next.End > cur.End {
				cur.End = next.End
			}
			if next.order < cur.order {
				cur.order = next.order
			}
			merged = true
		}
		out = append(out, cur)
	}
	return out, merged
}

// mergeable expects a.Start <= b.Start.
func (m Merger) mergeable(a, b Annotation, text []rune) bool {
	if a.End >= b.Start {
		return true
	}
	if b.Start > len(text) {
		return false
	}
	for _, r := range text[a.End:b.Start] {
		if !m.Policy.Joins(r) {
			return false
		}
	}
	return true
}
