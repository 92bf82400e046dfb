package doctree

import (
	"fmt"
	"math"
)

// LineType is the structural role of a line or node.
type LineType string

const (
	TypeRoot        LineType = "root"
	TypeHeader      LineType = "header"
	TypeNamedHeader LineType = "named_header"
	TypeListItem    LineType = "list_item"
	TypeList        LineType = "list" // synthetic container for a run of list items
	TypeRawText     LineType = "raw_text"
	TypeTable       LineType = "table"
)

// Level is a line's position in the document hierarchy. A nil Level1
// puts the level in the undefined band, which sorts after every defined
// level; only leaf roles (raw text, tables) may live there.
type Level struct {
	Level1         *int     `json:"level_1" yaml:"level_1"`
	Level2         float64  `json:"level_2" yaml:"level_2"`
	CanBeMultiline bool     `json:"can_be_multiline" yaml:"can_be_multiline"`
	LineType       LineType `json:"line_type" yaml:"line_type"`
}

// NewLevel returns a defined level.
func NewLevel(level1 int, level2 float64, multiline bool, lineType LineType) Level {
	return Level{Level1: &level1, Level2: level2, CanBeMultiline: multiline, LineType: lineType}
}

// RootLevel is the level of the document title band.
func RootLevel() Level {
	return NewLevel(0, 0, true, TypeRoot)
}

// RawTextLevel is the level of plain paragraph text.
func RawTextLevel() Level {
	return Level{CanBeMultiline: true, LineType: TypeRawText}
}

// TableLevel is the level of a spliced table placeholder.
func TableLevel() Level {
	return Level{LineType: TypeTable}
}

// ListLevel is the level of the synthetic list opened by item. It sits
// half a step above the item so it sorts before its first item and after
// any earlier sibling at the parent level.
func ListLevel(item Level) Level {
	l := Level{Level2: item.Level2 - 0.5, LineType: TypeList}
	if item.Level1 != nil {
		v := *item.Level1
		l.Level1 = &v
	}
	return l
}

func (l Level) IsDefined() bool  { return l.Level1 != nil }
func (l Level) IsRoot() bool     { return l.LineType == TypeRoot }
func (l Level) IsRawText() bool  { return l.LineType == TypeRawText }
func (l Level) IsListItem() bool { return l.LineType == TypeListItem }
func (l Level) IsList() bool     { return l.LineType == TypeList }
func (l Level) IsTable() bool    { return l.LineType == TypeTable }

// IsHeader reports header and named-header roles.
func (l Level) IsHeader() bool {
	return l.LineType == TypeHeader || l.LineType == TypeNamedHeader
}

// IsTitle reports whether the level is in the (0,0) band.
func (l Level) IsTitle() bool {
	return l.Level1 != nil && *l.Level1 == 0 && l.Level2 == 0
}

// Less orders levels lexicographically on (Level1, Level2); defined
// levels come before undefined ones.
func (l Level) Less(o Level) bool {
	switch {
	case l.IsDefined() && o.IsDefined():
		if *l.Level1 != *o.Level1 {
			return *l.Level1 < *o.Level1
		}
		return l.Level2 < o.Level2
	case l.IsDefined():
		return true
	default:
		return false
	}
}

// Equal compares level values only.
func (l Level) Equal(o Level) bool {
	if l.IsDefined() != o.IsDefined() {
		return false
	}
	if !l.IsDefined() {
		return true
	}
	return *l.Level1 == *o.Level1 && l.Level2 == o.Level2
}

func (l Level) LessOrEqual(o Level) bool {
	return l.Less(o) || l.Equal(o)
}

// Same reports equal values and an identical role.
func (l Level) Same(o Level) bool {
	return l.Equal(o) && l.LineType == o.LineType
}

// Validate reports levels the builders cannot order.
func (l Level) Validate() error {
	if l.LineType == "" {
		return fmt.Errorf("missing line type")
	}
	if math.IsNaN(l.Level2) || math.IsInf(l.Level2, 0) {
		return fmt.Errorf("level_2 is not finite")
	}
	if l.Level1 == nil {
		if l.IsRawText() || l.IsTable() {
			return nil
		}
		return fmt.Errorf("line type %q requires level_1", l.LineType)
	}
	if *l.Level1 < 0 {
		return fmt.Errorf("level_1 %d is negative", *l.Level1)
	}
	return nil
}

func (l Level) String() string {
	if l.Level1 == nil {
		return fmt.Sprintf("(-, %s)", l.LineType)
	}
	return fmt.Sprintf("(%d, %g, %s)", *l.Level1, l.Level2, l.LineType)
}
