package linesource

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/docstruct/internal/structure"
)

// JSONLinesDecoder reads one line record per row. Blank rows are skipped.
// Tables cannot be expressed in this format.
type JSONLinesDecoder struct {
	Options
}

func (d *JSONLinesDecoder) Decode(r io.Reader) (structure.Document, error) {
	data, err := readAll(r, d.MaxBytes)
	if err != nil {
		return structure.Document{}, err
	}

	// The input is already bounded by MaxBytes, so rows are split in
	// memory and a single row may be as long as the whole input.
	var doc wireDocument
	var raw []any
	for i, line := range bytes.Split(data, []byte("\n")) {
		row := i + 1
		b := bytes.TrimSpace(line)
		if len(b) == 0 {
			continue
		}
		if d.Validate {
			var v any
			if err := json.Unmarshal(b, &v); err != nil {
				return structure.Document{}, fmt.Errorf("row %d: parse json: %w", row, err)
			}
			raw = append(raw, v)
		}
		var l wireLine
		if err := json.Unmarshal(b, &l); err != nil {
			return structure.Document{}, fmt.Errorf("row %d: parse json: %w", row, err)
		}
		doc.Lines = append(doc.Lines, l)
	}

	if d.Validate {
		if raw == nil {
			raw = []any{}
		}
		if err := validate(map[string]any{"lines": raw}); err != nil {
			return structure.Document{}, err
		}
	}
	return doc.document(), nil
}
