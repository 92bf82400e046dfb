package linesource

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dgallion1/docstruct/internal/structure"
)

// JSONDecoder reads a single JSON object {"lines": [...], "tables": [...]}.
type JSONDecoder struct {
	Options
}

func (d *JSONDecoder) Decode(r io.Reader) (structure.Document, error) {
	data, err := readAll(r, d.MaxBytes)
	if err != nil {
		return structure.Document{}, err
	}

	if d.Validate {
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			return structure.Document{}, fmt.Errorf("parse json: %w", err)
		}
		if err := validate(raw); err != nil {
			return structure.Document{}, err
		}
	}

	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return structure.Document{}, fmt.Errorf("parse json: %w", err)
	}
	return doc.document(), nil
}
