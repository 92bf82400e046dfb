package linesource

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docstruct/internal/annotation"
	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/structure"
)

// Decoder reads a classified line document.
type Decoder interface {
	Decode(r io.Reader) (structure.Document, error)
}

// Options apply to every decoder.
type Options struct {
	Validate bool  // check the raw input against the line document schema
	MaxBytes int64 // 0 means unlimited
}

// SupportedExtensions lists file extensions this package can decode.
var SupportedExtensions = map[string]bool{
	".json":   true,
	".jsonl":  true,
	".ndjson": true,
}

// ForFile returns the decoder for a filename.
func ForFile(filename string, opts Options) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONDecoder{Options: opts}, nil
	case ".jsonl", ".ndjson":
		return &JSONLinesDecoder{Options: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// wireDocument is the JSON shape of a line document.
type wireDocument struct {
	Lines  []wireLine  `json:"lines"`
	Tables []wireTable `json:"tables,omitempty"`
}

type wireLine struct {
	Text        string                  `json:"text"`
	Annotations []annotation.Annotation `json:"annotations,omitempty"`
	Metadata    wireMetadata            `json:"metadata"`
}

type wireMetadata struct {
	HierarchyLevel doctree.Level `json:"hierarchy_level"`
	PageID         int           `json:"page_id"`
	LineID         int           `json:"line_id"`
	UID            string        `json:"uid,omitempty"`
}

type wireTable struct {
	UID    string `json:"uid"`
	PageID int    `json:"page_id"`
	LineID int    `json:"line_id"`
}

func (l wireLine) line() doctree.Line {
	return doctree.Line{
		Text:        l.Text,
		Annotations: l.Annotations,
		Level:       l.Metadata.HierarchyLevel,
		PageID:      l.Metadata.PageID,
		LineID:      l.Metadata.LineID,
		UID:         l.Metadata.UID,
	}
}

func (d wireDocument) document() structure.Document {
	doc := structure.Document{Lines: make([]doctree.Line, len(d.Lines))}
	for i, l := range d.Lines {
		doc.Lines[i] = l.line()
	}
	for _, t := range d.Tables {
		doc.Tables = append(doc.Tables, structure.Table{UID: t.UID, PageID: t.PageID, LineID: t.LineID})
	}
	return doc
}

// readAll reads r, failing when it holds more than max bytes.
func readAll(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("input exceeds max size (%d bytes)", max)
	}
	return data, nil
}
