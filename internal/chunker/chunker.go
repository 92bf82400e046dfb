package chunker

import (
	"strings"

	"github.com/dgallion1/docstruct/internal/doctree"
)

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1500,
		ChunkOverlap: 200,
		MinChunk:     100,
	}
}

// Chunk is a section-aligned piece of document text.
type Chunk struct {
	Text       string   `json:"text" yaml:"text"`
	Index      int      `json:"index" yaml:"index"`
	NodeID     string   `json:"node_id" yaml:"node_id"`
	Breadcrumb []string `json:"breadcrumb,omitempty" yaml:"breadcrumb,omitempty"`
	PageStart  int      `json:"page_start" yaml:"page_start"`
	PageEnd    int      `json:"page_end" yaml:"page_end"`
}

// section is the body text gathered under one header or the root.
type section struct {
	node       int
	breadcrumb []string
	paragraphs []string
	pageStart  int
	pageEnd    int
}

func (s *section) add(text string, page int) {
	if len(s.paragraphs) == 0 || page < s.pageStart {
		s.pageStart = page
	}
	if len(s.paragraphs) == 0 || page > s.pageEnd {
		s.pageEnd = page
	}
	s.paragraphs = append(s.paragraphs, text)
}

// ChunkTree walks a tree and produces structure-aware chunks. Header texts
// form the breadcrumb; every other node's text is body text of the nearest
// enclosing header.
func ChunkTree(tree *doctree.Tree, cfg Config) []Chunk {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1500
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = 100
	}

	var sections []*section
	collect(tree, tree.Root(), nil, &sections, nil)

	var chunks []Chunk
	index := 0
	for _, s := range sections {
		if len(s.paragraphs) == 0 {
			continue
		}
		body := strings.Join(s.paragraphs, "\n\n")
		parts := []string{body}
		if EstimateTokens(body) > cfg.ChunkSize {
			parts = splitText(body, cfg.ChunkSize, cfg.ChunkOverlap)
		}
		for _, part := range parts {
			if EstimateTokens(part) < cfg.MinChunk {
				continue
			}
			chunks = append(chunks, Chunk{
				Text:       part,
				Index:      index,
				NodeID:     tree.Node(s.node).ID,
				Breadcrumb: copyBreadcrumb(s.breadcrumb),
				PageStart:  s.pageStart,
				PageEnd:    s.pageEnd,
			})
			index++
		}
	}

	return chunks
}

// collect visits node i. The root and every header open a new section;
// other nodes add their text to cur.
func collect(tree *doctree.Tree, i int, breadcrumb []string, sections *[]*section, cur *section) {
	n := tree.Node(i)

	if n.Level.IsRoot() || n.Level.IsHeader() {
		var bc []string
		bc = append(bc, breadcrumb...)
		if title := strings.TrimSpace(n.Text); title != "" && !n.Level.IsRoot() {
			bc = append(bc, title)
		}
		cur = &section{node: i, breadcrumb: bc}
		*sections = append(*sections, cur)
		breadcrumb = bc
	} else if text := strings.TrimSpace(n.Text); text != "" {
		if n.Level.IsListItem() {
			text = "- " + text
		}
		cur.add(text, n.PageID)
	}

	for _, c := range n.Children {
		collect(tree, c, breadcrumb, sections, cur)
	}
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
func splitText(text string, targetTokens, overlapTokens int) []string {
	// Split by paragraphs first.
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		// A single paragraph over the target is split by sentences.
		if paraTokens > targetTokens {
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			result = append(result, splitBySentences(para, targetTokens, overlapTokens)...)
			continue
		}

		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			// Start next chunk with overlap from end of current.
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitByParagraphs splits on double-newlines.
func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			sentences = append(sentences, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}
	if current.Len() > 0 {
		sentences = append(sentences, strings.TrimSpace(current.String()))
	}

	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
