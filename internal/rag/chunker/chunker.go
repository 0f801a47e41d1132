package chunker

import (
	"strings"

	"github.com/anveshk/workflowgen/internal/domain/docmodel"
)

// Chunker splits raw document text into fixed-size windows with no
// overlap, left to right. Whitespace-only windows are dropped and the
// survivors renumbered contiguously from 0, so concatenating chunk
// texts in index order reconstructs the document modulo blank spans.
type Chunker struct {
	windowSize int
}

func New(windowSize int) *Chunker {
	if windowSize <= 0 {
		windowSize = 1000
	}
	return &Chunker{windowSize: windowSize}
}

func (c *Chunker) WindowSize() int {
	return c.windowSize
}

// Split is pure and deterministic: same text and window size always
// yield identical boundaries. Windows are byte slices of at most
// windowSize; before blank filtering there are ceil(len(text)/w) of
// them.
func (c *Chunker) Split(doc docmodel.Document) []docmodel.DocChunk {
	var chunks []docmodel.DocChunk

	index := 0
	for start := 0; start < len(doc.Text); start += c.windowSize {
		end := start + c.windowSize
		if end > len(doc.Text) {
			end = len(doc.Text)
		}
		window := doc.Text[start:end]
		if strings.TrimSpace(window) == "" {
			continue
		}

		chunks = append(chunks, docmodel.DocChunk{
			DocId:    doc.Id,
			DocTitle: doc.Title,
			Index:    index,
			Text:     window,
		})
		index++
	}

	return chunks
}
