package chunker

import (
	"strings"
	"testing"

	"github.com/anveshk/workflowgen/internal/domain/docmodel"
)

func doc(text string) docmodel.Document {
	return docmodel.Document{Id: "doc-1", Title: "test doc", Text: text}
}

func TestSplit_WindowCounts(t *testing.T) {
	tests := []struct {
		name       string
		textLen    int
		windowSize int
		wantCount  int
		wantLens   []int
	}{
		{"exact multiple", 2000, 1000, 2, []int{1000, 1000}},
		{"remainder window", 2500, 1000, 3, []int{1000, 1000, 500}},
		{"single short window", 10, 1000, 1, []int{10}},
		{"window of one", 3, 1, 3, []int{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Repeat("a", tt.textLen)
			chunks := New(tt.windowSize).Split(doc(text))

			if len(chunks) != tt.wantCount {
				t.Fatalf("chunk count got %d, want %d", len(chunks), tt.wantCount)
			}
			for i, c := range chunks {
				if len(c.Text) != tt.wantLens[i] {
					t.Errorf("chunk %d length got %d, want %d", i, len(c.Text), tt.wantLens[i])
				}
			}
		})
	}
}

func TestSplit_DropsBlankWindowsAndRenumbers(t *testing.T) {
	// windows of 4: "abcd", "    " (dropped), "efgh"
	text := "abcd" + "    " + "efgh"
	chunks := New(4).Split(doc(text))

	if len(chunks) != 2 {
		t.Fatalf("expected 2 surviving chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d, want contiguous from 0", i, c.Index)
		}
	}
	if chunks[0].Text != "abcd" || chunks[1].Text != "efgh" {
		t.Errorf("chunk order not preserved: %q, %q", chunks[0].Text, chunks[1].Text)
	}
}

func TestSplit_ConcatenationReconstructsText(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog. " + strings.Repeat("x", 500)
	chunks := New(64).Split(doc(text))

	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text)
	}
	if sb.String() != text {
		t.Error("concatenated chunks do not reproduce the source text")
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("some document text ", 300)
	first := New(100).Split(doc(text))
	second := New(100).Split(doc(text))

	if len(first) != len(second) {
		t.Fatalf("runs disagree on chunk count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Text != second[i].Text || first[i].Index != second[i].Index {
			t.Fatalf("chunk %d differs between identical runs", i)
		}
	}
}

func TestSplit_EmptyAndBlankText(t *testing.T) {
	if got := New(1000).Split(doc("")); len(got) != 0 {
		t.Errorf("empty text should produce no chunks, got %d", len(got))
	}
	if got := New(1000).Split(doc("   \n\t  ")); len(got) != 0 {
		t.Errorf("blank text should produce no chunks, got %d", len(got))
	}
}

func TestSplit_CarriesDocumentMetadata(t *testing.T) {
	chunks := New(5).Split(doc("hello world"))
	for _, c := range chunks {
		if c.DocId != "doc-1" || c.DocTitle != "test doc" {
			t.Errorf("chunk missing owner metadata: %+v", c)
		}
	}
}
