package agent

import (
	"strings"
	"testing"
)

func TestMerge_WriteOnce(t *testing.T) {
	ctxVal := "retrieved text"
	intent := IntentQA
	answer := "done"

	s := NewState("q", "")

	s, err := s.merge(Update{Context: &ctxVal, Sources: []string{"doc#chunk-0"}})
	if err != nil {
		t.Fatalf("first merge: %v", err)
	}
	s, err = s.merge(Update{Intent: &intent})
	if err != nil {
		t.Fatalf("intent merge: %v", err)
	}
	s, err = s.merge(Update{Answer: &answer})
	if err != nil {
		t.Fatalf("answer merge: %v", err)
	}

	if s.Context != ctxVal || s.Answer != answer || s.Intent != IntentQA {
		t.Errorf("merged state lost fields: %+v", s)
	}
	if len(s.Sources) != 1 {
		t.Errorf("sources got %v", s.Sources)
	}
}

func TestMerge_RejectsSecondWrite(t *testing.T) {
	first := "one"
	second := "two"

	s := NewState("q", "")
	s, err := s.merge(Update{Context: &first})
	if err != nil {
		t.Fatalf("first write: %v", err)
	}

	if _, err := s.merge(Update{Context: &second}); err == nil {
		t.Fatal("second context write accepted")
	} else if !strings.Contains(err.Error(), "written twice") {
		t.Errorf("unexpected error text: %v", err)
	}

	intent := IntentSummary
	resolved := NewResolvedState("q", "doc", IntentSummary)
	if _, err := resolved.merge(Update{Intent: &intent}); err == nil {
		t.Fatal("pre-resolved intent overwritten")
	}
}

func TestMerge_EmptyUpdateIsNoop(t *testing.T) {
	s := NewState("q", "doc-9")
	merged, err := s.merge(Update{})
	if err != nil {
		t.Fatalf("empty merge: %v", err)
	}
	if merged.IntentResolved() || merged.Context != "" || merged.Answer != "" {
		t.Errorf("empty update changed state: %+v", merged)
	}
	if merged.Question != "q" || merged.DocumentId != "doc-9" {
		t.Errorf("inputs lost: %+v", merged)
	}
}

func TestResolveIntent(t *testing.T) {
	tests := []struct {
		category string
		want     Intent
	}{
		{"summary", IntentSummary},
		{"SUMMARY", IntentSummary},
		{"Auto-Summary", IntentSummary},
		{"qa", IntentQA},
		{"question_answering", IntentQA},
		{"", IntentQA},
		{"garbage category", IntentQA},
	}
	for _, tt := range tests {
		if got := ResolveIntent(tt.category); got != tt.want {
			t.Errorf("ResolveIntent(%q) = %v, want %v", tt.category, got, tt.want)
		}
	}
}
