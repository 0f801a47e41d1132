package agent

import "fmt"

// State is the accumulator threaded through the workflow graph. Nodes
// never mutate it; they return an Update and the engine merges it.
// Every field is written by exactly one node and the merge rejects a
// second write, so an earlier node's output can't be clobbered.
type State struct {
	Question   string
	DocumentId string
	Context    string
	Sources    []string
	Intent     Intent
	Answer     string

	contextSet bool
	sourcesSet bool
	intentSet  bool
	answerSet  bool
}

// Update is a node's partial output. Nil pointers mean "field not
// written by this node".
type Update struct {
	Context *string
	Sources []string
	Intent  *Intent
	Answer  *string
}

func NewState(question string, documentId string) State {
	return State{Question: question, DocumentId: documentId}
}

// NewResolvedState pre-computes the intent, skipping classification at
// the Route step. Used by the summarize entrypoint where the caller
// already declared what they want.
func NewResolvedState(question string, documentId string, intent Intent) State {
	return State{
		Question:   question,
		DocumentId: documentId,
		Intent:     intent,
		intentSet:  true,
	}
}

func (s State) IntentResolved() bool {
	return s.intentSet
}

func (s State) merge(u Update) (State, error) {
	if u.Context != nil {
		if s.contextSet {
			return s, fmt.Errorf("state field %q written twice", "context")
		}
		s.Context = *u.Context
		s.contextSet = true
	}
	if u.Sources != nil {
		if s.sourcesSet {
			return s, fmt.Errorf("state field %q written twice", "sources")
		}
		s.Sources = u.Sources
		s.sourcesSet = true
	}
	if u.Intent != nil {
		if s.intentSet {
			return s, fmt.Errorf("state field %q written twice", "intent")
		}
		s.Intent = *u.Intent
		s.intentSet = true
	}
	if u.Answer != nil {
		if s.answerSet {
			return s, fmt.Errorf("state field %q written twice", "answer")
		}
		s.Answer = *u.Answer
		s.answerSet = true
	}
	return s, nil
}
