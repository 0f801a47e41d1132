package agent

import "strings"

// Intent is the closed set of generation strategies. Anything the
// classifier produces is normalized into one of these two before the
// branch point is evaluated.
type Intent int

const (
	IntentQA Intent = iota
	IntentSummary
)

func (i Intent) String() string {
	switch i {
	case IntentSummary:
		return "summary"
	default:
		return "qa"
	}
}

// ResolveIntent maps a raw classifier category onto the enum. A
// category containing "summary" in any casing resolves to summary;
// everything else - including the empty string - resolves to qa.
func ResolveIntent(category string) Intent {
	if strings.Contains(strings.ToLower(category), "summary") {
		return IntentSummary
	}
	return IntentQA
}
