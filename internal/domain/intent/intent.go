// Package intent classifies user messages into the closed action set the
// orchestrator routes on.
package intent

// Intent is the closed-set classification of what a user message requests.
type Intent string

const (
	IntentQuery      Intent = "query"
	IntentCreate     Intent = "create"
	IntentUpdate     Intent = "update"
	IntentAnalyze    Intent = "analyze"
	IntentPredict    Intent = "predict"
	IntentSmalltalk  Intent = "smalltalk"
	IntentOutOfScope Intent = "out_of_scope"
)

// ConfidenceThreshold is the minimum classification confidence required to
// act. Below it the orchestrator asks for clarification instead of guessing.
const ConfidenceThreshold = 0.7

var known = map[Intent]struct{}{
	IntentQuery:      {},
	IntentCreate:     {},
	IntentUpdate:     {},
	IntentAnalyze:    {},
	IntentPredict:    {},
	IntentSmalltalk:  {},
	IntentOutOfScope: {},
}

// Valid reports whether the intent belongs to the closed set.
func (i Intent) Valid() bool {
	_, ok := known[i]
	return ok
}

// Actionable reports whether the intent dispatches to a sub-agent. Smalltalk
// and out-of-scope turns are answered by the orchestrator directly and never
// reach a tool.
func (i Intent) Actionable() bool {
	switch i {
	case IntentQuery, IntentCreate, IntentUpdate, IntentAnalyze, IntentPredict:
		return true
	default:
		return false
	}
}

// Classification is the result of classifying one user message.
type Classification struct {
	Intent     Intent            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities,omitempty"`
	Language   string            `json:"language,omitempty"`
}

// NeedsClarification reports whether the confidence is too low to act on.
func (c *Classification) NeedsClarification() bool {
	return c.Confidence < ConfidenceThreshold
}
