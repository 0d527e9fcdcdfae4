package chat

import "fmt"

// TurnState tracks a turn through the orchestrator pipeline. Terminal states
// are StateReturned and StateFailed.
type TurnState string

const (
	StateReceived     TurnState = "received"
	StateClassified   TurnState = "classified"
	StateClarifying   TurnState = "clarifying"
	StateDispatched   TurnState = "dispatched"
	StateToolExecuted TurnState = "tool-executed"
	StateFormatted    TurnState = "formatted"
	StatePersisted    TurnState = "persisted"
	StateReturned     TurnState = "returned"
	StateFailed       TurnState = "failed"
)

var turnTransitions = map[TurnState][]TurnState{
	StateReceived:     {StateClassified, StateClarifying, StateFailed},
	StateClassified:   {StateClarifying, StateDispatched, StateFormatted, StateFailed},
	StateClarifying:   {StateFormatted, StateFailed},
	StateDispatched:   {StateToolExecuted, StateFormatted, StateFailed},
	StateToolExecuted: {StateToolExecuted, StateFormatted, StateFailed},
	StateFormatted:    {StatePersisted, StateFailed},
	StatePersisted:    {StateReturned, StateFailed},
}

// advance moves the turn to next, panicking on an illegal transition. The
// transition table is the pipeline's own invariant; violating it is a
// programming error, not a runtime condition.
func (t *turn) advance(next TurnState) {
	for _, allowed := range turnTransitions[t.state] {
		if allowed == next {
			t.state = next
			return
		}
	}
	panic(fmt.Sprintf("illegal turn transition %s -> %s", t.state, next))
}
