package chain

import "time"

// State is a node of the orchestration state machine.
type State int

const (
	// StateStart classifies the query.
	StateStart State = iota
	// StateReasoning asks the reasoner for the next step.
	StateReasoning
	// StateCustomPromptReasoning asks the reasoner with the corrective route prompt.
	StateCustomPromptReasoning
	// StateParsing turns the reasoning text into a descriptor and executes it.
	StateParsing
	// StateImageAnalysisDone records an analysis answer.
	StateImageAnalysisDone
	// StateAPICallExecuted decides what follows an executed call.
	StateAPICallExecuted
	// StateExhausted handles an exhausted step budget.
	StateExhausted
	// StateDone is the terminal state for answered queries.
	StateDone
	// StateTerminated is the terminal state for failed runs.
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateReasoning:
		return "reasoning"
	case StateCustomPromptReasoning:
		return "custom_prompt_reasoning"
	case StateParsing:
		return "parsing"
	case StateImageAnalysisDone:
		return "image_analysis_done"
	case StateAPICallExecuted:
		return "api_call_executed"
	case StateExhausted:
		return "exhausted"
	case StateDone:
		return "done"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateTerminated
}

// Event describes one state transition.
type Event struct {
	RunID string    `json:"run_id"`
	From  State     `json:"from"`
	To    State     `json:"to"`
	Step  int       `json:"step"`
	At    time.Time `json:"at"`

	// Detail is a short human-readable note, such as the executed call.
	Detail string `json:"detail,omitempty"`
}

// EventHandler observes transitions. It is called synchronously from Run.
type EventHandler func(Event)

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
