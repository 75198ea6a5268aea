package chain

import (
	"time"

	"github.com/teslashibe/go-wayfinder/pkg/action"
)

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeCompleted       Outcome = "completed"
	OutcomeImageAnalysis   Outcome = "image_analysis"
	OutcomeParseFailure    Outcome = "parse_failure"
	OutcomeStepLimit       Outcome = "step_limit"
	OutcomeRescued         Outcome = "rescued"
	OutcomeReasoningFailed Outcome = "reasoning_failed"
	OutcomeCancelled       Outcome = "cancelled"
)

// Failed reports whether the outcome is an error outcome.
func (o Outcome) Failed() bool {
	switch o {
	case OutcomeParseFailure, OutcomeStepLimit, OutcomeReasoningFailed, OutcomeCancelled:
		return true
	}
	return false
}

// HistoryEntry records one executed descriptor.
type HistoryEntry struct {
	Step       int               `json:"step"`
	Descriptor action.Descriptor `json:"descriptor"`
	Output     string            `json:"output"`
}

// Result is the outcome of one query.
type Result struct {
	ID          string            `json:"id"`
	Query       string            `json:"query"`
	FinalResult string            `json:"final_result"`
	Outcome     Outcome           `json:"outcome"`
	History     []HistoryEntry    `json:"history"`
	Params      map[string]string `json:"params"`
	Steps       int               `json:"steps"`
	Duration    time.Duration     `json:"duration"`

	// Err is set for failed outcomes.
	Err error `json:"-"`
}

// Error returns the failure message, or "".
func (r *Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}
