package chain

import "errors"

var (
	// ErrStepLimit is recorded when the step budget runs out.
	ErrStepLimit = errors.New("chain: step limit exceeded")

	// ErrReasoning wraps reasoner failures.
	ErrReasoning = errors.New("chain: reasoning failed")
)
