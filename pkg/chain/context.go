package chain

import (
	"maps"

	"github.com/teslashibe/go-wayfinder/pkg/action"
	"github.com/teslashibe/go-wayfinder/pkg/plan"
)

// ExecutionContext is the mutable state of one run.
type ExecutionContext struct {
	Executed action.FunctionSet
	Params   map[string]string
	Step     int
	MaxSteps int
}

func newExecutionContext(maxSteps int) *ExecutionContext {
	return &ExecutionContext{
		Executed: make(action.FunctionSet),
		Params:   make(map[string]string),
		MaxSteps: maxSteps,
	}
}

// Exhausted reports whether no step is left.
func (c *ExecutionContext) Exhausted() bool {
	return c.Step >= c.MaxSteps
}

// Has reports whether a non-empty value is stored under key.
func (c *ExecutionContext) Has(key string) bool {
	return c.Params[key] != ""
}

// ReadyForRoute reports whether both route endpoints are known.
func (c *ExecutionContext) ReadyForRoute() bool {
	return c.Has(plan.KeyCoordinates) && c.Has(plan.KeyDestination)
}

// store records a call's output under the key its function produces.
func (c *ExecutionContext) store(fn action.FunctionID, output string) {
	switch fn {
	case action.GetCurrentLocation:
		c.Params[plan.KeyCoordinates] = output
	case action.GetNearbyPlaces:
		c.Params[plan.KeyDestination] = output
	}
}

func (c *ExecutionContext) snapshot() map[string]string {
	return maps.Clone(c.Params)
}
