// Package action defines the closed vocabulary of navigation actions the
// orchestrator can run and the descriptors that carry a parsed plan step.
//
// A Descriptor is either an image analysis (the reasoning engine answered
// directly) or an API call naming one of the three known functions:
//
//	d := action.NewCall(action.GetNearbyPlaces, map[string]string{
//	    action.ParamLocation: "37.7749,-122.4194",
//	    action.ParamType:     "cafe",
//	}, "get_current_location -> get_nearby_places", "destination")
package action

import (
	"fmt"
	"sort"
	"strings"
)

// FunctionID names an executable action.
type FunctionID string

// Known functions.
const (
	GetCurrentLocation    FunctionID = "get_current_location"
	GetNearbyPlaces       FunctionID = "get_nearby_places"
	GetRouteToDestination FunctionID = "get_route_to_destination"
)

// Parameter names accepted by the known functions.
const (
	ParamLocation    = "location"
	ParamType        = "type"
	ParamRadius      = "radius"
	ParamOrigin      = "origin"
	ParamDestination = "destination"
	ParamMode        = "mode"
)

var functionParams = map[FunctionID][]string{
	GetCurrentLocation:    nil,
	GetNearbyPlaces:       {ParamLocation, ParamType, ParamRadius},
	GetRouteToDestination: {ParamOrigin, ParamDestination, ParamMode},
}

// Functions returns the known functions in chain order.
func Functions() []FunctionID {
	return []FunctionID{GetCurrentLocation, GetNearbyPlaces, GetRouteToDestination}
}

// ParseFunction trims s and reports whether it names a known function.
func ParseFunction(s string) (FunctionID, bool) {
	f := FunctionID(strings.TrimSpace(s))
	return f, f.Known()
}

// Known reports whether f is one of the three executable functions.
func (f FunctionID) Known() bool {
	_, ok := functionParams[f]
	return ok
}

// Params returns the parameter names f accepts.
func (f FunctionID) Params() []string {
	return functionParams[f]
}

// Accepts reports whether f takes a parameter called name.
func (f FunctionID) Accepts(name string) bool {
	for _, p := range functionParams[f] {
		if p == name {
			return true
		}
	}
	return false
}

func (f FunctionID) String() string {
	return string(f)
}

// Kind discriminates the Descriptor variants.
type Kind int

const (
	KindImageAnalysis Kind = iota + 1
	KindAPICall
)

func (k Kind) String() string {
	switch k {
	case KindImageAnalysis:
		return "image_analysis"
	case KindAPICall:
		return "api_call"
	default:
		return "unknown"
	}
}

// ChainImageAnalysis is the chain label used when the whole response is an analysis.
const ChainImageAnalysis = "image_analysis"

// SaveNone is the "nothing to save" marker for ParameterToSave.
const SaveNone = "none"

// Descriptor is one parsed step of a plan.
type Descriptor struct {
	Kind Kind `json:"kind"`

	// Analysis is set for KindImageAnalysis.
	Analysis string `json:"analysis,omitempty"`

	// Function and Parameters are set for KindAPICall.
	Function   FunctionID        `json:"function,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`

	// Chain is the declared action chain, verbatim.
	Chain string `json:"chain"`

	// ParameterToSave names the output to keep for the next step.
	ParameterToSave string `json:"parameter_to_save"`
}

// NewAnalysis creates an image analysis descriptor.
func NewAnalysis(analysis, chain, save string) Descriptor {
	return Descriptor{
		Kind:            KindImageAnalysis,
		Analysis:        analysis,
		Chain:           chain,
		ParameterToSave: save,
	}
}

// NewCall creates an API call descriptor. Parameters the function does not
// accept are dropped.
func NewCall(fn FunctionID, params map[string]string, chain, save string) Descriptor {
	filtered := make(map[string]string, len(params))
	for k, v := range params {
		if fn.Accepts(k) {
			filtered[k] = v
		}
	}
	return Descriptor{
		Kind:            KindAPICall,
		Function:        fn,
		Parameters:      filtered,
		Chain:           chain,
		ParameterToSave: save,
	}
}

// IsAnalysis reports whether d is an image analysis.
func (d Descriptor) IsAnalysis() bool {
	return d.Kind == KindImageAnalysis
}

// Param returns the named parameter, or "".
func (d Descriptor) Param(name string) string {
	if d.Parameters == nil {
		return ""
	}
	return d.Parameters[name]
}

// SavesNothing reports whether ParameterToSave is empty or "none".
func (d Descriptor) SavesNothing() bool {
	s := strings.TrimSpace(d.ParameterToSave)
	return s == "" || strings.EqualFold(s, SaveNone)
}

// String renders d as a call expression for logs and history views.
func (d Descriptor) String() string {
	if d.IsAnalysis() {
		return "image_analysis"
	}
	keys := make([]string, 0, len(d.Parameters))
	for k := range d.Parameters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, len(keys))
	for i, k := range keys {
		args[i] = fmt.Sprintf("%s=%q", k, d.Parameters[k])
	}
	return fmt.Sprintf("%s(%s)", d.Function, strings.Join(args, ", "))
}

// FunctionSet is the set of functions already executed in a run.
type FunctionSet map[FunctionID]struct{}

// Add marks f as executed.
func (s FunctionSet) Add(f FunctionID) {
	s[f] = struct{}{}
}

// Has reports whether f was executed.
func (s FunctionSet) Has(f FunctionID) bool {
	_, ok := s[f]
	return ok
}

// Len returns the number of executed functions.
func (s FunctionSet) Len() int {
	return len(s)
}

// Sorted returns the members in lexical order.
func (s FunctionSet) Sorted() []FunctionID {
	out := make([]FunctionID, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
