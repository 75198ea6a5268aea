package plan

import (
	"strings"

	"github.com/teslashibe/go-wayfinder/pkg/action"
)

// Context parameter keys written by the orchestrator.
const (
	KeyCoordinates = "coordinates"
	KeyDestination = "destination"
	KeyPlaceType   = "place_type"
	KeyQueryType   = "query_type"
)

// ChainSteps splits a declared chain into function names. The first
// delimiter present wins, in order "->", ",", newline; call syntax is cut
// from each step.
func ChainSteps(chain string) []string {
	var parts []string
	switch {
	case strings.Contains(chain, "->"):
		parts = strings.Split(chain, "->")
	case strings.Contains(chain, ","):
		parts = strings.Split(chain, ",")
	case strings.Contains(chain, "\n"):
		parts = strings.Split(chain, "\n")
	default:
		parts = []string{chain}
	}

	steps := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if i := strings.Index(p, "("); i >= 0 {
			p = strings.TrimSpace(p[:i])
		}
		if p != "" {
			steps = append(steps, p)
		}
	}
	return steps
}

// NextAction picks the function that should run next. The declared chain
// is consulted first; after that the dependency order location, nearby,
// route applies. It never returns an executed function, and returns false
// when nothing is left to do.
func NextAction(chain string, executed action.FunctionSet, params map[string]string) (action.FunctionID, bool) {
	for _, step := range ChainSteps(chain) {
		fn, known := action.ParseFunction(step)
		if known && !executed.Has(fn) {
			return fn, true
		}
	}

	_, hasCoords := params[KeyCoordinates]
	_, hasDest := params[KeyDestination]

	switch {
	case !executed.Has(action.GetCurrentLocation):
		return action.GetCurrentLocation, true
	case hasCoords && !executed.Has(action.GetNearbyPlaces):
		return action.GetNearbyPlaces, true
	case hasCoords && hasDest && !executed.Has(action.GetRouteToDestination):
		return action.GetRouteToDestination, true
	}
	return "", false
}
