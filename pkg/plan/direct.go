package plan

import (
	"regexp"

	"github.com/teslashibe/go-wayfinder/pkg/action"
)

var (
	directNextPattern = regexp.MustCompile(`Next Action:\s*(\w+)`)
	directTypePattern = regexp.MustCompile(`(?i)type:\s*['"]([^'"]+)['"]`)
)

// DirectExtract is the fallback for responses Parse rejects. It reads only
// the function name after "Next Action:" and fills parameters from known
// context values. It reports false when no known function is named.
func DirectExtract(text string, known map[string]string) (action.Descriptor, bool) {
	m := directNextPattern.FindStringSubmatch(text)
	if m == nil {
		return action.Descriptor{}, false
	}

	switch fn := action.FunctionID(m[1]); fn {
	case action.GetCurrentLocation:
		return action.NewCall(fn, nil, "", KeyCoordinates), true

	case action.GetNearbyPlaces:
		placeType := known[KeyPlaceType]
		if t := directTypePattern.FindStringSubmatch(text); t != nil {
			placeType = t[1]
		}
		if placeType == "" {
			placeType = action.DefaultPlaceType
		}
		return action.NewCall(fn, nonEmpty(map[string]string{
			action.ParamLocation: known[KeyCoordinates],
			action.ParamType:     placeType,
		}), "", KeyDestination), true

	case action.GetRouteToDestination:
		return action.NewCall(fn, nonEmpty(map[string]string{
			action.ParamOrigin:      known[KeyCoordinates],
			action.ParamDestination: known[KeyDestination],
		}), "", action.SaveNone), true
	}

	return action.Descriptor{}, false
}

// Synthesize builds a descriptor for fn from context alone. It is used when
// the resolver overrides a repeated suggestion.
func Synthesize(fn action.FunctionID, chain string, known map[string]string) action.Descriptor {
	switch fn {
	case action.GetNearbyPlaces:
		placeType := known[KeyPlaceType]
		if placeType == "" {
			placeType = action.DefaultPlaceType
		}
		return action.NewCall(fn, nonEmpty(map[string]string{
			action.ParamLocation: known[KeyCoordinates],
			action.ParamType:     placeType,
		}), chain, KeyDestination)
	case action.GetRouteToDestination:
		return action.NewCall(fn, nonEmpty(map[string]string{
			action.ParamOrigin:      known[KeyCoordinates],
			action.ParamDestination: known[KeyDestination],
		}), chain, action.SaveNone)
	default:
		return action.NewCall(fn, nil, chain, KeyCoordinates)
	}
}

func nonEmpty(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}
