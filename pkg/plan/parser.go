// Package plan turns free-text reasoning responses into action descriptors
// and decides which action should run next when a response is stale.
//
// Responses loosely follow this shape:
//
//	Action Chain: get_current_location -> get_nearby_places
//	Next Action: get_nearby_places(location="37.77,-122.41", type="cafe")
//	Parameter to Save: destination
//
// Nothing enforces it, so Parse applies a series of fallbacks: analysis
// sections, tagged lines, a Parameters block, call syntax, and finally
// per-function regular expressions.
package plan

import (
	"regexp"
	"strings"

	"github.com/teslashibe/go-wayfinder/pkg/action"
)

// Response line prefixes.
const (
	prefixChain      = "Action Chain:"
	prefixNext       = "Next Action:"
	prefixSave       = "Parameter to Save:"
	prefixParameters = "Parameters:"
	prefixAnalysis   = "Analysis:"
)

// Place types recognized in free text, in priority order.
var placeTypes = []string{"restaurant", "gas_station", "hospital", "park", "store", "pharmacy", "cafe", "bank", "lodging"}

var (
	callPattern      = regexp.MustCompile(`(\w+)\s*\((.*)\)`)
	identPattern     = regexp.MustCompile(`\w+`)
	paramLinePattern = regexp.MustCompile(`^-\s*(\w+):\s*['"]?([^'"]+)['"]?`)
	tuplePattern     = regexp.MustCompile(`^\s*\(?\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\)?\s*(?:,|$)`)
	coordsPattern    = regexp.MustCompile(`[\d.\-]+\s*,\s*[\d.\-]+`)

	singleQuoted = regexp.MustCompile(`'([^']+)'`)
	doubleQuoted = regexp.MustCompile(`"([^"]+)"`)
	anyQuoted    = regexp.MustCompile(`['"]([^'"]+)['"]`)
	quotedToken  = regexp.MustCompile(`['"]([\w.\-,]+)['"]`)
	quotedWord   = regexp.MustCompile(`['"](\w+)['"]`)

	locationQuoted = regexp.MustCompile(`(?i)location\s*[=:]\s*['"]([^'"]+)['"]`)
	locationBare   = regexp.MustCompile(`(?i)location\s*[=:]\s*([\w.\-,]+)`)
	typeValue      = regexp.MustCompile(`(?i)type\s*[=:]\s*['"]?([\w.\-,]+)['"]?`)
	radiusValue    = regexp.MustCompile(`(?i)radius\s*[=:]\s*(\d+)`)

	originQuoted    = regexp.MustCompile(`(?i)origin\s*[=:]\s*['"]([^'"]+)['"]`)
	originBare      = regexp.MustCompile(`(?i)origin\s*[=:]\s*([\d.\-,]+)`)
	destQuoted      = regexp.MustCompile(`(?i)destination\s*[=:]\s*['"]([^'"]+)['"]`)
	destBare        = regexp.MustCompile(`(?i)destination\s*[=:]\s*([^'"]+)`)
	destAfterCoords = regexp.MustCompile(`[\d.\-]+,[\d.\-]+[^'"]*['"]([^'"]+)['"]`)
	modeValue       = regexp.MustCompile(`(?i)mode\s*[=:]\s*['"]?([\w.\-,]+)['"]?`)
	trailingMode    = regexp.MustCompile(`(?i),?\s*mode\s*[=:].*$`)
	coordsOnly      = regexp.MustCompile(`^\s*-?\d+(?:\.\d+)?\s*,\s*-?\d+(?:\.\d+)?\s*$`)
)

// sections holds the tagged lines of one response.
type sections struct {
	chain      string
	next       string
	save       string
	paramLines []string
}

func splitLines(text string) []string {
	return strings.Split(strings.TrimSpace(text), "\n")
}

func scanSections(lines []string) sections {
	var s sections
	inParams := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
		case strings.HasPrefix(line, prefixChain):
			s.chain = strings.TrimSpace(strings.TrimPrefix(line, prefixChain))
		case strings.HasPrefix(line, prefixNext):
			s.next = strings.TrimSpace(strings.TrimPrefix(line, prefixNext))
		case strings.HasPrefix(line, prefixSave):
			s.save = strings.TrimSpace(strings.TrimPrefix(line, prefixSave))
		case strings.HasPrefix(line, prefixParameters):
			inParams = true
		case inParams && strings.HasPrefix(line, "-"):
			s.paramLines = append(s.paramLines, line)
		}
	}
	return s
}

// Parse converts a reasoning response into a descriptor. It returns an error
// wrapping ErrParseFailure when the Next Action names nothing callable.
// Parse is pure: the same text always yields the same descriptor.
func Parse(text string) (action.Descriptor, error) {
	lines := splitLines(text)
	lower := strings.ToLower(text)

	// Whole response is an analysis.
	if strings.Contains(lower, "image analysis is needed") || strings.Contains(lower, "analysis:") {
		if body, ok := collectAfter(lines, isResponseAnalysisMarker); ok {
			logger().Debug("whole-response analysis", "chars", len(body))
			return action.NewAnalysis(body, action.ChainImageAnalysis, action.SaveNone), nil
		}
	}

	s := scanSections(lines)
	save := normalizeSave(s.save)

	// The declared chain or the next action asks for analysis.
	if strings.Contains(strings.ToLower(s.chain), "image analysis") {
		analysis := s.next
		if strings.Contains(text, prefixAnalysis) || strings.Contains(text, "###") {
			if body, ok := collectAfter(lines, isSectionMarker); ok {
				analysis = body
			}
		}
		return action.NewAnalysis(analysis, s.chain, save), nil
	}
	if mentionsAnalysis(s.next) {
		return action.NewAnalysis(ExtractAnalysis(text), s.chain, save), nil
	}

	name, args, ok := extractCall(s)
	if !ok {
		return action.Descriptor{}, &ParseError{NextAction: s.next}
	}

	fn := action.FunctionID(name)
	params := parseParamLines(s.paramLines)
	if len(params) == 0 {
		switch fn {
		case action.GetNearbyPlaces:
			params = nearbyParams(args)
		case action.GetRouteToDestination:
			params = routeParams(args)
		}
	}

	logger().Debug("parsed call", "function", name, "params", params, "save", save)
	return action.NewCall(fn, params, s.chain, save), nil
}

func mentionsAnalysis(next string) bool {
	l := strings.ToLower(next)
	for _, kw := range []string{"analyz", "describ", "explain", "image analysis"} {
		if strings.Contains(l, kw) {
			return true
		}
	}
	return false
}

// extractCall finds the function name and raw argument text of the next
// action: call syntax first, then the Parameters block, then a bare word.
func extractCall(s sections) (name, args string, ok bool) {
	if m := callPattern.FindStringSubmatch(s.next); m != nil {
		return m[1], m[2], true
	}
	if len(s.paramLines) > 0 && s.next != "" {
		return s.next, strings.Join(s.paramLines, "\n"), true
	}
	if m := identPattern.FindString(s.next); m != "" {
		return m, "", true
	}
	return "", "", false
}

func parseParamLines(lines []string) map[string]string {
	params := make(map[string]string)
	for _, l := range lines {
		if m := paramLinePattern.FindStringSubmatch(l); m != nil {
			params[m[1]] = strings.TrimSpace(m[2])
		}
	}
	return params
}

func nearbyParams(args string) map[string]string {
	params := make(map[string]string)

	if m := tuplePattern.FindStringSubmatch(args); m != nil {
		// Positional form: (lat, lng, 'type')
		params[action.ParamLocation] = m[1] + "," + m[2]
		if t := singleQuoted.FindStringSubmatch(args); t != nil {
			params[action.ParamType] = t[1]
		} else if t := doubleQuoted.FindStringSubmatch(args); t != nil {
			params[action.ParamType] = t[1]
		}
	} else {
		switch {
		case locationQuoted.MatchString(args):
			params[action.ParamLocation] = strings.TrimSpace(locationQuoted.FindStringSubmatch(args)[1])
		case locationBare.MatchString(args):
			params[action.ParamLocation] = strings.TrimRight(locationBare.FindStringSubmatch(args)[1], ",")
		case quotedToken.MatchString(args):
			params[action.ParamLocation] = quotedToken.FindStringSubmatch(args)[1]
		case coordsPattern.MatchString(args):
			params[action.ParamLocation] = compact(coordsPattern.FindString(args))
		}

		if m := typeValue.FindStringSubmatch(args); m != nil {
			params[action.ParamType] = m[1]
		} else if m := quotedWord.FindStringSubmatch(args); m != nil {
			params[action.ParamType] = m[1]
		}

		if m := radiusValue.FindStringSubmatch(args); m != nil {
			params[action.ParamRadius] = m[1]
		}
	}

	// No default type here: an empty type lets the caller use the place
	// type detected from the query.
	if params[action.ParamType] == "" {
		if pt := scanPlaceType(args); pt != "" {
			params[action.ParamType] = pt
		}
	}
	return params
}

// scanPlaceType returns the first known place type mentioned in text.
func scanPlaceType(text string) string {
	lower := strings.ToLower(text)
	for _, pt := range placeTypes {
		if strings.Contains(lower, pt) {
			return pt
		}
	}
	return ""
}

func routeParams(args string) map[string]string {
	params := make(map[string]string)

	switch {
	case originQuoted.MatchString(args):
		params[action.ParamOrigin] = strings.TrimSpace(originQuoted.FindStringSubmatch(args)[1])
	case originBare.MatchString(args):
		params[action.ParamOrigin] = strings.TrimRight(originBare.FindStringSubmatch(args)[1], ",")
	case coordsPattern.MatchString(args):
		params[action.ParamOrigin] = compact(coordsPattern.FindString(args))
	}

	if m := destQuoted.FindStringSubmatch(args); m != nil {
		params[action.ParamDestination] = strings.TrimSpace(m[1])
	} else if m := destBare.FindStringSubmatch(args); m != nil {
		params[action.ParamDestination] = strings.TrimSpace(trailingMode.ReplaceAllString(m[1], ""))
	} else {
		for _, m := range anyQuoted.FindAllStringSubmatch(args, -1) {
			if !coordsOnly.MatchString(m[1]) {
				params[action.ParamDestination] = strings.TrimSpace(m[1])
				break
			}
		}
	}
	if params[action.ParamDestination] == "" {
		delete(params, action.ParamDestination)
		if m := destAfterCoords.FindStringSubmatch(args); m != nil {
			params[action.ParamDestination] = strings.TrimSpace(m[1])
		}
	}

	if m := modeValue.FindStringSubmatch(args); m != nil {
		params[action.ParamMode] = m[1]
	}
	return params
}

// normalizeSave drops call syntax that leaked into Parameter to Save.
func normalizeSave(save string) string {
	if i := strings.Index(save, "("); i >= 0 {
		save = save[:i]
	}
	return strings.TrimSpace(save)
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
