package plan

import (
	"strings"
)

// markerFunc reports whether line opens an analysis section and returns any
// analysis text that follows the marker on the same line.
type markerFunc func(line string) (inline string, ok bool)

// isResponseAnalysisMarker matches "Analysis: ..." lines and "## ... Analysis"
// headings.
func isResponseAnalysisMarker(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, prefixAnalysis) {
		return strings.TrimSpace(strings.TrimPrefix(trimmed, prefixAnalysis)), true
	}
	if strings.Contains(line, "##") && strings.Contains(line, "Analysis") {
		return "", true
	}
	return "", false
}

// isSectionMarker matches any line containing "Analysis:" and
// "### ... Analysis" headings.
func isSectionMarker(line string) (string, bool) {
	if i := strings.Index(line, prefixAnalysis); i >= 0 {
		return strings.TrimSpace(line[i+len(prefixAnalysis):]), true
	}
	if strings.Contains(line, "###") && strings.Contains(line, "Analysis") {
		return "", true
	}
	return "", false
}

// isHeadingMarker is isSectionMarker with "##" headings.
func isHeadingMarker(line string) (string, bool) {
	if i := strings.Index(line, prefixAnalysis); i >= 0 {
		return strings.TrimSpace(line[i+len(prefixAnalysis):]), true
	}
	if strings.Contains(line, "##") && strings.Contains(line, "Analysis") {
		return "", true
	}
	return "", false
}

// collectAfter gathers everything following the first marker line. Later
// marker lines are dropped but do not restart collection.
func collectAfter(lines []string, marker markerFunc) (string, bool) {
	var out []string
	active := false
	for _, line := range lines {
		if inline, ok := marker(line); ok {
			active = true
			if inline != "" {
				out = append(out, inline)
			}
			continue
		}
		if active {
			out = append(out, line)
		}
	}
	body := strings.TrimSpace(strings.Join(out, "\n"))
	return body, body != ""
}

// ExtractAnalysis pulls the descriptive part out of a response: a dedicated
// analysis section, else whatever follows the Parameter to Save line, else
// the Next Action text, else the whole response.
func ExtractAnalysis(text string) string {
	lines := splitLines(text)

	if body, ok := collectAfter(lines, isHeadingMarker); ok {
		return body
	}

	for i, line := range lines {
		if strings.HasPrefix(line, prefixSave) {
			if rest := strings.TrimSpace(strings.Join(lines[i+1:], "\n")); rest != "" {
				return rest
			}
			break
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(line, prefixNext) {
			if next := strings.TrimSpace(strings.TrimPrefix(line, prefixNext)); next != "" {
				return next
			}
		}
	}

	return strings.TrimSpace(text)
}
