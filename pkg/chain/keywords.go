package chain

import (
	"strings"

	"github.com/teslashibe/go-wayfinder/pkg/action"
)

var analysisKeywords = []string{
	"analyz", "describ", "explain", "tell me about", "what is", "what's in",
	"show me", "identify", "recognize", "interpret", "read", "tell me what",
	"scan", "look at", "examine", "surrounding",
}

// placeTypeKeywords is checked in order; the first match wins.
var placeTypeKeywords = []struct {
	words     []string
	placeType string
}{
	{[]string{"restaurant", "food", "eat", "dining"}, "restaurant"},
	{[]string{"gas", "fuel"}, "gas_station"},
	{[]string{"hospital", "doctor", "medical", "emergency"}, "hospital"},
	{[]string{"store", "shop", "mall"}, "store"},
	{[]string{"park", "playground", "garden"}, "park"},
	{[]string{"hotel", "motel", "place to stay", "lodging"}, "lodging"},
	{[]string{"coffee", "cafe"}, "cafe"},
	{[]string{"school", "college", "university"}, "school"},
	{[]string{"bank", "atm"}, "bank"},
	{[]string{"pharmacy", "drugstore"}, "pharmacy"},
}

// IsAnalysisQuery reports whether the query asks about the camera view
// rather than for navigation.
func IsAnalysisQuery(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range analysisKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// PlaceTypeFor maps words in the query to a place category, defaulting to
// restaurant. Matching is by substring.
func PlaceTypeFor(query string) string {
	q := strings.ToLower(query)
	for _, entry := range placeTypeKeywords {
		for _, w := range entry.words {
			if strings.Contains(q, w) {
				return entry.placeType
			}
		}
	}
	return action.DefaultPlaceType
}
