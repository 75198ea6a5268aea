// Package navigation provides location, nearby-place and routing lookups.
//
// The Google provider wraps the Maps Geolocation, Places and Directions
// APIs. Narrator walks a computed route step by step through a speaker,
// pausing for each step's travel time.
//
// Example usage:
//
//	nav, _ := navigation.NewGoogle(
//	    navigation.WithAPIKey(os.Getenv("GOOGLE_MAPS_API_KEY")),
//	)
//
//	here, _ := nav.CurrentLocation(ctx)
//	places, _ := nav.NearbyPlaces(ctx, navigation.NearbyRequest{
//	    Location: here,
//	    Type:     "cafe",
//	    Radius:   5000,
//	})
package navigation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Provider is the navigation backend interface.
type Provider interface {
	// CurrentLocation returns the device's approximate position.
	CurrentLocation(ctx context.Context) (LatLng, error)

	// NearbyPlaces searches for places of a type around a point.
	NearbyPlaces(ctx context.Context, req NearbyRequest) ([]Place, error)

	// Route computes directions between two locations.
	Route(ctx context.Context, req RouteRequest) (*Route, error)
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DefaultLocation is used when no position can be determined.
var DefaultLocation = LatLng{Lat: 37.7749, Lng: -122.4194}

// String renders the coordinate as "lat,lng".
func (l LatLng) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

// ParseLatLng parses "lat,lng".
func ParseLatLng(s string) (LatLng, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return LatLng{}, fmt.Errorf("navigation: invalid coordinate %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("navigation: invalid latitude %q: %w", parts[0], err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return LatLng{}, fmt.Errorf("navigation: invalid longitude %q: %w", parts[1], err)
	}
	return LatLng{Lat: lat, Lng: lng}, nil
}

var coordPairPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?\s*,\s*-?\d+(?:\.\d+)?`)

// FindCoordinates returns the first "lat,lng" pair embedded in s, with
// whitespace removed.
func FindCoordinates(s string) (string, bool) {
	m := coordPairPattern.FindString(s)
	if m == "" {
		return "", false
	}
	return strings.Join(strings.Fields(m), ""), true
}

// Place is a nearby search result.
type Place struct {
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
}

// NearbyRequest describes a nearby search.
type NearbyRequest struct {
	Location LatLng
	Type     string
	Radius   uint
}

// Travel modes.
const (
	ModeWalking   = "walking"
	ModeDriving   = "driving"
	ModeBicycling = "bicycling"
	ModeTransit   = "transit"
)

// ValidMode reports whether m is a supported travel mode.
func ValidMode(m string) bool {
	switch m {
	case ModeWalking, ModeDriving, ModeBicycling, ModeTransit:
		return true
	}
	return false
}

// RouteRequest describes a directions lookup.
type RouteRequest struct {
	Origin      string
	Destination string
	Mode        string
}

// Route is the first leg of a directions result.
type Route struct {
	Summary  string        `json:"summary"`
	Distance string        `json:"distance"`
	Duration time.Duration `json:"duration"`
	Steps    []RouteStep   `json:"steps"`
}

// RouteStep is a single spoken instruction.
type RouteStep struct {
	// Instruction is plain text, already stripped of markup.
	Instruction string        `json:"instruction"`
	Distance    string        `json:"distance"`
	Duration    time.Duration `json:"duration"`
}
