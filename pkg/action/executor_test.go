package action

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/teslashibe/go-wayfinder/pkg/navigation"
)

func TestExecuteAnalysis(t *testing.T) {
	nav := navigation.NewMock()
	e := NewExecutor(nav)

	got := e.Execute(context.Background(), NewAnalysis("Two people at a crosswalk.", "", ""), nil)
	if got != "Two people at a crosswalk." {
		t.Errorf("Expected analysis text, got '%s'", got)
	}
	if len(nav.Calls()) != 0 {
		t.Error("Expected no navigation calls for analysis")
	}
}

func TestExecuteCurrentLocation(t *testing.T) {
	nav := navigation.NewMock()
	e := NewExecutor(nav)

	got := e.Execute(context.Background(), NewCall(GetCurrentLocation, nil, "", ""), nil)
	if got != "40.7128,-74.006" {
		t.Errorf("Expected '40.7128,-74.006', got '%s'", got)
	}
}

func TestExecuteCurrentLocationFallback(t *testing.T) {
	nav := navigation.NewMock()
	nav.CurrentLocationFunc = func(ctx context.Context) (navigation.LatLng, error) {
		return navigation.LatLng{}, errors.New("network down")
	}
	e := NewExecutor(nav)

	got := e.Execute(context.Background(), NewCall(GetCurrentLocation, nil, "", ""), nil)
	if got != "37.7749,-122.4194" {
		t.Errorf("Expected default location, got '%s'", got)
	}
}

func TestExecuteNearbyPlaces(t *testing.T) {
	nav := navigation.NewMock()
	e := NewExecutor(nav)

	got := e.Execute(context.Background(), NewCall(GetNearbyPlaces, map[string]string{
		"location": "40.7128,-74.006",
		"type":     "cafe",
	}, "", ""), nil)

	if got != "Mock Diner, 1 Main St" {
		t.Errorf("Expected 'Mock Diner, 1 Main St', got '%s'", got)
	}

	calls := nav.Calls()
	req := calls[len(calls)-1].Nearby
	if req.Type != "cafe" {
		t.Errorf("Expected type cafe, got %s", req.Type)
	}
	if req.Radius != DefaultRadius {
		t.Errorf("Expected default radius, got %d", req.Radius)
	}
	if req.Location.Lat != 40.7128 {
		t.Errorf("Expected parsed location, got %v", req.Location)
	}
}

func TestExecuteNearbyDefaults(t *testing.T) {
	nav := navigation.NewMock()
	e := NewExecutor(nav)

	e.Execute(context.Background(), NewCall(GetNearbyPlaces, map[string]string{
		"location": "downtown",
		"radius":   "not-a-number",
	}, "", ""), nil)

	req := nav.Calls()[0].Nearby
	if req.Location != navigation.DefaultLocation {
		t.Errorf("Expected default location for non-coordinate input, got %v", req.Location)
	}
	if req.Type != DefaultPlaceType {
		t.Errorf("Expected default type, got %s", req.Type)
	}
	if req.Radius != DefaultRadius {
		t.Errorf("Expected default radius for invalid input, got %d", req.Radius)
	}

	e.Execute(context.Background(), NewCall(GetNearbyPlaces, map[string]string{"radius": "1500"}, "", ""), nil)
	if r := nav.Calls()[1].Nearby.Radius; r != 1500 {
		t.Errorf("Expected radius 1500, got %d", r)
	}
}

func TestExecuteNearbyResults(t *testing.T) {
	tests := []struct {
		name   string
		places []navigation.Place
		err    error
		want   string
	}{
		{"empty", nil, nil, "No park found nearby"},
		{"missing fields", []navigation.Place{{}}, nil, "Unknown name, Unknown address"},
		{"provider error", nil, errors.New("quota exceeded"), "Error finding nearby park: quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := navigation.NewMock()
			nav.NearbyPlacesFunc = func(ctx context.Context, req navigation.NearbyRequest) ([]navigation.Place, error) {
				return tt.places, tt.err
			}
			e := NewExecutor(nav)

			got := e.Execute(context.Background(), NewCall(GetNearbyPlaces, map[string]string{"type": "park"}, "", ""), nil)
			if got != tt.want {
				t.Errorf("Expected '%s', got '%s'", tt.want, got)
			}
		})
	}
}

func TestExecuteNearbyBadCoordinates(t *testing.T) {
	nav := navigation.NewMock()
	e := NewExecutor(nav)

	got := e.Execute(context.Background(), NewCall(GetNearbyPlaces, map[string]string{
		"location": "north,south",
		"type":     "bank",
	}, "", ""), nil)

	if !strings.HasPrefix(got, "Error finding nearby bank: ") {
		t.Errorf("Expected nearby error, got '%s'", got)
	}
	if nav.CallCount("NearbyPlaces") != 0 {
		t.Error("Expected no search for unparseable coordinates")
	}
}

func TestExecuteRoute(t *testing.T) {
	nav := navigation.NewMock()
	var narrated *navigation.Route
	e := NewExecutor(nav, WithRouteHandler(func(ctx context.Context, r *navigation.Route) {
		narrated = r
	}))

	got := e.Execute(context.Background(), NewCall(GetRouteToDestination, map[string]string{
		"origin":      "Current location (40.7128, -74.006)",
		"destination": "1 Main St",
	}, "", ""), nil)

	want := "Route from 40.7128,-74.006 to 1 Main St has been calculated. Directions are being provided."
	if got != want {
		t.Errorf("Expected '%s', got '%s'", want, got)
	}
	if narrated == nil || len(narrated.Steps) != 2 {
		t.Error("Expected route handler to receive the route")
	}
	if req := nav.Calls()[0].Route; req.Mode != navigation.ModeWalking {
		t.Errorf("Expected walking mode, got %s", req.Mode)
	}
}

func TestExecuteRouteDestinationFallback(t *testing.T) {
	nav := navigation.NewMock()
	e := NewExecutor(nav)

	known := map[string]string{"destination": "Mock Diner, 1 Main St", "coordinates": "1.5,2.5"}
	got := e.Execute(context.Background(), NewCall(GetRouteToDestination, nil, "", ""), known)

	if !strings.Contains(got, "to Mock Diner, 1 Main St has been calculated") {
		t.Errorf("Expected fallback destination, got '%s'", got)
	}
	if req := nav.Calls()[0].Route; req.Origin != "1.5,2.5" {
		t.Errorf("Expected origin from known coordinates, got '%s'", req.Origin)
	}
}

func TestExecuteRouteNoDestination(t *testing.T) {
	nav := navigation.NewMock()
	e := NewExecutor(nav)

	got := e.Execute(context.Background(), NewCall(GetRouteToDestination, map[string]string{"origin": "1,2"}, "", ""), nil)
	if got != "Error: No destination provided for route calculation." {
		t.Errorf("Unexpected result: '%s'", got)
	}
	if nav.CallCount("Route") != 0 {
		t.Error("Expected no directions request without a destination")
	}
}

func TestExecuteRouteError(t *testing.T) {
	nav := navigation.NewMock()
	nav.RouteFunc = func(ctx context.Context, req navigation.RouteRequest) (*navigation.Route, error) {
		return nil, errors.New("NOT_FOUND")
	}
	called := false
	e := NewExecutor(nav, WithRouteHandler(func(ctx context.Context, r *navigation.Route) { called = true }))

	got := e.Execute(context.Background(), NewCall(GetRouteToDestination, map[string]string{"destination": "Atlantis"}, "", ""), nil)
	if got != "Error getting directions: NOT_FOUND" {
		t.Errorf("Unexpected result: '%s'", got)
	}
	if called {
		t.Error("Expected route handler not to be called on failure")
	}
}

func TestExecuteUnknownFunction(t *testing.T) {
	e := NewExecutor(navigation.NewMock())

	got := e.Execute(context.Background(), NewCall("get_weather", nil, "", ""), nil)
	if got != "Unknown function: get_weather" {
		t.Errorf("Unexpected result: '%s'", got)
	}
}

func TestNormalizeOrigin(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"37.7749,-122.4194", "37.7749,-122.4194"},
		{"coordinates: 37.7749, -122.4194", "37.7749,-122.4194"},
		{"  Union Square ", "Union Square"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeOrigin(tt.in); got != tt.want {
			t.Errorf("NormalizeOrigin(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}
