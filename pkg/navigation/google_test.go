package navigation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newGoogleTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "geolocate"):
			w.Write([]byte(`{"location":{"lat":51.5,"lng":-0.12},"accuracy":1200}`))
		case strings.Contains(r.URL.Path, "nearbysearch"):
			if r.URL.Query().Get("type") == "bank" {
				w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
				return
			}
			w.Write([]byte(`{"status":"OK","results":[
				{"name":"Blue Bottle","vicinity":"66 Mint St"},
				{"name":"Sightglass","vicinity":"270 7th St"}
			]}`))
		case strings.Contains(r.URL.Path, "directions"):
			if r.URL.Query().Get("destination") == "Nowhere" {
				w.Write([]byte(`{"status":"ZERO_RESULTS","routes":[]}`))
				return
			}
			w.Write([]byte(`{"status":"OK","routes":[{"summary":"Mission St","legs":[{
				"distance":{"text":"0.4 mi","value":640},
				"duration":{"text":"8 mins","value":480},
				"steps":[
					{"html_instructions":"Head <b>north</b> on <b>Mission St</b>","distance":{"text":"0.2 mi","value":320},"duration":{"text":"4 mins","value":240}},
					{"html_instructions":"Turn <b>left</b>","distance":{"text":"0.2 mi","value":320},"duration":{"text":"4 mins","value":240}}
				]}]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestNewGoogleRequiresKey(t *testing.T) {
	_, err := NewGoogle()
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Expected ErrNoAPIKey, got %v", err)
	}
}

func TestGoogleCurrentLocation(t *testing.T) {
	server := newGoogleTestServer(t)
	defer server.Close()

	g, err := NewGoogle(WithAPIKey("test-key"), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewGoogle failed: %v", err)
	}

	loc, err := g.CurrentLocation(context.Background())
	if err != nil {
		t.Fatalf("CurrentLocation failed: %v", err)
	}
	if loc.String() != "51.5,-0.12" {
		t.Errorf("Expected '51.5,-0.12', got '%s'", loc.String())
	}
}

func TestGoogleNearbyPlaces(t *testing.T) {
	server := newGoogleTestServer(t)
	defer server.Close()

	g, err := NewGoogle(WithAPIKey("test-key"), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewGoogle failed: %v", err)
	}

	places, err := g.NearbyPlaces(context.Background(), NearbyRequest{
		Location: DefaultLocation,
		Type:     "cafe",
		Radius:   5000,
	})
	if err != nil {
		t.Fatalf("NearbyPlaces failed: %v", err)
	}
	if len(places) != 2 {
		t.Fatalf("Expected 2 places, got %d", len(places))
	}
	if places[0].Name != "Blue Bottle" || places[0].Vicinity != "66 Mint St" {
		t.Errorf("Unexpected first place: %+v", places[0])
	}

	places, err = g.NearbyPlaces(context.Background(), NearbyRequest{
		Location: DefaultLocation,
		Type:     "bank",
		Radius:   5000,
	})
	if err != nil {
		t.Fatalf("NearbyPlaces with zero results failed: %v", err)
	}
	if len(places) != 0 {
		t.Errorf("Expected no places, got %d", len(places))
	}
}

func TestGoogleRoute(t *testing.T) {
	server := newGoogleTestServer(t)
	defer server.Close()

	g, err := NewGoogle(WithAPIKey("test-key"), WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("NewGoogle failed: %v", err)
	}

	route, err := g.Route(context.Background(), RouteRequest{
		Origin:      "37.7749,-122.4194",
		Destination: "66 Mint St",
	})
	if err != nil {
		t.Fatalf("Route failed: %v", err)
	}
	if len(route.Steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(route.Steps))
	}
	if route.Steps[0].Instruction != "Head north on Mission St" {
		t.Errorf("Expected stripped instruction, got '%s'", route.Steps[0].Instruction)
	}
	if route.Steps[0].Duration != 4*time.Minute {
		t.Errorf("Expected 4m step, got %v", route.Steps[0].Duration)
	}
	if route.Distance != "0.4 mi" {
		t.Errorf("Expected '0.4 mi', got '%s'", route.Distance)
	}

	_, err = g.Route(context.Background(), RouteRequest{Origin: "37.7749,-122.4194", Destination: "Nowhere"})
	if !errors.Is(err, ErrNoRoute) {
		t.Errorf("Expected ErrNoRoute, got %v", err)
	}

	var perr *ProviderError
	_, err = g.Route(context.Background(), RouteRequest{Origin: "37.7749,-122.4194"})
	if !errors.As(err, &perr) || perr.Op != "directions" {
		t.Errorf("Expected directions ProviderError, got %v", err)
	}
}
