package plan

import (
	"reflect"
	"testing"

	"github.com/teslashibe/go-wayfinder/pkg/action"
)

func TestDirectExtract(t *testing.T) {
	known := map[string]string{
		"coordinates": "37.7749,-122.4194",
		"destination": "Blue Bottle, 66 Mint St",
		"place_type":  "cafe",
	}

	tests := []struct {
		name     string
		response string
		function action.FunctionID
		params   map[string]string
		save     string
	}{
		{
			name:     "location",
			response: "**Next Action:get_current_location",
			function: action.GetCurrentLocation,
			params:   map[string]string{},
			save:     "coordinates",
		},
		{
			name:     "nearby uses place type",
			response: "Next Action: get_nearby_places",
			function: action.GetNearbyPlaces,
			params:   map[string]string{"location": "37.7749,-122.4194", "type": "cafe"},
			save:     "destination",
		},
		{
			name:     "nearby explicit type",
			response: "Next Action: get_nearby_places\nwith type: 'bank'",
			function: action.GetNearbyPlaces,
			params:   map[string]string{"location": "37.7749,-122.4194", "type": "bank"},
			save:     "destination",
		},
		{
			name:     "route",
			response: "Next Action: get_route_to_destination",
			function: action.GetRouteToDestination,
			params:   map[string]string{"origin": "37.7749,-122.4194", "destination": "Blue Bottle, 66 Mint St"},
			save:     "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := DirectExtract(tt.response, known)
			if !ok {
				t.Fatal("Expected extraction to succeed")
			}
			if d.Function != tt.function {
				t.Errorf("Expected %s, got %s", tt.function, d.Function)
			}
			if !reflect.DeepEqual(d.Parameters, tt.params) {
				t.Errorf("Expected params %v, got %v", tt.params, d.Parameters)
			}
			if d.ParameterToSave != tt.save {
				t.Errorf("Expected save '%s', got '%s'", tt.save, d.ParameterToSave)
			}
		})
	}
}

func TestDirectExtractEmptyContext(t *testing.T) {
	d, ok := DirectExtract("Next Action: get_nearby_places", map[string]string{})
	if !ok {
		t.Fatal("Expected extraction to succeed")
	}
	want := map[string]string{"type": "restaurant"}
	if !reflect.DeepEqual(d.Parameters, want) {
		t.Errorf("Expected %v, got %v", want, d.Parameters)
	}
}

func TestDirectExtractRejects(t *testing.T) {
	for _, response := range []string{
		"no tags at all",
		"Next Action: get_weather",
		"Next Action: ",
	} {
		if _, ok := DirectExtract(response, nil); ok {
			t.Errorf("Expected rejection for %q", response)
		}
	}
}

func TestSynthesize(t *testing.T) {
	known := map[string]string{"coordinates": "1,2", "destination": "Cafe", "place_type": "park"}

	nearby := Synthesize(action.GetNearbyPlaces, "chain", known)
	if nearby.Param("type") != "park" || nearby.Param("location") != "1,2" {
		t.Errorf("Unexpected nearby params: %v", nearby.Parameters)
	}
	if nearby.ParameterToSave != "destination" || nearby.Chain != "chain" {
		t.Errorf("Unexpected nearby descriptor: %+v", nearby)
	}

	route := Synthesize(action.GetRouteToDestination, "", known)
	if route.Param("origin") != "1,2" || route.Param("destination") != "Cafe" {
		t.Errorf("Unexpected route params: %v", route.Parameters)
	}
	if !route.SavesNothing() {
		t.Error("Expected synthesized route to end the chain")
	}

	loc := Synthesize(action.GetCurrentLocation, "", known)
	if loc.Function != action.GetCurrentLocation || loc.ParameterToSave != "coordinates" {
		t.Errorf("Unexpected location descriptor: %+v", loc)
	}
}
