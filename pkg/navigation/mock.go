package navigation

import (
	"context"
	"sync"
	"time"
)

// Mock implements Provider for testing.
type Mock struct {
	// CurrentLocationFunc is called when CurrentLocation is invoked.
	CurrentLocationFunc func(ctx context.Context) (LatLng, error)

	// NearbyPlacesFunc is called when NearbyPlaces is invoked.
	NearbyPlacesFunc func(ctx context.Context, req NearbyRequest) ([]Place, error)

	// RouteFunc is called when Route is invoked.
	RouteFunc func(ctx context.Context, req RouteRequest) (*Route, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall records a method invocation.
type MockCall struct {
	Method string
	Nearby NearbyRequest
	Route  RouteRequest
	Time   time.Time
}

// NewMock creates a mock provider answering from a fixed location with one
// place and a two-step route.
func NewMock() *Mock {
	return &Mock{
		CurrentLocationFunc: func(ctx context.Context) (LatLng, error) {
			return LatLng{Lat: 40.7128, Lng: -74.006}, nil
		},
		NearbyPlacesFunc: func(ctx context.Context, req NearbyRequest) ([]Place, error) {
			return []Place{{Name: "Mock Diner", Vicinity: "1 Main St"}}, nil
		},
		RouteFunc: func(ctx context.Context, req RouteRequest) (*Route, error) {
			return &Route{
				Summary:  "Main St",
				Distance: "0.2 mi",
				Duration: 4 * time.Minute,
				Steps: []RouteStep{
					{Instruction: "Head north on Main St", Distance: "0.1 mi", Duration: 2 * time.Minute},
					{Instruction: "Turn right", Distance: "0.1 mi", Duration: 2 * time.Minute},
				},
			}, nil
		},
	}
}

// CurrentLocation calls CurrentLocationFunc and records the call.
func (m *Mock) CurrentLocation(ctx context.Context) (LatLng, error) {
	m.record(MockCall{Method: "CurrentLocation"})
	if m.CurrentLocationFunc != nil {
		return m.CurrentLocationFunc(ctx)
	}
	return LatLng{}, WrapError("geolocate", ErrNoAPIKey)
}

// NearbyPlaces calls NearbyPlacesFunc and records the call.
func (m *Mock) NearbyPlaces(ctx context.Context, req NearbyRequest) ([]Place, error) {
	m.record(MockCall{Method: "NearbyPlaces", Nearby: req})
	if m.NearbyPlacesFunc != nil {
		return m.NearbyPlacesFunc(ctx, req)
	}
	return nil, nil
}

// Route calls RouteFunc and records the call.
func (m *Mock) Route(ctx context.Context, req RouteRequest) (*Route, error) {
	m.record(MockCall{Method: "Route", Route: req})
	if m.RouteFunc != nil {
		return m.RouteFunc(ctx, req)
	}
	return nil, WrapError("directions", ErrNoRoute)
}

func (m *Mock) record(call MockCall) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call.Time = time.Now()
	m.calls = append(m.calls, call)
}

// Calls returns all recorded method calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]MockCall, len(m.calls))
	copy(result, m.calls)
	return result
}

// CallCount returns the number of times a method was called.
func (m *Mock) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, c := range m.calls {
		if c.Method == method {
			count++
		}
	}
	return count
}

// Verify Mock implements Provider at compile time.
var _ Provider = (*Mock)(nil)
