package action

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/teslashibe/go-wayfinder/pkg/navigation"
)

// Defaults applied when a call omits optional parameters.
const (
	DefaultRadius    = 5000
	DefaultPlaceType = "restaurant"
)

// Result strings for provider failures. They flow back into the chain as
// ordinary action output.
const (
	msgNoDestination = "Error: No destination provided for route calculation."
	unknownName      = "Unknown name"
	unknownAddress   = "Unknown address"
)

// Navigator is the subset of navigation.Provider the executor needs.
type Navigator interface {
	CurrentLocation(ctx context.Context) (navigation.LatLng, error)
	NearbyPlaces(ctx context.Context, req navigation.NearbyRequest) ([]navigation.Place, error)
	Route(ctx context.Context, req navigation.RouteRequest) (*navigation.Route, error)
}

// RouteHandler receives computed routes, typically to narrate them.
type RouteHandler func(ctx context.Context, route *navigation.Route)

// Executor runs API call descriptors against a Navigator.
type Executor struct {
	nav             Navigator
	defaultLocation navigation.LatLng
	mode            string
	onRoute         RouteHandler
	logger          *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithDefaultLocation sets the fallback position.
func WithDefaultLocation(loc navigation.LatLng) ExecutorOption {
	return func(e *Executor) { e.defaultLocation = loc }
}

// WithTravelMode sets the mode used when a route call names none.
func WithTravelMode(mode string) ExecutorOption {
	return func(e *Executor) { e.mode = mode }
}

// WithRouteHandler registers a callback for successful routes.
func WithRouteHandler(h RouteHandler) ExecutorOption {
	return func(e *Executor) { e.onRoute = h }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = l }
}

// NewExecutor creates an executor.
func NewExecutor(nav Navigator, opts ...ExecutorOption) *Executor {
	e := &Executor{
		nav:             nav,
		defaultLocation: navigation.DefaultLocation,
		mode:            navigation.ModeWalking,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "action.executor")
	return e
}

// Execute runs d and returns its textual result. Provider failures are
// reported in the returned text, never as an error. known supplies context
// values such as a previously found destination.
func (e *Executor) Execute(ctx context.Context, d Descriptor, known map[string]string) string {
	if d.IsAnalysis() {
		return d.Analysis
	}

	switch d.Function {
	case GetCurrentLocation:
		return e.currentLocation(ctx)
	case GetNearbyPlaces:
		return e.nearbyPlaces(ctx, d)
	case GetRouteToDestination:
		return e.route(ctx, d, known)
	default:
		return fmt.Sprintf("Unknown function: %s", d.Function)
	}
}

func (e *Executor) currentLocation(ctx context.Context) string {
	loc, err := e.nav.CurrentLocation(ctx)
	if err != nil {
		e.logger.Warn("geolocation failed, using default location",
			"default", e.defaultLocation.String(),
			"error", err,
		)
		return e.defaultLocation.String()
	}
	return loc.String()
}

func (e *Executor) nearbyPlaces(ctx context.Context, d Descriptor) string {
	placeType := strings.TrimSpace(d.Param(ParamType))
	if placeType == "" {
		placeType = DefaultPlaceType
	}

	loc := e.defaultLocation
	if raw := d.Param(ParamLocation); strings.Contains(raw, ",") {
		parsed, err := navigation.ParseLatLng(raw)
		if err != nil {
			return fmt.Sprintf("Error finding nearby %s: %v", placeType, err)
		}
		loc = parsed
	}

	radius := uint(DefaultRadius)
	if raw := strings.TrimSpace(d.Param(ParamRadius)); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			e.logger.Warn("invalid radius, using default", "radius", raw, "default", DefaultRadius)
		} else {
			radius = uint(n)
		}
	}

	places, err := e.nav.NearbyPlaces(ctx, navigation.NearbyRequest{
		Location: loc,
		Type:     placeType,
		Radius:   radius,
	})
	if err != nil {
		e.logger.Warn("nearby search failed", "type", placeType, "error", err)
		return fmt.Sprintf("Error finding nearby %s: %v", placeType, err)
	}
	if len(places) == 0 {
		return fmt.Sprintf("No %s found nearby", placeType)
	}

	name, vicinity := places[0].Name, places[0].Vicinity
	if name == "" {
		name = unknownName
	}
	if vicinity == "" {
		vicinity = unknownAddress
	}
	return name + ", " + vicinity
}

func (e *Executor) route(ctx context.Context, d Descriptor, known map[string]string) string {
	destination := strings.TrimSpace(d.Param(ParamDestination))
	if destination == "" {
		destination = strings.TrimSpace(known["destination"])
	}
	if destination == "" {
		return msgNoDestination
	}

	origin := NormalizeOrigin(d.Param(ParamOrigin))
	if origin == "" {
		origin = NormalizeOrigin(known["coordinates"])
	}
	if origin == "" {
		origin = e.defaultLocation.String()
	}

	mode := strings.ToLower(strings.TrimSpace(d.Param(ParamMode)))
	if !navigation.ValidMode(mode) {
		mode = e.mode
	}

	route, err := e.nav.Route(ctx, navigation.RouteRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        mode,
	})
	if err != nil {
		e.logger.Warn("directions failed", "origin", origin, "destination", destination, "error", err)
		return fmt.Sprintf("Error getting directions: %v", err)
	}

	if e.onRoute != nil {
		e.onRoute(ctx, route)
	}

	return fmt.Sprintf("Route from %s to %s has been calculated. Directions are being provided.", origin, destination)
}

// NormalizeOrigin reduces an origin to its embedded "lat,lng" pair when it
// has one, and trims it otherwise.
func NormalizeOrigin(origin string) string {
	if pair, ok := navigation.FindCoordinates(origin); ok {
		return pair
	}
	return strings.TrimSpace(origin)
}
