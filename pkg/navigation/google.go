package navigation

import (
	"context"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"

	"github.com/teslashibe/go-wayfinder/internal/httpc"
)

// Google implements Provider over the Google Maps web services.
type Google struct {
	config *Config
	client *maps.Client
	logger *slog.Logger
}

// NewGoogle creates a Google Maps navigation provider.
func NewGoogle(opts ...Option) (*Google, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(httpc.NewClient(cfg.Timeout)),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(cfg.BaseURL))
	}
	if cfg.RateLimit > 0 {
		clientOpts = append(clientOpts, maps.WithRateLimit(cfg.RateLimit))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("navigation: create maps client: %w", err)
	}

	return &Google{
		config: cfg,
		client: client,
		logger: cfg.Logger.With("component", "navigation.google"),
	}, nil
}

// CurrentLocation geolocates the host by IP.
func (g *Google) CurrentLocation(ctx context.Context) (LatLng, error) {
	res, err := g.client.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		return LatLng{}, WrapError("geolocate", err)
	}

	loc := LatLng{Lat: res.Location.Lat, Lng: res.Location.Lng}
	g.logger.Debug("geolocated", "location", loc.String(), "accuracy_m", res.Accuracy)
	return loc, nil
}

// NearbyPlaces runs a Places nearby search.
func (g *Google) NearbyPlaces(ctx context.Context, req NearbyRequest) ([]Place, error) {
	resp, err := g.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: req.Location.Lat, Lng: req.Location.Lng},
		Radius:   req.Radius,
		Type:     maps.PlaceType(req.Type),
	})
	if err != nil {
		return nil, WrapError("nearby", err)
	}

	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, Place{Name: r.Name, Vicinity: r.Vicinity})
	}

	g.logger.Debug("nearby search",
		"type", req.Type,
		"radius", req.Radius,
		"results", len(places),
	)
	return places, nil
}

// Route fetches directions and returns the first leg of the first route.
func (g *Google) Route(ctx context.Context, req RouteRequest) (*Route, error) {
	if req.Destination == "" {
		return nil, WrapError("directions", ErrNoDestination)
	}

	mode := req.Mode
	if !ValidMode(mode) {
		mode = ModeWalking
	}

	routes, _, err := g.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      req.Origin,
		Destination: req.Destination,
		Mode:        maps.Mode(mode),
	})
	if err != nil {
		return nil, WrapError("directions", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, WrapError("directions", ErrNoRoute)
	}

	leg := routes[0].Legs[0]
	route := &Route{
		Summary:  routes[0].Summary,
		Distance: leg.Distance.HumanReadable,
		Duration: leg.Duration,
		Steps:    make([]RouteStep, 0, len(leg.Steps)),
	}
	for _, s := range leg.Steps {
		route.Steps = append(route.Steps, RouteStep{
			Instruction: StripHTML(s.HTMLInstructions),
			Distance:    s.Distance.HumanReadable,
			Duration:    s.Duration,
		})
	}

	g.logger.Debug("route computed",
		"origin", req.Origin,
		"destination", req.Destination,
		"mode", mode,
		"steps", len(route.Steps),
	)
	return route, nil
}

// Verify Google implements Provider at compile time.
var _ Provider = (*Google)(nil)
