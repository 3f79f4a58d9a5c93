// Package maps adapts the Google Maps Directions API to the pricing
// engine's estimate interface. The calculator never sees Maps types.
package maps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"googlemaps.github.io/maps"

	"chauffeur/internal/domain"
)

// EstimateService resolves routes through the Google Maps Directions
// API with a bounded retry, since estimate lookups are the one
// retryable step of a price calculation.
type EstimateService struct {
	client     *maps.Client
	maxRetries uint64
}

// NewEstimateService creates a new EstimateService with the given API key.
func NewEstimateService(apiKey string, maxRetries uint64) (*EstimateService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &EstimateService{client: client, maxRetries: maxRetries}, nil
}

// Estimate returns distance and duration for a trip from origin to
// destination via the given waypoints, departing at departAt. When the
// API returns a traffic-adjusted duration the estimate is marked
// traffic-aware; otherwise callers treat the price as estimate-only.
func (s *EstimateService) Estimate(ctx context.Context, origin, destination domain.Location, waypoints []domain.Location, departAt time.Time) (*domain.RouteEstimate, error) {
	req := &maps.DirectionsRequest{
		Origin:        locationString(origin),
		Destination:   locationString(destination),
		Mode:          maps.TravelModeDriving,
		TrafficModel:  maps.TrafficModelBestGuess,
		DepartureTime: departureTime(departAt),
	}
	for _, wp := range waypoints {
		req.Waypoints = append(req.Waypoints, locationString(wp))
	}

	var routes []maps.Route
	operation := func() error {
		var err error
		routes, _, err = s.client.Directions(ctx, req)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	var meters int
	var duration time.Duration
	trafficAware := true
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
		if leg.DurationInTraffic > 0 {
			duration += leg.DurationInTraffic
		} else {
			duration += leg.Duration
			trafficAware = false
		}
	}

	return &domain.RouteEstimate{
		DistanceKm:      float64(meters) / 1000,
		DurationMinutes: duration.Minutes(),
		TrafficAware:    trafficAware,
	}, nil
}

// locationString renders a location the way the Directions API expects:
// an address when available, otherwise "lat,lng".
func locationString(l domain.Location) string {
	if l.Address != "" {
		return l.Address
	}
	return fmt.Sprintf("%f,%f", l.Lat, l.Lng)
}

// departureTime renders a future departure as a Unix timestamp; past
// or zero times fall back to "now", which the API requires for
// traffic-aware durations.
func departureTime(t time.Time) string {
	if t.IsZero() || t.Before(time.Now()) {
		return "now"
	}
	return strconv.FormatInt(t.Unix(), 10)
}
