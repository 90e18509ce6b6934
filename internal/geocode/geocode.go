// Package geocode turns free-form campground locations into points.
package geocode

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Davidxcr/YelpCamp/internal/logging"
	"github.com/Davidxcr/YelpCamp/internal/metrics"
	"github.com/Davidxcr/YelpCamp/internal/shared/geo"

	pkgerrors "github.com/pkg/errors"
	"github.com/sony/gobreaker/v2"
	"googlemaps.github.io/maps"
)

var (
	ErrNoResults     = errors.New("no geocoding results for location")
	ErrNotConfigured = errors.New("geocoder is not configured")
)

type Geocoder interface {
	Forward(ctx context.Context, location string) (geo.Point, error)
}

// geocodingClient is the subset of *maps.Client used here.
type geocodingClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

type Google struct {
	client  geocodingClient
	breaker *gobreaker.CircuitBreaker[geo.Point]
}

// NewGoogle builds a geocoder from a server API key.
func NewGoogle(apiKey string) (*Google, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNotConfigured
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create maps client")
	}
	return newGoogle(client), nil
}

func newGoogle(client geocodingClient) *Google {
	settings := gobreaker.Settings{
		Name:        "geocoder",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// A location with no match is a caller problem, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoResults)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
	return &Google{client: client, breaker: gobreaker.NewCircuitBreaker[geo.Point](settings)}
}

func (g *Google) Forward(ctx context.Context, location string) (geo.Point, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return geo.Point{}, ErrNoResults
	}

	point, err := g.breaker.Execute(func() (geo.Point, error) {
		results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: location})
		if err != nil {
			return geo.Point{}, pkgerrors.Wrapf(err, "geocode %q", location)
		}
		if len(results) == 0 {
			return geo.Point{}, ErrNoResults
		}
		loc := results[0].Geometry.Location
		return geo.NewPoint(loc.Lng, loc.Lat), nil
	})
	metrics.RecordExternal("geocoder", err)
	return point, err
}

// Static always answers with the same point. It backs local development
// when no maps key is configured.
type Static struct {
	Point geo.Point
}

func (s Static) Forward(_ context.Context, location string) (geo.Point, error) {
	if strings.TrimSpace(location) == "" {
		return geo.Point{}, ErrNoResults
	}
	return s.Point, nil
}
