package server

import (
	"errors"

	"github.com/Davidxcr/YelpCamp/internal/config"
	"github.com/Davidxcr/YelpCamp/internal/geocode"
	"github.com/Davidxcr/YelpCamp/internal/imagestore"
	"github.com/Davidxcr/YelpCamp/internal/logging"
)

// NewImageStore returns nil when no bucket is configured; uploads are then
// rejected and image deletes are skipped.
func NewImageStore(cfg config.Config) imagestore.Store {
	store, err := imagestore.NewS3Store(imagestore.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		PublicURL: cfg.S3PublicURL,
		Folder:    cfg.S3Folder,
	})
	if err != nil {
		if !errors.Is(err, imagestore.ErrNotConfigured) {
			logging.Error().Err(err).Msg("image store unavailable")
		} else {
			logging.Warn().Msg("S3_BUCKET not set, image uploads disabled")
		}
		return nil
	}
	return store
}

// NewGeocoder returns nil when no maps key is configured. Campgrounds can
// still be written with explicit coordinates.
func NewGeocoder(cfg config.Config) geocode.Geocoder {
	g, err := geocode.NewGoogle(cfg.GoogleMapsKey)
	if err != nil {
		if !errors.Is(err, geocode.ErrNotConfigured) {
			logging.Error().Err(err).Msg("geocoder unavailable")
		} else {
			logging.Warn().Msg("GMAP_SERVER_KEY not set, geocoding disabled")
		}
		return nil
	}
	return g
}
