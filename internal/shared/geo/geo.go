package geo

import (
	"errors"
	"math"
)

const earthRadiusKm = 6371.0

var ErrInvalidPoint = errors.New("coordinates must be [longitude, latitude] within [-180,180] x [-90,90]")

// Point is a GeoJSON point. Coordinates are ordered [longitude, latitude].
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func NewPoint(lng, lat float64) Point {
	return Point{Type: "Point", Coordinates: [2]float64{lng, lat}}
}

func (p Point) Lng() float64 { return p.Coordinates[0] }
func (p Point) Lat() float64 { return p.Coordinates[1] }

func (p Point) Validate() error {
	if !ValidPoint(p.Lng(), p.Lat()) {
		return ErrInvalidPoint
	}
	return nil
}

// ValidPoint reports whether lng/lat are finite and within range.
func ValidPoint(lng, lat float64) bool {
	if math.IsNaN(lng) || math.IsNaN(lat) || math.IsInf(lng, 0) || math.IsInf(lat, 0) {
		return false
	}
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// HaversineKm returns the great-circle distance between two lat/lng pairs.
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
