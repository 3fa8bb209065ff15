// Package geo computes great-circle distances between pharmacies and the
// people searching for stock.
package geo

import (
	"fmt"
	"math"
	"net/url"
)

// EarthRadiusKm is Earth's mean radius.
const EarthRadiusKm = 6371.0

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether the point lies within [-90,90] x [-180,180].
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the haversine distance between a and b in kilometers.
// Points outside the valid coordinate range yield NaN.
func Distance(a, b Point) float64 {
	if !a.Valid() || !b.Valid() {
		return math.NaN()
	}
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	h = math.Min(1, math.Max(0, h))
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

const directionsBase = "https://www.google.com/maps/dir/"

// DirectionsURL builds a driving-directions link to dest. When origin is
// nil the maps client falls back to the device's current location.
func DirectionsURL(origin *Point, dest Point) string {
	q := url.Values{}
	q.Set("api", "1")
	if origin != nil {
		q.Set("origin", formatPoint(*origin))
	}
	q.Set("destination", formatPoint(dest))
	q.Set("travelmode", "driving")
	return directionsBase + "?" + q.Encode()
}

func formatPoint(p Point) string {
	return fmt.Sprintf("%g,%g", p.Lat, p.Lon)
}
