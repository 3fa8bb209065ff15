package geo

import (
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	p := Point{Lat: 9.0054, Lon: 38.7636}
	assert.InDelta(t, 0, Distance(p, p), 1e-9)
}

func TestDistance_Symmetric(t *testing.T) {
	addis := Point{Lat: 9.0054, Lon: 38.7636}
	nairobi := Point{Lat: -1.2921, Lon: 36.8219}
	assert.InDelta(t, Distance(addis, nairobi), Distance(nairobi, addis), 1e-9)
}

func TestDistance_KnownValues(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{"half circumference on the equator", Point{0, 0}, Point{0, 180}, 20015.1, 1},
		{"pole to pole", Point{90, 0}, Point{-90, 0}, 20015.1, 1},
		{"one degree of latitude", Point{0, 0}, Point{1, 0}, 111.19, 0.05},
		{"london to paris", Point{51.5074, -0.1278}, Point{48.8566, 2.3522}, 343.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, tt.tol)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestDistance_OutOfRangeIsNaN(t *testing.T) {
	ok := Point{Lat: 10, Lon: 10}
	assert.True(t, math.IsNaN(Distance(Point{Lat: 91, Lon: 0}, ok)))
	assert.True(t, math.IsNaN(Distance(ok, Point{Lat: 0, Lon: -181})))
	assert.True(t, math.IsNaN(Distance(ok, Point{Lat: math.NaN(), Lon: 0})))
}

func TestDirectionsURL(t *testing.T) {
	origin := Point{Lat: 9.01, Lon: 38.76}
	link := DirectionsURL(&origin, Point{Lat: 9.02, Lon: 38.75})
	require.True(t, strings.HasPrefix(link, "https://www.google.com/maps/dir/?"))

	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "1", q.Get("api"))
	assert.Equal(t, "9.01,38.76", q.Get("origin"))
	assert.Equal(t, "9.02,38.75", q.Get("destination"))
	assert.Equal(t, "driving", q.Get("travelmode"))

	noOrigin, err := url.Parse(DirectionsURL(nil, Point{Lat: 1, Lon: 2}))
	require.NoError(t, err)
	assert.False(t, noOrigin.Query().Has("origin"))
}
