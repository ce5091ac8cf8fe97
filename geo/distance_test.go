package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	p, err := ParseCoordinates(" 55.7558, 37.6173 ")
	require.NoError(t, err)
	assert.Equal(t, 55.7558, p.Latitude)
	assert.Equal(t, 37.6173, p.Longitude)
	assert.Equal(t, "55.7558,37.6173", p.String())

	for _, bad := range []string{"", "55.7", "a,b", "91,0", "0,181", "NaN,NaN", "0,Inf", "-Inf,0"} {
		_, err := ParseCoordinates(bad)
		assert.Error(t, err, bad)
	}
}

func TestDistanceKm(t *testing.T) {
	moscow := Point{Latitude: 55.7558, Longitude: 37.6173}
	spb := Point{Latitude: 59.9343, Longitude: 30.3351}

	assert.InDelta(t, 634, DistanceKm(moscow, spb), 5)
	assert.InDelta(t, DistanceKm(moscow, spb), DistanceKm(spb, moscow), 1e-9)
	assert.Zero(t, DistanceKm(moscow, moscow))
}
