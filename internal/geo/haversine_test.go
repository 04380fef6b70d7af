package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSymmetry(t *testing.T) {
	cases := [][4]float64{
		{17.3850, 78.4867, 17.4000, 78.5000},
		{0, 0, 10, 10},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{89.9, 179.9, -89.9, -179.9},
	}

	for _, tc := range cases {
		ab := Distance(tc[0], tc[1], tc[2], tc[3])
		ba := Distance(tc[2], tc[3], tc[0], tc[1])
		assert.InDelta(t, ab, ba, 1e-9)
	}
}

func TestDistanceIdentity(t *testing.T) {
	assert.Equal(t, 0.0, Distance(17.3850, 78.4867, 17.3850, 78.4867))
	assert.Equal(t, 0.0, Distance(0, 0, 0, 0))
	assert.Equal(t, 0.0, Distance(-45.5, 170.2, -45.5, 170.2))
}

func TestDistanceKnownValue(t *testing.T) {
	// Hyderabad city points roughly 2.18 km apart.
	d := Distance(17.3850, 78.4867, 17.4000, 78.5000)
	assert.InDelta(t, 2.185, d, 0.005)
}

func TestDistanceNonNegative(t *testing.T) {
	d := Distance(40.7128, -74.0060, 34.0522, -118.2437)
	assert.Greater(t, d, 0.0)
	// New York to Los Angeles is just under 4000 km.
	assert.InDelta(t, 3936, d, 30)
}
