package geometry

import (
	"math"
	"testing"

	"github.com/qrengine/qrcodeengine/internal/zonemap"
	"github.com/stretchr/testify/assert"
)

func TestSquareZoneContains(t *testing.T) {
	z := LogoZone{Shape: Square, CenterX: 10, CenterY: 10, Size: 3}
	assert.True(t, z.ContainsModule(10, 10))
	assert.True(t, z.ContainsModule(7, 10))
	assert.True(t, z.ContainsModule(12, 10))
	assert.False(t, z.ContainsModule(6, 10))
	assert.False(t, z.ContainsModule(14, 10))
}

func TestCircleZoneContains(t *testing.T) {
	z := LogoZone{Shape: Circle, CenterX: 10, CenterY: 10, Size: 3}
	assert.True(t, z.ContainsModule(10, 10))
	assert.True(t, z.ContainsModule(12, 10))
	assert.False(t, z.ContainsModule(13, 13))
}

func TestRoundedSquareZoneContains(t *testing.T) {
	z := LogoZone{Shape: RoundedSquare, CenterX: 10, CenterY: 10, Size: 5, CornerRadius: 1}
	assert.True(t, z.ContainsModule(10, 10))
	assert.False(t, z.ContainsModule(30, 30))
}

func TestIsExcludable(t *testing.T) {
	zone := LogoZone{Shape: Square, CenterX: 10, CenterY: 10, Size: 3}
	untouchable := []zonemap.Zone{{Type: zonemap.TimingPattern, X: 6, Y: 8, W: 1, H: 5}}

	assert.True(t, IsExcludable(10, 10, zone, untouchable))
	assert.False(t, IsExcludable(6, 10, zone, untouchable))
	assert.False(t, IsExcludable(20, 20, zone, untouchable))
}

func TestAreaCalculations(t *testing.T) {
	square := LogoZone{Shape: Square, CenterX: 10, CenterY: 10, Size: 5}
	assert.Equal(t, 100.0, square.Area())

	circle := LogoZone{Shape: Circle, CenterX: 10, CenterY: 10, Size: 5}
	assert.InDelta(t, math.Pi*25, circle.Area(), 0.001)
}

func TestNewCenteredZone(t *testing.T) {
	z := NewCenteredZone(21, 0.3)
	assert.Equal(t, 10.5, z.CenterX)
	assert.Equal(t, 10.5, z.CenterY)
	assert.InDelta(t, 3.15, z.Size, 0.001)
}
