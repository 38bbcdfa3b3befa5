// Package geometry implements the logo exclusion zone shapes of spec §3
// (square / circle / rounded-square-with-radius) and the exclusion
// predicate: a module is excludable iff its center lies inside the zone and
// outside every untouchable zone (spec §8, module-exclusion-rule
// invariant).
package geometry

import (
	"math"

	"github.com/qrengine/qrcodeengine/internal/zonemap"
)

// Shape tags a LogoZone's containment predicate.
type Shape int8

const (
	Square Shape = iota
	Circle
	RoundedSquare
)

// LogoZone is a tagged shape anchored at a fractional module-space center
// with a half-extent (radius for Circle, half-side for Square and
// RoundedSquare).
type LogoZone struct {
	Shape                Shape
	CenterX, CenterY     float64
	Size                 float64 // Half-extent, in module units.
	CornerRadius         float64 // Only meaningful for RoundedSquare.
}

// NewCenteredZone builds the zone spec §4.3 step 3 describes: a square zone
// at the matrix center with half-extent N*logoRatio/2.
func NewCenteredZone(n int, logoRatio float64) LogoZone {
	center := float64(n) / 2
	return LogoZone{Shape: Square, CenterX: center, CenterY: center, Size: float64(n) * logoRatio / 2}
}

// ContainsPoint reports whether the continuous point (x, y) is inside the
// zone.
func (z LogoZone) ContainsPoint(x, y float64) bool {
	switch z.Shape {
	case Square:
		return x >= z.CenterX-z.Size && x <= z.CenterX+z.Size &&
			y >= z.CenterY-z.Size && y <= z.CenterY+z.Size
	case Circle:
		dx, dy := x-z.CenterX, y-z.CenterY
		return dx*dx+dy*dy <= z.Size*z.Size
	case RoundedSquare:
		innerHalf := z.Size - z.CornerRadius
		if x >= z.CenterX-innerHalf && x <= z.CenterX+innerHalf &&
			y >= z.CenterY-innerHalf && y <= z.CenterY+innerHalf {
			return true
		}
		if x < z.CenterX-z.Size || x > z.CenterX+z.Size ||
			y < z.CenterY-z.Size || y > z.CenterY+z.Size {
			return false
		}
		cornerX := z.CenterX - innerHalf
		if x >= z.CenterX {
			cornerX = z.CenterX + innerHalf
		}
		cornerY := z.CenterY - innerHalf
		if y >= z.CenterY {
			cornerY = z.CenterY + innerHalf
		}
		dx, dy := x-cornerX, y-cornerY
		return dx*dx+dy*dy <= z.CornerRadius*z.CornerRadius
	default:
		return false
	}
}

// ContainsModule reports whether module (x, y)'s center — (x+0.5, y+0.5) —
// falls inside the zone, per spec §3's Logo Exclusion Zone definition.
func (z LogoZone) ContainsModule(x, y int) bool {
	return z.ContainsPoint(float64(x)+0.5, float64(y)+0.5)
}

// Area returns the zone's area in square module units.
func (z LogoZone) Area() float64 {
	switch z.Shape {
	case Square:
		return (2 * z.Size) * (2 * z.Size)
	case Circle:
		return math.Pi * z.Size * z.Size
	case RoundedSquare:
		squareArea := (2 * z.Size) * (2 * z.Size)
		cornerArea := 4*z.CornerRadius*z.CornerRadius - math.Pi*z.CornerRadius*z.CornerRadius
		return squareArea - cornerArea
	default:
		return 0
	}
}

// IsExcludable implements spec §8's module-exclusion invariant: a module is
// excluded from rendering iff it lies inside the logo zone and outside
// every untouchable zone.
func IsExcludable(x, y int, zone LogoZone, zones []zonemap.Zone) bool {
	if !zone.ContainsModule(x, y) {
		return false
	}
	for _, z := range zones {
		if z.Contains(x, y) {
			return false
		}
	}
	return true
}

// CountExcludableModules counts the excludable modules across an n x n
// matrix, used by the occlusion analyzer to derive occluded_modules.
func CountExcludableModules(n int, zone LogoZone, zones []zonemap.Zone) int {
	count := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if IsExcludable(x, y, zone, zones) {
				count++
			}
		}
	}
	return count
}
