package shapes

import (
	"fmt"

	"github.com/qrengine/qrcodeengine/internal/model"
)

// PatternRenderer renders one dark module as an SVG fragment in one of the
// 13 DataPattern glyphs (spec §3's data_pattern row).
type PatternRenderer struct {
	ModuleSize float64
}

// NewPatternRenderer returns a renderer for the given module pixel size.
func NewPatternRenderer(moduleSize float64) PatternRenderer {
	return PatternRenderer{ModuleSize: moduleSize}
}

// RenderModule renders the module at matrix column x, row y.
func (r PatternRenderer) RenderModule(pattern model.DataPattern, x, y int, color string) string {
	xPos := float64(x) * r.ModuleSize
	yPos := float64(y) * r.ModuleSize
	size := r.ModuleSize

	switch pattern {
	case model.DataPatternSquare:
		return renderSquareModule(xPos, yPos, size, color)
	case model.DataPatternSquareSmall:
		return renderSquareSmallModule(xPos, yPos, size, color)
	case model.DataPatternDots:
		return renderDotModule(xPos, yPos, size, color)
	case model.DataPatternRounded:
		return renderRoundedModule(xPos, yPos, size, color)
	case model.DataPatternVertical:
		return renderVerticalModule(xPos, yPos, size, color)
	case model.DataPatternHorizontal:
		return renderHorizontalModule(xPos, yPos, size, color)
	case model.DataPatternDiamond:
		return renderDiamondModule(xPos, yPos, size, color)
	case model.DataPatternCircular:
		return renderCircularModule(xPos, yPos, size, color)
	case model.DataPatternStar:
		return renderStarModule(xPos, yPos, size, color)
	case model.DataPatternCross:
		return renderCrossModule(xPos, yPos, size, color)
	case model.DataPatternRandom:
		return renderRandomModule(xPos, yPos, size, color, x, y)
	case model.DataPatternWave:
		return renderWaveModule(xPos, yPos, size, color)
	case model.DataPatternMosaic:
		return renderMosaicModule(xPos, yPos, size, color, x, y)
	default:
		return renderSquareModule(xPos, yPos, size, color)
	}
}

// IsEyeArea reports whether module (x, y) of a matrixSize x matrixSize grid
// falls inside one of the three 7x7 finder-pattern footprints.
func (r PatternRenderer) IsEyeArea(x, y, matrixSize int) bool {
	const eyeSize = 7
	if x < eyeSize && y < eyeSize {
		return true
	}
	if x >= matrixSize-eyeSize && y < eyeSize {
		return true
	}
	if x < eyeSize && y >= matrixSize-eyeSize {
		return true
	}
	return false
}

func renderSquareModule(x, y, size float64, color string) string {
	return fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" />`, x, y, size, size, color)
}

func renderSquareSmallModule(x, y, size float64, color string) string {
	small := size * 0.8
	offset := (size - small) / 2
	return fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" />`, x+offset, y+offset, small, small, color)
}

func renderDotModule(x, y, size float64, color string) string {
	radius := size * 0.4
	cx, cy := x+size/2, y+size/2
	return fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" />`, cx, cy, radius, color)
}

func renderRoundedModule(x, y, size float64, color string) string {
	radius := size * 0.25
	return fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" ry="%.2f" fill="%s" />`, x, y, size, size, radius, radius, color)
}

func renderVerticalModule(x, y, size float64, color string) string {
	width := size * 0.6
	offset := (size - width) / 2
	return fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" />`, x+offset, y, width, size, color)
}

func renderHorizontalModule(x, y, size float64, color string) string {
	height := size * 0.6
	offset := (size - height) / 2
	return fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" />`, x, y+offset, size, height, color)
}

func renderDiamondModule(x, y, size float64, color string) string {
	cx, cy := x+size/2, y+size/2
	half := size * 0.52
	return fmt.Sprintf(`<path d="M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f Z" fill="%s" />`,
		cx, cy-half, cx+half, cy, cx, cy+half, cx-half, cy, color)
}

func renderCircularModule(x, y, size float64, color string) string {
	cx, cy := x+size/2, y+size/2
	outerR, innerR := size*0.45, size*0.2
	return fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" />
<circle cx="%.2f" cy="%.2f" r="%.2f" fill="white" />`, cx, cy, outerR, color, cx, cy, innerR)
}

func renderStarModule(x, y, size float64, color string) string {
	return fmt.Sprintf(`<path d="%s" fill="%s" />`, starPath(x, y, size), color)
}

func renderCrossModule(x, y, size float64, color string) string {
	thickness := size * 0.3
	length := size * 0.8
	offset := (size - length) / 2
	crossOffset := (size - thickness) / 2
	return fmt.Sprintf(`<path d="M %.2f %.2f h %.2f v %.2f h -%.2f Z M %.2f %.2f v %.2f h %.2f v -%.2f Z" fill="%s" />`,
		x+offset, y+crossOffset, length, thickness, length,
		x+crossOffset, y+offset, length, thickness, length, color)
}

// renderRandomModule picks among dot/rounded/diamond/square by a
// position-derived pseudo-random variant, matching the teacher's
// deterministic (not time-seeded) "random" pattern.
func renderRandomModule(x, y, size float64, color string, gridX, gridY int) string {
	variant := (gridX*7 + gridY*13) % 4
	switch variant {
	case 0:
		return renderDotModule(x, y, size, color)
	case 1:
		return renderRoundedModule(x, y, size, color)
	case 2:
		return renderDiamondModule(x, y, size, color)
	default:
		return renderSquareModule(x, y, size, color)
	}
}

func renderWaveModule(x, y, size float64, color string) string {
	waveHeight := size * 0.3
	cy := y + size/2
	return fmt.Sprintf(`<path d="M %.2f %.2f Q %.2f %.2f %.2f %.2f T %.2f %.2f L %.2f %.2f L %.2f %.2f Z" fill="%s" />`,
		x, cy-waveHeight/2,
		x+size*0.25, cy-waveHeight,
		x+size*0.5, cy-waveHeight/2,
		x+size, cy-waveHeight/2,
		x+size, cy+waveHeight/2,
		x, cy+waveHeight/2,
		color)
}

func renderMosaicModule(x, y, size float64, color string, gridX, gridY int) string {
	if (gridX+gridY)%2 == 0 {
		half := size / 2
		return fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" />
<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" />`,
			x, y, half, half, color, x+half, y+half, half, half, color)
	}
	cx, cy := x+size/2, y+size/2
	r := size * 0.35
	return fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s" stroke-width="%.2f" />`,
		cx, cy, r, color, size*0.15)
}
