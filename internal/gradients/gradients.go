// Package gradients implements the Customizer's gradient materialization of
// spec §4.6: mapping a customization's stop list to a Gradient{id,
// svg_definition, fill_reference} structured definition (spec §4.7
// definitions section).
package gradients

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/qrengine/qrcodeengine/internal/colors"
	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/qrengine/qrcodeengine/internal/qrerr"
)

const maxStops = 5

// Stop is one color stop at a fractional position in [0, 1].
type Stop struct {
	Color    colorful.Color
	Position float64
}

// Gradient is the materialized definitions-section entry (spec §4.7).
type Gradient struct {
	ID            string
	Type          model.GradientType
	SVGDefinition string
	FillReference string
}

// Builder issues sequential gradient IDs, mirroring the teacher's
// counter-per-processor-instance pattern so IDs stay stable within one
// render but never collide across concurrent requests sharing no Builder.
type Builder struct {
	counter uint64
}

// NewBuilder returns a Builder starting its ID sequence at 0.
func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) nextID() string {
	n := atomic.AddUint64(&b.counter, 1) - 1
	return fmt.Sprintf("qr_gradient_%d", n)
}

// Build materializes opts into a Gradient. canvasSize, when non-nil, emits
// absolute user-space coordinates instead of percentages so the gradient
// does not tile across per-module fills (spec §4.6).
func (b *Builder) Build(opts model.GradientOptions, canvasSize *int) (Gradient, error) {
	if len(opts.Colors) == 0 {
		return Gradient{}, &qrerr.ValidationError{Message: "gradient requires at least one color stop"}
	}
	if len(opts.Colors) > maxStops {
		return Gradient{}, &qrerr.ValidationError{Message: fmt.Sprintf("gradient has %d stops, max %d", len(opts.Colors), maxStops)}
	}

	stops, err := parseStops(opts.Colors)
	if err != nil {
		return Gradient{}, err
	}

	id := b.nextID()
	var svgDef string
	switch opts.Type {
	case model.GradientLinear:
		angle := 0.0
		if opts.Angle != nil {
			angle = *opts.Angle
		}
		svgDef = linearSVG(id, stops, angle, canvasSize)
	case model.GradientRadial:
		svgDef = radialSVG(id, stops, 0.5, 0.5, 0.5, canvasSize)
	case model.GradientDiamond:
		svgDef = diamondSVG(id, stops, canvasSize)
	case model.GradientConic:
		svgDef = conicSVG(id, stops, 0, canvasSize)
	case model.GradientSpiral:
		// A spiral is approximated the same way as conic (a multi-stop
		// radial) plus a fixed 35-degree gradientTransform rotation that
		// sets it apart from conic, matching spec §4.6's "approximated by a
		// multi-stop radial" guidance for angular gradient types.
		svgDef = conicSVG(id, stops, 35, canvasSize)
	default:
		return Gradient{}, &qrerr.ValidationError{Message: "unknown gradient type"}
	}

	return Gradient{
		ID:            id,
		Type:          opts.Type,
		SVGDefinition: svgDef,
		FillReference: fmt.Sprintf("url(#%s)", id),
	}, nil
}

func parseStops(hexColors []string) ([]Stop, error) {
	stops := make([]Stop, len(hexColors))
	denom := float64(len(hexColors) - 1)
	for i, hex := range hexColors {
		c, err := colors.Parse(hex)
		if err != nil {
			return nil, err
		}
		pos := 0.0
		if denom > 0 {
			pos = float64(i) / denom
		}
		stops[i] = Stop{Color: c, Position: pos}
	}
	return stops, nil
}

// linearCoords computes the (x1,y1,x2,y2) fractional endpoints so the
// gradient stripe covers the full bounding box at the given angle (spec
// §4.6), reusing the teacher source's exact trigonometric construction.
func linearCoords(angleDeg float64) (x1, y1, x2, y2 float64) {
	rad := angleDeg * math.Pi / 180
	cosA, sinA := math.Cos(rad), math.Sin(rad)

	if math.Abs(cosA) > math.Abs(sinA) {
		if cosA > 0 {
			return 0, 0.5 - 0.5*sinA/cosA, 1, 0.5 + 0.5*sinA/cosA
		}
		return 1, 0.5 + 0.5*sinA/cosA, 0, 0.5 - 0.5*sinA/cosA
	}
	if sinA > 0 {
		return 0.5 - 0.5*cosA/sinA, 0, 0.5 + 0.5*cosA/sinA, 1
	}
	return 0.5 + 0.5*cosA/sinA, 1, 0.5 - 0.5*cosA/sinA, 0
}

func stopElements(stops []Stop) string {
	var b strings.Builder
	for _, s := range stops {
		fmt.Fprintf(&b, `<stop offset="%.1f%%" style="stop-color:%s;stop-opacity:1" />`+"\n", s.Position*100, colors.ToHex(s.Color))
	}
	return strings.TrimRight(b.String(), "\n")
}

func linearSVG(id string, stops []Stop, angle float64, canvasSize *int) string {
	x1, y1, x2, y2 := linearCoords(angle)
	if canvasSize != nil {
		size := float64(*canvasSize)
		return fmt.Sprintf(`<linearGradient id="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" gradientUnits="userSpaceOnUse">
%s
</linearGradient>`, id, x1*size, y1*size, x2*size, y2*size, stopElements(stops))
	}
	return fmt.Sprintf(`<linearGradient id="%s" x1="%.2f%%" y1="%.2f%%" x2="%.2f%%" y2="%.2f%%">
%s
</linearGradient>`, id, x1*100, y1*100, x2*100, y2*100, stopElements(stops))
}

func radialSVG(id string, stops []Stop, cx, cy, radius float64, canvasSize *int) string {
	if canvasSize != nil {
		size := float64(*canvasSize)
		return fmt.Sprintf(`<radialGradient id="%s" cx="%.2f" cy="%.2f" r="%.2f" gradientUnits="userSpaceOnUse">
%s
</radialGradient>`, id, cx*size, cy*size, radius*size, stopElements(stops))
	}
	return fmt.Sprintf(`<radialGradient id="%s" cx="%.2f%%" cy="%.2f%%" r="%.2f%%">
%s
</radialGradient>`, id, cx*100, cy*100, radius*100, stopElements(stops))
}

// diamondSVG approximates a diamond gradient with a 45-degree-rotated,
// non-uniformly-scaled radial gradient (spec §4.6: "Diamond uses a rotated
// scaled radial").
func diamondSVG(id string, stops []Stop, canvasSize *int) string {
	if canvasSize != nil {
		size := float64(*canvasSize)
		center := size / 2
		return fmt.Sprintf(`<radialGradient id="%s" cx="%.2f" cy="%.2f" r="%.2f" gradientUnits="userSpaceOnUse" gradientTransform="scale(1, 0.5) rotate(45, %.2f, %.2f)">
%s
</radialGradient>`, id, center, center, center*math.Sqrt2, center, center, stopElements(stops))
	}
	return fmt.Sprintf(`<radialGradient id="%s" cx="50%%" cy="50%%" r="50%%" gradientUnits="objectBoundingBox" gradientTransform="scale(1.414, 1) rotate(45, 0.5, 0.5)">
%s
</radialGradient>`, id, stopElements(stops))
}

// conicSVG approximates a conic (or, with a nonzero rotationDeg, spiral)
// gradient with a multi-stop radial (spec §4.6).
func conicSVG(id string, stops []Stop, rotationDeg float64, canvasSize *int) string {
	if canvasSize != nil {
		center := float64(*canvasSize) / 2
		transform := ""
		if rotationDeg != 0 {
			transform = fmt.Sprintf(` gradientTransform="rotate(%.1f, %.2f, %.2f)"`, rotationDeg, center, center)
		}
		return fmt.Sprintf(`<radialGradient id="%s" cx="%.2f" cy="%.2f" r="%.2f" gradientUnits="userSpaceOnUse"%s>
%s
</radialGradient>`, id, center, center, center, transform, stopElements(stops))
	}
	transform := ""
	if rotationDeg != 0 {
		transform = fmt.Sprintf(` gradientTransform="rotate(%.1f, 0.5, 0.5)"`, rotationDeg)
	}
	return fmt.Sprintf(`<radialGradient id="%s" cx="50%%" cy="50%%"%s>
%s
</radialGradient>`, id, transform, stopElements(stops))
}

// ValidateContrast checks the gradient's first and last stops against a
// background color, matching spec §4.6/§7's contrast requirement applied
// to gradient endpoints.
func ValidateContrast(first, last, background colorful.Color, minRatio float64) error {
	startRatio := colors.ContrastRatio(first, background)
	endRatio := colors.ContrastRatio(last, background)
	if startRatio < minRatio || endRatio < minRatio {
		found := math.Min(startRatio, endRatio)
		return &qrerr.InsufficientContrast{Ratio: found, Min: minRatio}
	}
	return nil
}
