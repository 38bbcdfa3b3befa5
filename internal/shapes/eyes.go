// Package shapes renders the finder-pattern eye border/center glyph table of
// spec §6.3: one SVG path generator per EyeBorderStyle (18 variants) and
// EyeCenterStyle (9 variants), plus the data-module pattern table of spec
// §3's data_pattern row.
package shapes

import (
	"fmt"
	"math"
	"strings"

	"github.com/qrengine/qrcodeengine/internal/model"
)

// Position names one of the QR matrix's three finder-pattern eyes.
type Position int8

const (
	TopLeft Position = iota
	TopRight
	BottomLeft
)

// Component distinguishes the 7x7 outer border from the 3x3 inner center.
type Component int8

const (
	Outer Component = iota
	Inner
)

// EyeRenderer turns an eye border/center style into an SVG <path>, sized in
// module units like the teacher's EyeShapeRenderer.
type EyeRenderer struct {
	ModuleSize float64
	QRModules  int // total module count across one side, for TopRight/BottomLeft offsets.
	QuietZone  int // added to every origin, matching the teacher's "region.x + quiet_zone".
}

// NewEyeRenderer returns a renderer for the given module pixel size, overall
// QR module count, and quiet zone width (in modules).
func NewEyeRenderer(moduleSize float64, qrModules int, quietZone int) EyeRenderer {
	return EyeRenderer{ModuleSize: moduleSize, QRModules: qrModules, QuietZone: quietZone}
}

// Origin returns the top-left pixel coordinate of the named eye's component,
// mirroring the teacher's get_eye_position/get_component_size split.
func (r EyeRenderer) Origin(pos Position, comp Component) (x, y float64) {
	offset := 0.0
	if comp == Inner {
		offset = 2.0 * r.ModuleSize
	}
	quiet := float64(r.QuietZone) * r.ModuleSize
	lastEye := float64(r.QRModules-7) * r.ModuleSize
	switch pos {
	case TopLeft:
		return quiet + offset, quiet + offset
	case TopRight:
		return quiet + lastEye + offset, quiet + offset
	case BottomLeft:
		return quiet + offset, quiet + lastEye + offset
	}
	return quiet + offset, quiet + offset
}

// Size returns the component's side length in pixels: 7 modules for the
// outer border, 3 for the inner center.
func (r EyeRenderer) Size(comp Component) float64 {
	if comp == Inner {
		return 3.0 * r.ModuleSize
	}
	return 7.0 * r.ModuleSize
}

// RenderBorder renders one EyeBorderStyle to an SVG <path> element.
func (r EyeRenderer) RenderBorder(style model.EyeBorderStyle, pos Position, color string) string {
	x, y := r.Origin(pos, Outer)
	size := r.Size(Outer)
	return pathElement(borderPath(style, x, y, size), color)
}

// RenderCenter renders one EyeCenterStyle to an SVG <path> element.
func (r EyeRenderer) RenderCenter(style model.EyeCenterStyle, pos Position, color string) string {
	x, y := r.Origin(pos, Inner)
	size := r.Size(Inner)
	return pathElement(centerPath(style, x, y, size), color)
}

// BorderPath returns the raw SVG path "d" data for one eye's outer border,
// without the wrapping <path> element, for the Structured Renderer.
func (r EyeRenderer) BorderPath(style model.EyeBorderStyle, pos Position) string {
	x, y := r.Origin(pos, Outer)
	return borderPath(style, x, y, r.Size(Outer))
}

// CenterPath returns the raw SVG path "d" data for one eye's inner center.
func (r EyeRenderer) CenterPath(style model.EyeCenterStyle, pos Position) string {
	x, y := r.Origin(pos, Inner)
	return centerPath(style, x, y, r.Size(Inner))
}

func pathElement(d, color string) string {
	return fmt.Sprintf(`<path d="%s" fill="%s" />`, d, color)
}

func borderPath(style model.EyeBorderStyle, x, y, size float64) string {
	switch style {
	case model.EyeBorderSquare:
		return squarePath(x, y, size)
	case model.EyeBorderRounded:
		return roundedSquarePath(x, y, size, size*0.2)
	case model.EyeBorderCircle:
		return circlePath(x+size/2, y+size/2, size/2)
	case model.EyeBorderQuarterRound:
		return quarterRoundPath(x, y, size)
	case model.EyeBorderCutCorner:
		return cutCornerPath(x, y, size)
	case model.EyeBorderThick:
		return thickFramePath(x, y, size, size*0.22)
	case model.EyeBorderDouble:
		return doubleFramePath(x, y, size)
	case model.EyeBorderDiamond:
		return diamondPath(x, y, size)
	case model.EyeBorderHexagon:
		return hexagonPath(x, y, size)
	case model.EyeBorderCross:
		return crossPath(x, y, size)
	case model.EyeBorderLeaf:
		return leafPath(x, y, size)
	case model.EyeBorderArrow:
		return arrowPath(x, y, size)
	case model.EyeBorderTeardrop:
		return heartPath(x, y, size)
	case model.EyeBorderWave:
		return wavePath(x, y, size)
	case model.EyeBorderPetal:
		return petalFramePath(x, y, size)
	case model.EyeBorderCrystal:
		return crystalPath(x, y, size)
	case model.EyeBorderFlame:
		return flamePath(x, y, size)
	case model.EyeBorderOrganic:
		return organicPath(x, y, size)
	default:
		return squarePath(x, y, size)
	}
}

func centerPath(style model.EyeCenterStyle, x, y, size float64) string {
	switch style {
	case model.EyeCenterSquare:
		return squarePath(x, y, size)
	case model.EyeCenterRoundedSquare:
		return roundedSquarePath(x, y, size, size*0.25)
	case model.EyeCenterCircle:
		return circlePath(x+size/2, y+size/2, size/2)
	case model.EyeCenterSquircle:
		return squirclePath(x, y, size)
	case model.EyeCenterDot:
		return circlePath(x+size/2, y+size/2, size*0.35)
	case model.EyeCenterStar:
		return starPath(x, y, size)
	case model.EyeCenterDiamond:
		return diamondPath(x, y, size)
	case model.EyeCenterCross:
		return crossPath(x, y, size)
	case model.EyeCenterPlus:
		return plusPath(x, y, size)
	default:
		return squarePath(x, y, size)
	}
}

// --- path primitives, ported from shapes/eyes.rs's format!-based builders ---

func squarePath(x, y, size float64) string {
	return fmt.Sprintf("M %.2f %.2f h %.2f v %.2f h -%.2f Z", x, y, size, size, size)
}

func roundedSquarePath(x, y, size, radius float64) string {
	w := size - 2*radius
	return fmt.Sprintf(
		"M %.2f %.2f h %.2f a %.2f %.2f 0 0 1 %.2f %.2f v %.2f a %.2f %.2f 0 0 1 -%.2f %.2f h -%.2f a %.2f %.2f 0 0 1 -%.2f -%.2f v -%.2f a %.2f %.2f 0 0 1 %.2f -%.2f Z",
		x+radius, y,
		w,
		radius, radius, radius, radius,
		w,
		radius, radius, radius, radius,
		w,
		radius, radius, radius, radius,
		w,
		radius, radius, radius, radius,
	)
}

func circlePath(cx, cy, r float64) string {
	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 1 0 %.2f %.2f A %.2f %.2f 0 1 0 %.2f %.2f Z",
		cx-r, cy, r, r, cx+r, cy, r, r, cx-r, cy)
}

// quarterRoundPath rounds only the top-left corner, leaving the rest square.
func quarterRoundPath(x, y, size float64) string {
	radius := size * 0.35
	return fmt.Sprintf(
		"M %.2f %.2f a %.2f %.2f 0 0 1 %.2f -%.2f h %.2f v %.2f h -%.2f Z",
		x, y+radius, radius, radius, radius, radius, size-radius, size, size,
	)
}

// cutCornerPath chamfers the top-left corner.
func cutCornerPath(x, y, size float64) string {
	cut := size * 0.3
	return fmt.Sprintf(
		"M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f Z",
		x+cut, y, x+size, y, x+size, y+size, x, y+size, x, y+cut,
	)
}

// thickFramePath is a square outer ring with the inner square cut out: the
// inner subpath winds opposite to the outer one, so the default nonzero fill
// rule leaves a hollow border of the given width.
func thickFramePath(x, y, size, width float64) string {
	inner := size - 2*width
	return fmt.Sprintf(
		"M %.2f %.2f h %.2f v %.2f h -%.2f Z M %.2f %.2f v %.2f h %.2f v -%.2f Z",
		x, y, size, size, size,
		x+width, y+width, inner, inner, inner,
	)
}

// doubleFramePath draws two concentric square rings.
func doubleFramePath(x, y, size float64) string {
	outer := thickFramePath(x, y, size, size*0.12)
	gap := size * 0.22
	inner := thickFramePath(x+gap, y+gap, size-2*gap, size*0.1)
	return outer + " " + inner
}

func diamondPath(x, y, size float64) string {
	cx, cy := x+size/2, y+size/2
	return fmt.Sprintf("M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f Z",
		cx, y, x+size, cy, cx, y+size, x, cy)
}

func hexagonPath(x, y, size float64) string {
	cx, cy, r := x+size/2, y+size/2, size/2
	var sb strings.Builder
	for i := 0; i < 6; i++ {
		angle := (float64(i)*60 - 30) * math.Pi / 180
		px, py := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
		if i == 0 {
			fmt.Fprintf(&sb, "M %.2f %.2f", px, py)
		} else {
			fmt.Fprintf(&sb, " L %.2f %.2f", px, py)
		}
	}
	sb.WriteString(" Z")
	return sb.String()
}

func crossPath(x, y, size float64) string {
	thickness := size / 3
	offset := (size - thickness) / 2
	return fmt.Sprintf(
		"M %.2f %.2f h %.2f v %.2f h %.2f v %.2f h -%.2f v %.2f h -%.2f v -%.2f h -%.2f v -%.2f h %.2f Z",
		x+offset, y, thickness, offset, offset, thickness, offset, offset, thickness, offset, thickness, thickness, offset,
	)
}

func plusPath(x, y, size float64) string {
	return crossPath(x, y, size)
}

func leafPath(x, y, size float64) string {
	cx, cy := x+size/2, y+size/2
	return fmt.Sprintf(
		"M %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Z",
		cx, y,
		x+size*0.8, y+size*0.2, x+size, cy,
		x+size*0.8, y+size*0.8, cx, y+size,
		x+size*0.2, y+size*0.8, x, cy,
		x+size*0.2, y+size*0.2, cx, y,
	)
}

func arrowPath(x, y, size float64) string {
	cx := x + size/2
	arrowWidth := size * 0.6
	arrowOffset := (size - arrowWidth) / 2
	return fmt.Sprintf(
		"M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f Z",
		cx, y,
		x+size, y+size*0.5,
		x+size-arrowOffset, y+size*0.5,
		x+size-arrowOffset, y+size,
		x+arrowOffset, y+size,
		x+arrowOffset, y+size*0.5,
		x, y+size*0.5,
	)
}

func heartPath(x, y, size float64) string {
	cx := x + size/2
	cy := y + size*0.45
	r := size * 0.25
	return fmt.Sprintf(
		"M %.2f %.2f A %.2f %.2f 0 0 1 %.2f %.2f A %.2f %.2f 0 0 1 %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Z",
		cx, cy,
		r, r, cx-r, cy-r,
		r, r, cx, cy,
		cx, y+size*0.8, cx, y+size,
		cx, y+size*0.8, cx, cy,
	)
}

// wavePath draws a sinusoidal top edge over an otherwise square frame.
func wavePath(x, y, size float64) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "M %.2f %.2f", x, y+size*0.15)
	for i := 1; i <= 4; i++ {
		px := x + size*float64(i)/4
		py := y + size*0.15*float64(1-2*(i%2))
		fmt.Fprintf(&sb, " Q %.2f %.2f %.2f %.2f", px-size/8, y, px, py)
	}
	fmt.Fprintf(&sb, " v %.2f h -%.2f Z", size*0.85, size)
	return sb.String()
}

// petalFramePath rounds all four corners deeply, like a four-petal blossom
// outline, reusing the rounded-square builder with a larger radius ratio.
func petalFramePath(x, y, size float64) string {
	return roundedSquarePath(x, y, size, size*0.45)
}

func crystalPath(x, y, size float64) string {
	cx := x + size/2
	topWidth := size * 0.6
	topOffset := (size - topWidth) / 2
	return fmt.Sprintf(
		"M %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f L %.2f %.2f Z",
		x+topOffset, y,
		x+topOffset+topWidth, y,
		x+size, y+size*0.3,
		cx, y+size,
		x, y+size*0.3,
	)
}

// flamePath tapers to a point at the top, widening toward the base.
func flamePath(x, y, size float64) string {
	cx := x + size/2
	return fmt.Sprintf(
		"M %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Z",
		cx, y,
		x+size*0.9, y+size*0.3, x+size*0.75, y+size*0.6,
		x+size*0.6, y+size*0.85, cx, y+size,
		x+size*0.4, y+size*0.85, x+size*0.25, y+size*0.6,
		x+size*0.1, y+size*0.3, cx, y,
	)
}

// organicPath is an irregular rounded blob built from four unequal arcs.
func organicPath(x, y, size float64) string {
	cx, cy := x+size/2, y+size/2
	return fmt.Sprintf(
		"M %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Q %.2f %.2f %.2f %.2f Z",
		x, cy-size*0.1,
		x+size*0.1, y, cx, y+size*0.05,
		x+size*0.95, y+size*0.15, x+size, cy,
		x+size*0.9, y+size*0.95, cx, y+size-size*0.05,
		x+size*0.05, y+size*0.9, x, cy-size*0.1,
	)
}

func squirclePath(x, y, size float64) string {
	return roundedSquarePath(x, y, size, size*0.38)
}

func starPath(x, y, size float64) string {
	cx, cy := x+size/2, y+size/2
	outerR, innerR := size/2, size/4
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		angle := (float64(i)*36 - 90) * math.Pi / 180
		r := outerR
		if i%2 != 0 {
			r = innerR
		}
		px, py := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
		if i == 0 {
			fmt.Fprintf(&sb, "M %.2f %.2f", px, py)
		} else {
			fmt.Fprintf(&sb, " L %.2f %.2f", px, py)
		}
	}
	sb.WriteString(" Z")
	return sb.String()
}
