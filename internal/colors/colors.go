// Package colors parses and validates the hex colors of the Customization
// Record's colors/gradient/logo fields (spec §3), and checks WCAG AA
// contrast between foreground and background (spec §7
// InsufficientContrast).
package colors

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/qrengine/qrcodeengine/internal/qrerr"
)

const defaultMinContrastRatio = 4.5 // WCAG AA.

// Parse converts a "#rrggbb" string into a colorful.Color, wrapping the
// library's parse error into the engine's error taxonomy.
func Parse(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, &qrerr.ValidationError{Message: "invalid hex color: " + hex}
	}
	return c, nil
}

// ToHex formats c as "#rrggbb".
func ToHex(c colorful.Color) string {
	return c.Hex()
}

// RelativeLuminance computes the WCAG 2.0 relative luminance of c. This is
// not a go-colorful primitive: the library exposes CIE Lab/Luv distances,
// not the sRGB gamma-corrected Y channel WCAG contrast requires.
func RelativeLuminance(c colorful.Color) float64 {
	return 0.2126*gammaCorrect(c.R) + 0.7152*gammaCorrect(c.G) + 0.0722*gammaCorrect(c.B)
}

func gammaCorrect(channel float64) float64 {
	if channel <= 0.03928 {
		return channel / 12.92
	}
	return math.Pow((channel+0.055)/1.055, 2.4)
}

// ContrastRatio computes the WCAG contrast ratio between two colors:
// (lighter + 0.05) / (darker + 0.05).
func ContrastRatio(c1, c2 colorful.Color) float64 {
	l1, l2 := RelativeLuminance(c1), RelativeLuminance(c2)
	lighter, darker := l1, l2
	if l2 > l1 {
		lighter, darker = l2, l1
	}
	return (lighter + 0.05) / (darker + 0.05)
}

// BlendColors linearly interpolates from c1 to c2 by ratio (clamped to
// [0, 1]), delegating to go-colorful's RGB blend.
func BlendColors(c1, c2 colorful.Color, ratio float64) colorful.Color {
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	return c1.BlendRgb(c2, ratio)
}

// AdjustBrightness scales each RGB channel by factor (clamped to [0, 2],
// result clamped to [0, 1]).
func AdjustBrightness(c colorful.Color, factor float64) colorful.Color {
	if factor < 0 {
		factor = 0
	} else if factor > 2 {
		factor = 2
	}
	return colorful.Color{R: clamp01(c.R * factor), G: clamp01(c.G * factor), B: clamp01(c.B * factor)}
}

// AdjustSaturation scales the HSL saturation channel by factor (clamped to
// [0, 2], result clamped to [0, 1]), using go-colorful's HSL round-trip.
func AdjustSaturation(c colorful.Color, factor float64) colorful.Color {
	if factor < 0 {
		factor = 0
	} else if factor > 2 {
		factor = 2
	}
	h, s, l := c.Hsl()
	s = clamp01(s * factor)
	return colorful.Hsl(h, s, l)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Validator checks foreground/background pairs for scan-safe contrast.
type Validator struct {
	MinContrastRatio float64
}

// NewValidator returns a Validator using the WCAG AA 4.5:1 minimum.
func NewValidator() Validator {
	return Validator{MinContrastRatio: defaultMinContrastRatio}
}

// ValidateContrast reports the pair's contrast ratio, failing with
// InsufficientContrast below the configured minimum.
func (v Validator) ValidateContrast(c1, c2 colorful.Color) (float64, error) {
	ratio := ContrastRatio(c1, c2)
	if ratio < v.MinContrastRatio {
		return ratio, &qrerr.InsufficientContrast{Ratio: ratio, Min: v.MinContrastRatio}
	}
	return ratio, nil
}

// ValidateQRColors checks both the contrast ratio and that the foreground
// is darker than the background, which scanners rely on.
func (v Validator) ValidateQRColors(foreground, background colorful.Color) error {
	if _, err := v.ValidateContrast(foreground, background); err != nil {
		return err
	}
	if RelativeLuminance(foreground) > RelativeLuminance(background) {
		return &qrerr.ValidationError{Message: "foreground must be darker than background for reliable scanning"}
	}
	return nil
}

// SuggestBackground proposes white for a dark foreground, black for a light
// one.
func SuggestBackground(foreground colorful.Color) colorful.Color {
	if RelativeLuminance(foreground) < 0.5 {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return colorful.Color{R: 0, G: 0, B: 0}
}

// AutoAdjustColors nudges foreground darker and background lighter in up to
// ten 5% steps until the pair clears the minimum contrast ratio (or no
// further step improves on the best ratio found).
func (v Validator) AutoAdjustColors(foreground, background colorful.Color) (colorful.Color, colorful.Color) {
	current := ContrastRatio(foreground, background)
	if current >= v.MinContrastRatio {
		return foreground, background
	}

	fg, bg, best := foreground, background, current
	for i := 1; i <= 10; i++ {
		step := float64(i) * 0.05
		testFg := AdjustBrightness(foreground, 1.0-step)
		testBg := AdjustBrightness(background, 1.0+step)
		testRatio := ContrastRatio(testFg, testBg)
		if testRatio > best {
			fg, bg, best = testFg, testBg, testRatio
			if best >= v.MinContrastRatio {
				break
			}
		}
	}
	return fg, bg
}
