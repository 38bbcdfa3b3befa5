// Package model defines the Customization Record and request/response shapes
// of spec §3, shared by the router, customizer, renderer, and cache. Every
// enumerated option is a tagged variant (a small int8 type with exhaustive
// switches downstream) rather than a class hierarchy, per spec §9's
// module-level-polymorphism note.
package model

import "github.com/qrengine/qrcodeengine/internal/qrencode"

// OutputFormat selects between a flat SVG string and the Enhanced
// structured tree (spec §4.7).
type OutputFormat int8

const (
	OutputSVG OutputFormat = iota
	OutputStructured
)

// Request is the engine facade's single input (spec §5/§9): a payload, a
// target pixel size, the desired output shape, and an optional
// customization record.
type Request struct {
	Data          string
	Size          int
	Format        OutputFormat
	Customization *Customization
}

// EyeShape is the legacy, unified eye-shape field. Normalize folds it into
// EyeBorderStyle/EyeCenterStyle at request ingress (spec §9 Open Question:
// "when both set, the separated form wins").
type EyeShape int8

const (
	EyeShapeSquare EyeShape = iota
	EyeShapeRoundedSquare
	EyeShapeCircle
	EyeShapeDot
	EyeShapeLeaf
	EyeShapeBarsHorizontal
	EyeShapeBarsVertical
	EyeShapeStar
	EyeShapeDiamond
	EyeShapeCross
	EyeShapeHexagon
	EyeShapeHeart
	EyeShapeShield
	EyeShapeCrystal
	EyeShapeFlower
	EyeShapeArrow
)

// EyeBorderStyle is the outline shape of the 7x7 finder marker (spec §3's
// eye_border_style row — 18 variants).
type EyeBorderStyle int8

const (
	EyeBorderSquare EyeBorderStyle = iota
	EyeBorderRounded
	EyeBorderCircle
	EyeBorderQuarterRound
	EyeBorderCutCorner
	EyeBorderThick
	EyeBorderDouble
	EyeBorderDiamond
	EyeBorderHexagon
	EyeBorderCross
	EyeBorderLeaf
	EyeBorderArrow
	EyeBorderTeardrop
	EyeBorderWave
	EyeBorderPetal
	EyeBorderCrystal
	EyeBorderFlame
	EyeBorderOrganic
)

// fromLegacyBorder maps the legacy EyeShape to its nearest EyeBorderStyle
// equivalent, used only when the caller sets eye_shape and no eye_border_style.
var fromLegacyBorder = map[EyeShape]EyeBorderStyle{
	EyeShapeSquare:        EyeBorderSquare,
	EyeShapeRoundedSquare: EyeBorderRounded,
	EyeShapeCircle:        EyeBorderCircle,
	EyeShapeDot:           EyeBorderCircle,
	EyeShapeLeaf:          EyeBorderLeaf,
	EyeShapeBarsHorizontal: EyeBorderThick,
	EyeShapeBarsVertical:   EyeBorderThick,
	EyeShapeStar:          EyeBorderSquare,
	EyeShapeDiamond:       EyeBorderDiamond,
	EyeShapeCross:         EyeBorderCross,
	EyeShapeHexagon:       EyeBorderHexagon,
	EyeShapeHeart:         EyeBorderTeardrop,
	EyeShapeShield:        EyeBorderRounded,
	EyeShapeCrystal:       EyeBorderCrystal,
	EyeShapeFlower:        EyeBorderPetal,
	EyeShapeArrow:         EyeBorderArrow,
}

// fromLegacyCenter maps the legacy EyeShape to its nearest EyeCenterStyle
// equivalent.
var fromLegacyCenter = map[EyeShape]EyeCenterStyle{
	EyeShapeSquare:        EyeCenterSquare,
	EyeShapeRoundedSquare: EyeCenterRoundedSquare,
	EyeShapeCircle:        EyeCenterCircle,
	EyeShapeDot:           EyeCenterDot,
	EyeShapeLeaf:          EyeCenterSquircle,
	EyeShapeBarsHorizontal: EyeCenterSquare,
	EyeShapeBarsVertical:   EyeCenterSquare,
	EyeShapeStar:          EyeCenterStar,
	EyeShapeDiamond:       EyeCenterDiamond,
	EyeShapeCross:         EyeCenterCross,
	EyeShapeHexagon:       EyeCenterSquircle,
	EyeShapeHeart:         EyeCenterDot,
	EyeShapeShield:        EyeCenterSquircle,
	EyeShapeCrystal:       EyeCenterSquircle,
	EyeShapeFlower:        EyeCenterStar,
	EyeShapeArrow:         EyeCenterPlus,
}

// EyeCenterStyle is the inner 3x3 marker shape (spec §3 — 9 variants).
type EyeCenterStyle int8

const (
	EyeCenterSquare EyeCenterStyle = iota
	EyeCenterRoundedSquare
	EyeCenterCircle
	EyeCenterSquircle
	EyeCenterDot
	EyeCenterStar
	EyeCenterDiamond
	EyeCenterCross
	EyeCenterPlus
)

// DataPattern is the data-module glyph (spec §3 — 13 variants).
type DataPattern int8

const (
	DataPatternSquare DataPattern = iota
	DataPatternSquareSmall
	DataPatternDots
	DataPatternRounded
	DataPatternVertical
	DataPatternHorizontal
	DataPatternDiamond
	DataPatternCircular
	DataPatternStar
	DataPatternCross
	DataPatternRandom
	DataPatternWave
	DataPatternMosaic
)

// ColorOptions is the foreground/background pair plus optional per-eye
// overrides.
type ColorOptions struct {
	Foreground string
	Background string
	EyeColors  *EyeColors
}

type EyeColors struct {
	Outer         *string
	Inner         *string
	OuterGradient *GradientOptions
	InnerGradient *GradientOptions
	PerEye        *PerEyeColors
}

type PerEyeColors struct {
	TopLeft     *EyeColorPair
	TopRight    *EyeColorPair
	BottomLeft  *EyeColorPair
}

type EyeColorPair struct {
	Outer string
	Inner string
}

// GradientType selects the gradient's coordinate/fill construction (spec
// §4.6).
type GradientType int8

const (
	GradientLinear GradientType = iota
	GradientRadial
	GradientConic
	GradientDiamond
	GradientSpiral
)

// GradientOptions is the customization's gradient descriptor (spec §3).
type GradientOptions struct {
	Enabled      bool
	Type         GradientType
	Colors       []string // Ordered stops, <= 5.
	Angle        *float64 // Degrees; linear only.
	ApplyToEyes  bool
	ApplyToData  bool
	PerModule    bool
	Stroke       *StrokeStyle
}

type StrokeStyle struct {
	Enabled bool
	Color   *string
	Width   *float64
	Opacity *float64
}

// LogoShape is the clipping shape applied to an embedded logo.
type LogoShape int8

const (
	LogoSquare LogoShape = iota
	LogoCircle
	LogoRoundedSquare
)

// LogoOptions is the customization's embedded-logo descriptor (spec §3,
// §4.6).
type LogoOptions struct {
	Data           string // base64 or data-URL payload.
	SizePercentage float64
	Padding        int // In modules.
	Background     *string
	Shape          LogoShape
}

// FrameType is the decorative frame kind (spec §3 — 5 variants).
type FrameType int8

const (
	FrameSimple FrameType = iota
	FrameRounded
	FrameBubble
	FrameSpeech
	FrameBadge
)

type TextPosition int8

const (
	TextTop TextPosition = iota
	TextBottom
	TextLeft
	TextRight
)

// FrameOptions is the customization's frame descriptor.
type FrameOptions struct {
	Type         FrameType
	Text         *string
	Color        string
	TextPosition TextPosition
}

// EffectType is one of the ten filter-primitive effects of spec §6.2.
type EffectType int8

const (
	EffectShadow EffectType = iota
	EffectGlow
	EffectBlur
	EffectNoise
	EffectVintage
	EffectDistort
	EffectEmboss
	EffectOutline
	EffectDropShadow
	EffectInnerShadow
)

// EffectParams is the tagged-variant payload for one EffectOptions entry;
// each effect type has exactly one concrete implementer below.
type EffectParams interface {
	isEffectParams()
}

type ShadowParams struct {
	OffsetX, OffsetY *float64
	BlurRadius       *float64
	Color            *string
	Opacity          *float64
}

type GlowParams struct {
	Intensity *float64
	Color     *string
}

type BlurParams struct {
	Radius *float64
}

type NoiseParams struct {
	Intensity *float64
}

type VintageParams struct {
	SepiaIntensity    *float64
	VignetteIntensity *float64
}

type DistortParams struct {
	Strength  *float64
	Frequency *float64
	Direction *string // "horizontal" | "vertical" | "radial"
}

type EmbossParams struct {
	Height    *float64
	Direction *float64 // Degrees.
	Strength  *float64
}

type OutlineParams struct {
	Width   *float64
	Color   *string
	Opacity *float64
}

type DropShadowParams struct {
	OffsetX, OffsetY *float64
	BlurRadius       *float64
	SpreadRadius     *float64
	Color            *string
	Opacity          *float64
}

type InnerShadowParams struct {
	OffsetX, OffsetY *float64
	BlurRadius       *float64
	Color            *string
	Opacity          *float64
}

func (ShadowParams) isEffectParams()      {}
func (GlowParams) isEffectParams()        {}
func (BlurParams) isEffectParams()        {}
func (NoiseParams) isEffectParams()       {}
func (VintageParams) isEffectParams()     {}
func (DistortParams) isEffectParams()     {}
func (EmbossParams) isEffectParams()      {}
func (OutlineParams) isEffectParams()     {}
func (DropShadowParams) isEffectParams()  {}
func (InnerShadowParams) isEffectParams() {}

// EffectOptions pairs an effect type tag with its typed parameters.
type EffectOptions struct {
	Type   EffectType
	Params EffectParams
}

// Component names a render group effects/gradients can scope to (spec
// §4.6's selective effects).
type Component int8

const (
	ComponentEyes Component = iota
	ComponentData
	ComponentFrame
	ComponentGlobal
)

// ScopedEffect is one entry of a SelectiveEffects component list: an effect
// plus its blend mode and render priority.
type ScopedEffect struct {
	Effect    EffectOptions
	BlendMode string
	Priority  int
}

// SelectiveEffects groups per-component effect lists (spec §3,
// selective_effects row).
type SelectiveEffects struct {
	Eyes   []ScopedEffect
	Data   []ScopedEffect
	Frame  []ScopedEffect
	Global []ScopedEffect
}

// Customization is the full record of spec §3's table.
type Customization struct {
	EyeShape         *EyeShape // Legacy; normalized away by Normalize.
	EyeBorderStyle   *EyeBorderStyle
	EyeCenterStyle   *EyeCenterStyle
	DataPattern      *DataPattern
	Colors           *ColorOptions
	Gradient         *GradientOptions
	EyeBorderGradient *GradientOptions
	EyeCenterGradient *GradientOptions
	Logo             *LogoOptions
	Frame            *FrameOptions
	Effects          []EffectOptions
	SelectiveEffects *SelectiveEffects
	ErrorCorrection  *qrencode.ECL
	LogoSizeRatio    *float64
}

// Normalize folds the legacy EyeShape field into EyeBorderStyle/
// EyeCenterStyle, per spec §9's Open Question decision: the separated form
// wins whenever both are set; the legacy form is accepted but never
// consulted downstream of this call.
func (c *Customization) Normalize() {
	if c == nil || c.EyeShape == nil {
		return
	}
	if c.EyeBorderStyle == nil {
		if border, ok := fromLegacyBorder[*c.EyeShape]; ok {
			c.EyeBorderStyle = &border
		}
	}
	if c.EyeCenterStyle == nil {
		if center, ok := fromLegacyCenter[*c.EyeShape]; ok {
			c.EyeCenterStyle = &center
		}
	}
}

var eyeBorderStyleNames = [...]string{
	"square", "rounded_square", "circle", "quarter_round", "cut_corner",
	"thick", "double", "diamond", "hexagon", "cross", "leaf", "arrow",
	"teardrop", "wave", "petal", "crystal", "flame", "organic",
}

// String names the border style for structured-output style/shape fields
// (spec §4.7), mirroring the teacher's format!("{:?}", shape).to_lowercase().
func (s EyeBorderStyle) String() string {
	if int(s) < 0 || int(s) >= len(eyeBorderStyleNames) {
		return "square"
	}
	return eyeBorderStyleNames[s]
}

var eyeCenterStyleNames = [...]string{
	"square", "rounded_square", "circle", "squircle", "dot", "star",
	"diamond", "cross", "plus",
}

func (s EyeCenterStyle) String() string {
	if int(s) < 0 || int(s) >= len(eyeCenterStyleNames) {
		return "square"
	}
	return eyeCenterStyleNames[s]
}

var dataPatternNames = [...]string{
	"square", "square_small", "dots", "rounded", "vertical", "horizontal",
	"diamond", "circular", "star", "cross", "random", "wave", "mosaic",
}

func (p DataPattern) String() string {
	if int(p) < 0 || int(p) >= len(dataPatternNames) {
		return "square"
	}
	return dataPatternNames[p]
}

var frameTypeNames = [...]string{"simple", "rounded", "bubble", "speech", "badge"}

func (f FrameType) String() string {
	if int(f) < 0 || int(f) >= len(frameTypeNames) {
		return "simple"
	}
	return frameTypeNames[f]
}

var gradientTypeNames = [...]string{"linear", "radial", "conic", "diamond", "spiral"}

func (g GradientType) String() string {
	if int(g) < 0 || int(g) >= len(gradientTypeNames) {
		return "linear"
	}
	return gradientTypeNames[g]
}

var logoShapeNames = [...]string{"square", "circle", "rounded_square"}

func (s LogoShape) String() string {
	if int(s) < 0 || int(s) >= len(logoShapeNames) {
		return "square"
	}
	return logoShapeNames[s]
}

var effectTypeNames = [...]string{
	"shadow", "glow", "blur", "noise", "vintage", "distort", "emboss",
	"outline", "drop_shadow", "inner_shadow",
}

func (t EffectType) String() string {
	if int(t) < 0 || int(t) >= len(effectTypeNames) {
		return "shadow"
	}
	return effectTypeNames[t]
}
