// Package render turns a generated QR matrix plus its resolved
// customization into one of the two output shapes of spec §4.7: the
// Enhanced structured tree, or the legacy flat `<svg>…</svg>` string. Both
// share the same eye-glyph and data-pattern primitives so the two outputs
// never diverge on shape, only on framing (spec §4.7's closing sentence).
package render

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qrengine/qrcodeengine/internal/customizer"
	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/qrengine/qrcodeengine/internal/shapes"
)

// LogoPlacement is the module-space footprint of an integrated logo, as
// produced by internal/logo.Integrate, plus the data-URL to embed.
type LogoPlacement struct {
	Src     string
	Size    int
	Shape   string
	Padding int
	X, Y    int
}

// ExclusionInfo reports the logo-exclusion cost, mirroring
// logo.IntegrationResult so the Structured Renderer's metadata can surface
// it without importing internal/logo.
type ExclusionInfo struct {
	OccludedModules     int
	CapacityLossPercent float64
	RequiresHighECC     bool
}

// Input is everything the renderers need: a matrix with any logo area
// already cleared by the caller (the Customizer's job, not the renderer's),
// the resolved customizer.Result, and the overlay/metadata pieces.
type Input struct {
	Matrix           [][]bool
	Version          int
	ErrorCorrection  string
	QuietZone        int
	Customization    *model.Customization
	Applied          customizer.Result
	Logo             *LogoPlacement
	Exclusion        *ExclusionInfo
	GenerationTimeMS float64
	// PrecomputedDataPath, when non-nil, is used in place of a fresh
	// buildDataPath scan. internal/engine sets this for N > 25 symbols,
	// having computed it itself across a row-chunked worker pool (spec
	// §5's "Parallel large-QR rendering"); chunks are position-independent
	// and concatenated in chunk order before being stored here, so the
	// result is byte-identical to what a single-threaded buildDataPath
	// call would have produced.
	PrecomputedDataPath *string
	// PrecomputedDataGroupBody is the legacy SVG renderer's equivalent of
	// PrecomputedDataPath: pre-rendered per-module glyph markup for the
	// "qr-data" group, assembled the same row-chunked way.
	PrecomputedDataGroupBody *string
}

// EyePath is one eye's border/center glyph in raw "d" path-data form.
type EyePath struct {
	Type        string `json:"type"`
	BorderPath  string `json:"border_path"`
	CenterPath  string `json:"center_path"`
	BorderShape string `json:"border_shape"`
	CenterShape string `json:"center_shape"`
	BorderColor string `json:"border_color"`
	CenterColor string `json:"center_color"`
}

// Paths is the Enhanced tree's "paths" section.
type Paths struct {
	Data string    `json:"data"`
	Eyes []EyePath `json:"eyes"`
}

// StyleConfig is one component's fill/effects/shape/stroke bundle.
type StyleConfig struct {
	Fill    string             `json:"fill"`
	Effects []string           `json:"effects"`
	Shape   string             `json:"shape,omitempty"`
	Stroke  *model.StrokeStyle `json:"stroke,omitempty"`
}

// Styles is the Enhanced tree's "styles" section.
type Styles struct {
	Data StyleConfig `json:"data"`
	Eyes StyleConfig `json:"eyes"`
}

// GradientDef is a "definitions" entry materializing one Gradient.
type GradientDef struct {
	ID           string    `json:"id"`
	GradientType string    `json:"gradient_type"`
	Colors       []string  `json:"colors"`
	Angle        *float64  `json:"angle,omitempty"`
	Coords       []float64 `json:"coords,omitempty"`
	PerModule    *bool     `json:"per_module,omitempty"`
}

// EffectDef is a "definitions" entry materializing one Effect.
type EffectDef struct {
	ID         string          `json:"id"`
	EffectType string          `json:"effect_type"`
	Params     json.RawMessage `json:"params"`
}

// Definition is one tagged entry of the Enhanced tree's "definitions"
// section: exactly one of Gradient or Effect is set.
type Definition struct {
	Gradient *GradientDef `json:"gradient,omitempty"`
	Effect   *EffectDef   `json:"effect,omitempty"`
}

// LogoOverlay is the Enhanced tree's overlays.logo entry.
type LogoOverlay struct {
	Src     string `json:"src"`
	Size    int    `json:"size"`
	Shape   string `json:"shape"`
	Padding int    `json:"padding"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// FrameOverlay is the Enhanced tree's overlays.frame entry.
type FrameOverlay struct {
	Style     string  `json:"style"`
	Path      string  `json:"path"`
	FillStyle string  `json:"fill_style"`
	Text      *string `json:"text,omitempty"`
}

// Overlays is the Enhanced tree's "overlays" section.
type Overlays struct {
	Logo  *LogoOverlay  `json:"logo,omitempty"`
	Frame *FrameOverlay `json:"frame,omitempty"`
}

// Metadata is the Enhanced tree's "metadata" section.
type Metadata struct {
	GenerationTimeMS float64        `json:"generation_time_ms"`
	QuietZone        int            `json:"quiet_zone"`
	ContentHash      string         `json:"content_hash"`
	TotalModules     int            `json:"total_modules"`
	DataModules      int            `json:"data_modules"`
	Version          int            `json:"version"`
	ErrorCorrection  string         `json:"error_correction"`
	ExclusionInfo    *ExclusionInfo `json:"exclusion_info,omitempty"`
	QualityScore     float64        `json:"quality_score"`
}

// Enhanced is the Structured Renderer's full output tree (spec §4.7).
type Enhanced struct {
	Paths       Paths        `json:"paths"`
	Styles      Styles       `json:"styles"`
	Definitions []Definition `json:"definitions"`
	Overlays    Overlays     `json:"overlays"`
	Metadata    Metadata     `json:"metadata"`
}

var eyePositions = []struct {
	pos  shapes.Position
	name string
}{
	{shapes.TopLeft, "top_left"},
	{shapes.TopRight, "top_right"},
	{shapes.BottomLeft, "bottom_left"},
}

// BuildStructured assembles the Enhanced tree for in.
func BuildStructured(in Input) (Enhanced, error) {
	n := len(in.Matrix)
	border, center := eyeStyles(in.Customization)
	dataPattern := model.DataPatternSquare
	if in.Applied.DataShape != nil {
		dataPattern = *in.Applied.DataShape
	}

	dataPath := resolveDataPath(in)
	eyes := buildEyePaths(n, in.QuietZone, border, center, in.Applied)

	definitions, err := buildDefinitions(in.Applied)
	if err != nil {
		return Enhanced{}, err
	}

	dataModules := countDataModules(in.Matrix, n)

	enhanced := Enhanced{
		Paths: Paths{Data: dataPath, Eyes: eyes},
		Styles: Styles{
			Data: StyleConfig{Fill: in.Applied.DataFill, Effects: in.Applied.DataEffectIDs, Shape: dataPattern.String(), Stroke: in.Applied.Stroke},
			Eyes: StyleConfig{Fill: in.Applied.EyesFill, Effects: in.Applied.EyesEffectIDs, Stroke: in.Applied.Stroke},
		},
		Definitions: definitions,
		Overlays:    buildOverlays(in.Logo, in.Customization, n+2*in.QuietZone),
		Metadata: Metadata{
			GenerationTimeMS: in.GenerationTimeMS,
			QuietZone:        in.QuietZone,
			ContentHash:      contentHash(dataPath, eyes),
			TotalModules:     n + 2*in.QuietZone,
			DataModules:      dataModules,
			Version:          in.Version,
			ErrorCorrection:  in.ErrorCorrection,
			ExclusionInfo:    in.Exclusion,
			QualityScore:     in.Applied.QualityScore,
		},
	}
	return enhanced, nil
}

func eyeStyles(custom *model.Customization) (model.EyeBorderStyle, model.EyeCenterStyle) {
	border, center := model.EyeBorderSquare, model.EyeCenterSquare
	if custom == nil {
		return border, center
	}
	if custom.EyeBorderStyle != nil {
		border = *custom.EyeBorderStyle
	}
	if custom.EyeCenterStyle != nil {
		center = *custom.EyeCenterStyle
	}
	return border, center
}

func buildEyePaths(n, quietZone int, border model.EyeBorderStyle, center model.EyeCenterStyle, applied customizer.Result) []EyePath {
	r := shapes.NewEyeRenderer(1, n, quietZone)
	out := make([]EyePath, 0, len(eyePositions))
	for _, p := range eyePositions {
		borderColor, centerColor := eyeFillFor(applied, p.name)
		out = append(out, EyePath{
			Type:        p.name,
			BorderPath:  r.BorderPath(border, p.pos),
			CenterPath:  r.CenterPath(center, p.pos),
			BorderShape: border.String(),
			CenterShape: center.String(),
			BorderColor: borderColor,
			CenterColor: centerColor,
		})
	}
	return out
}

// eyeFillFor resolves one eye's border/center fill: a PerEyeColors override
// when present (spec.md §3's colors-row per_eye/outer/inner precedence,
// resolved by internal/customizer), else the uniform EyesFill.
func eyeFillFor(applied customizer.Result, eyeName string) (border, center string) {
	if pair, ok := applied.PerEyeColors[eyeName]; ok {
		return pair.Outer, pair.Inner
	}
	return applied.EyesFill, applied.EyesFill
}

// buildDataPath walks the matrix in row-major order and emits the union of
// dark modules outside the three eye regions (logo-excluded modules have
// already been cleared in the matrix by the caller). Only square (the
// default for every pattern but dots/rounded), dots, and rounded influence
// the emitted path shape, matching the teacher's
// generate_enhanced_paths_with_exclusion: every other DataPattern variant
// still renders as the optimized square run for this single structured
// path, while the legacy SVG renderer below exercises all 13 glyphs
// per-module.
func buildDataPath(matrix [][]bool, pattern model.DataPattern, quietZone int) string {
	return DataPathChunk(matrix, pattern, quietZone, 0, len(matrix))
}

func resolveDataPath(in Input) string {
	if in.PrecomputedDataPath != nil {
		return *in.PrecomputedDataPath
	}
	dataPattern := model.DataPatternSquare
	if in.Applied.DataShape != nil {
		dataPattern = *in.Applied.DataShape
	}
	return buildDataPath(in.Matrix, dataPattern, in.QuietZone)
}

// DataPathChunk emits the data-path segments for matrix rows [rowStart,
// rowEnd) only. internal/engine calls this once per 50-row chunk across a
// worker pool for N > 25 symbols (spec §5), concatenating the results in
// chunk order into Input.PrecomputedDataPath; called with the full row
// range [0, len(matrix)) it reproduces buildDataPath's single-threaded
// output exactly, which is what Basic/Medium generation and every render
// test in this package exercise.
func DataPathChunk(matrix [][]bool, pattern model.DataPattern, quietZone, rowStart, rowEnd int) string {
	n := len(matrix)
	pr := shapes.NewPatternRenderer(1)
	var sb strings.Builder

	switch pattern {
	case model.DataPatternDots:
		for y := rowStart; y < rowEnd; y++ {
			for x := 0; x < n; x++ {
				if matrix[y][x] && !pr.IsEyeArea(x, y, n) {
					writeSeg(&sb, moduleCirclePath(x, y, quietZone))
				}
			}
		}
	case model.DataPatternRounded:
		for y := rowStart; y < rowEnd; y++ {
			for x := 0; x < n; x++ {
				if matrix[y][x] && !pr.IsEyeArea(x, y, n) {
					writeSeg(&sb, moduleRoundedPath(x, y, quietZone))
				}
			}
		}
	default:
		for y := rowStart; y < rowEnd; y++ {
			x := 0
			for x < n {
				if !matrix[y][x] || pr.IsEyeArea(x, y, n) {
					x++
					continue
				}
				start := x
				for x < n && matrix[y][x] && !pr.IsEyeArea(x, y, n) {
					x++
				}
				writeSeg(&sb, runPath(start, y, x-start, quietZone))
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// DataGroupBodyChunk is the legacy SVG renderer's row-chunked counterpart to
// DataPathChunk: pre-rendered per-module glyph markup for matrix rows
// [rowStart, rowEnd), for internal/engine to assemble into
// Input.PrecomputedDataGroupBody the same way.
func DataGroupBodyChunk(matrix [][]bool, pattern model.DataPattern, quietZone int, fill string, rowStart, rowEnd int) string {
	n := len(matrix)
	pr := shapes.NewPatternRenderer(1)
	var body strings.Builder
	for y := rowStart; y < rowEnd; y++ {
		for x := 0; x < n; x++ {
			if matrix[y][x] && !pr.IsEyeArea(x, y, n) {
				body.WriteString(pr.RenderModule(pattern, x+quietZone, y+quietZone, fill))
			}
		}
	}
	return body.String()
}

func writeSeg(sb *strings.Builder, seg string) {
	if sb.Len() > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteString(seg)
}

func countDataModules(matrix [][]bool, n int) int {
	pr := shapes.NewPatternRenderer(1)
	count := 0
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if matrix[y][x] && !pr.IsEyeArea(x, y, n) {
				count++
			}
		}
	}
	return count
}

// runPath is the optimized horizontal-run path of spec §4.7: "M x y h w v1
// H x z", in module units with the quiet zone baked into the origin.
func runPath(x, y, width, quietZone int) string {
	gx, gy := x+quietZone, y+quietZone
	return fmt.Sprintf("M %d %d h %d v 1 H %d z", gx, gy, width, gx)
}

func moduleCirclePath(x, y, quietZone int) string {
	cx := float64(x+quietZone) + 0.5
	cy := float64(y+quietZone) + 0.5
	r := 0.4
	return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 1 0 %.2f %.2f A %.2f %.2f 0 1 0 %.2f %.2f Z",
		cx-r, cy, r, r, cx+r, cy, r, r, cx-r, cy)
}

func moduleRoundedPath(x, y, quietZone int) string {
	gx, gy := float64(x+quietZone), float64(y+quietZone)
	const radius = 0.25
	w := 1.0 - 2*radius
	return fmt.Sprintf(
		"M %.2f %.2f h %.2f a %.2f %.2f 0 0 1 %.2f %.2f v %.2f a %.2f %.2f 0 0 1 -%.2f %.2f h -%.2f a %.2f %.2f 0 0 1 -%.2f -%.2f v -%.2f a %.2f %.2f 0 0 1 %.2f -%.2f Z",
		gx+radius, gy,
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

// contentHash reproduces spec §4.7's metadata.content_hash: sha256 over
// data_path, then every eye's border_path, then every eye's center_path.
func contentHash(dataPath string, eyes []EyePath) string {
	h := sha256.New()
	h.Write([]byte(dataPath))
	for _, e := range eyes {
		h.Write([]byte(e.BorderPath))
	}
	for _, e := range eyes {
		h.Write([]byte(e.CenterPath))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func buildDefinitions(applied customizer.Result) ([]Definition, error) {
	defs := make([]Definition, 0, len(applied.GradientRecords)+len(applied.EffectRecords))
	for _, g := range applied.GradientRecords {
		defs = append(defs, Definition{Gradient: &GradientDef{
			ID:           g.ID,
			GradientType: g.Options.Type.String(),
			Colors:       g.Options.Colors,
			Angle:        g.Options.Angle,
			PerModule:    optionalBool(g.Options.PerModule),
		}})
	}
	for _, e := range applied.EffectRecords {
		params, err := json.Marshal(e.Options.Params)
		if err != nil {
			return nil, err
		}
		defs = append(defs, Definition{Effect: &EffectDef{
			ID:         e.ID,
			EffectType: e.Options.Type.String(),
			Params:     params,
		}})
	}
	return defs, nil
}

func optionalBool(b bool) *bool {
	if !b {
		return nil
	}
	return &b
}

func buildOverlays(logo *LogoPlacement, custom *model.Customization, totalSize int) Overlays {
	var overlays Overlays
	if logo != nil {
		overlays.Logo = &LogoOverlay{
			Src: logo.Src, Size: logo.Size, Shape: logo.Shape,
			Padding: logo.Padding, X: logo.X, Y: logo.Y,
		}
	}
	if custom != nil && custom.Frame != nil {
		fr := shapes.NewFrameRenderer()
		var text *string
		if custom.Frame.Text != nil {
			sanitized := shapes.SanitizeFrameText(*custom.Frame.Text)
			text = &sanitized
		}
		overlays.Frame = &FrameOverlay{
			Style:     custom.Frame.Type.String(),
			Path:      fr.FramePath(custom.Frame.Type, totalSize),
			FillStyle: custom.Frame.Color,
			Text:      text,
		}
	}
	return overlays
}

// BuildSVG assembles the legacy flat `<svg>…</svg>` string for in, sharing
// the same eye/data glyph primitives as BuildStructured but emitting a
// single document in the rendering order of spec §6.3: background rect →
// gradient/filter defs → data group → eye groups → logo overlay → frame
// overlay.
func BuildSVG(in Input) (string, error) {
	n := len(in.Matrix)
	totalSize := n + 2*in.QuietZone
	border, center := eyeStyles(in.Customization)
	dataPattern := model.DataPatternSquare
	if in.Applied.DataShape != nil {
		dataPattern = *in.Applied.DataShape
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d">`, totalSize, totalSize)
	background := in.Applied.Background
	if background == "" {
		background = "#ffffff"
	}
	fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s" />`, background)

	if defsBody := buildSVGDefsBody(in.Applied); defsBody != "" {
		fmt.Fprintf(&sb, "<defs>%s</defs>", defsBody)
	}

	dataIDs := append(append([]string{}, in.Applied.DataEffectIDs...), in.Applied.ComponentFilters[model.ComponentData]...)
	eyesIDs := append(append([]string{}, in.Applied.EyesEffectIDs...), in.Applied.ComponentFilters[model.ComponentEyes]...)

	body := buildDataGroup(in, dataPattern, dataIDs)
	body += buildEyeGroups(n, in.QuietZone, border, center, in.Applied, eyesIDs)

	if globalIDs := in.Applied.ComponentFilters[model.ComponentGlobal]; len(globalIDs) > 0 {
		fmt.Fprintf(&sb, `<g class="qr-global"%s>%s</g>`, filterAttr(globalIDs), body)
	} else {
		sb.WriteString(body)
	}

	if in.Logo != nil {
		fmt.Fprintf(&sb, `<image x="%d" y="%d" width="%d" height="%d" href="%s" />`,
			in.Logo.X+in.QuietZone, in.Logo.Y+in.QuietZone, in.Logo.Size, in.Logo.Size, in.Logo.Src)
	}

	if in.Customization != nil && in.Customization.Frame != nil {
		fr := shapes.NewFrameRenderer()
		path := fr.FramePath(in.Customization.Frame.Type, totalSize)
		frameIDs := in.Applied.ComponentFilters[model.ComponentFrame]
		fmt.Fprintf(&sb, `<g class="qr-frame"%s><path d="%s" fill="none" stroke="%s" stroke-width="2" /></g>`,
			filterAttr(frameIDs), path, in.Customization.Frame.Color)
		if in.Customization.Frame.Text != nil {
			text := shapes.SanitizeFrameText(*in.Customization.Frame.Text)
			fmt.Fprintf(&sb, `<text x="%d" y="%d" text-anchor="middle">%s</text>`, totalSize/2, totalSize+10, xmlEscape(text))
		}
	}

	sb.WriteString(`</svg>`)
	return sb.String(), nil
}

func buildSVGDefsBody(applied customizer.Result) string {
	var sb strings.Builder
	for _, g := range applied.Gradients {
		sb.WriteString(g.SVGDefinition)
	}
	for _, f := range applied.Filters {
		sb.WriteString(f.Definition)
	}
	return sb.String()
}

func filterAttr(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	chain := make([]string, len(ids))
	for i, id := range ids {
		chain[i] = fmt.Sprintf("url(#%s)", id)
	}
	return fmt.Sprintf(` filter="%s"`, strings.Join(chain, " "))
}

func buildDataGroup(in Input, pattern model.DataPattern, filterIDs []string) string {
	applied := in.Applied
	var bodyStr string
	if in.PrecomputedDataGroupBody != nil {
		bodyStr = *in.PrecomputedDataGroupBody
	} else {
		bodyStr = DataGroupBodyChunk(in.Matrix, pattern, in.QuietZone, applied.DataFill, 0, len(in.Matrix))
	}

	var strokeAttr string
	if applied.Stroke != nil && applied.Stroke.Enabled {
		color := "#000000"
		if applied.Stroke.Color != nil {
			color = *applied.Stroke.Color
		}
		width := 1.0
		if applied.Stroke.Width != nil {
			width = *applied.Stroke.Width
		}
		strokeAttr = fmt.Sprintf(` stroke="%s" stroke-width="%.2f"`, color, width)
	}

	return fmt.Sprintf(`<g class="qr-data" fill="%s"%s%s>%s</g>`,
		applied.DataFill, strokeAttr, filterAttr(filterIDs), bodyStr)
}

// buildEyeGroups renders each eye's border/center with its own resolved
// color (a PerEyeColors override, else the group-wide EyesFill). The group's
// own "fill" attribute is left at EyesFill as the group default, but every
// path.RenderBorder/RenderCenter call already emits an explicit per-path
// "fill" so a per-eye override always wins over it.
func buildEyeGroups(n, quietZone int, border model.EyeBorderStyle, center model.EyeCenterStyle, applied customizer.Result, filterIDs []string) string {
	r := shapes.NewEyeRenderer(1, n, quietZone)
	var body strings.Builder
	for _, p := range eyePositions {
		borderColor, centerColor := eyeFillFor(applied, p.name)
		body.WriteString(r.RenderBorder(border, p.pos, borderColor))
		body.WriteString(r.RenderCenter(center, p.pos, centerColor))
	}
	return fmt.Sprintf(`<g class="qr-eyes" fill="%s"%s>%s</g>`,
		applied.EyesFill, filterAttr(filterIDs), body.String())
}

func xmlEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
