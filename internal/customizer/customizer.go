// Package customizer orchestrates the Customization Record into render-ready
// pieces: resolved fills, materialized gradients, applied filters and their
// selective per-component scoping (spec §4.6), grounded on the teacher's
// apply_medium_customization/apply_advanced_customization and
// validate_component_effects.
package customizer

import (
	"fmt"

	"github.com/qrengine/qrcodeengine/internal/colors"
	"github.com/qrengine/qrcodeengine/internal/effects"
	"github.com/qrengine/qrcodeengine/internal/gradients"
	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/qrengine/qrcodeengine/internal/qrerr"
)

// qualityPenaltyPerContrastFailure is how much a single InsufficientContrast
// finding subtracts from Result.QualityScore (spec §7: "Contrast issues
// reduce the emitted quality_score ... but do not fail the request").
const qualityPenaltyPerContrastFailure = 0.15

// CompatibilityRules bounds how many effects may be scoped to one component
// and which pairs may never coexist within a component. This is the
// selective-effects validation layer, distinct from and stricter than
// effects.ValidateCombination's global cap of 3 (spec §4.6's "caps
// concurrent effects at 3 unless the caller supplies CompatibilityRules").
type CompatibilityRules struct {
	MaxConcurrentEffects int
	Incompatible         [][2]model.EffectType
}

// DefaultCompatibilityRules is the selective-effects default the teacher's
// QrCustomizer applies when the caller supplies none: at most 3 concurrent
// effects per component, with Blur+Noise and Shadow+DropShadow rejected as
// incompatible pairs.
func DefaultCompatibilityRules() CompatibilityRules {
	return CompatibilityRules{
		MaxConcurrentEffects: 3,
		Incompatible: [][2]model.EffectType{
			{model.EffectBlur, model.EffectNoise},
			{model.EffectShadow, model.EffectDropShadow},
		},
	}
}

// ValidateComponentEffects checks one component's scoped effect list against
// rules.
func ValidateComponentEffects(scoped []model.ScopedEffect, rules CompatibilityRules) error {
	if len(scoped) > rules.MaxConcurrentEffects {
		return &qrerr.ValidationError{Message: fmt.Sprintf(
			"component has %d effects, max %d concurrent", len(scoped), rules.MaxConcurrentEffects)}
	}
	present := make(map[model.EffectType]bool, len(scoped))
	for _, s := range scoped {
		present[s.Effect.Type] = true
	}
	for _, pair := range rules.Incompatible {
		if present[pair[0]] && present[pair[1]] {
			return &qrerr.ValidationError{Message: fmt.Sprintf(
				"incompatible effect combination: %s + %s", pair[0], pair[1])}
		}
	}
	return nil
}

// ValidateSelectiveEffects checks every component slot of se against rules.
func ValidateSelectiveEffects(se *model.SelectiveEffects, rules CompatibilityRules) error {
	if se == nil {
		return nil
	}
	for _, scoped := range [][]model.ScopedEffect{se.Eyes, se.Data, se.Frame, se.Global} {
		if err := ValidateComponentEffects(scoped, rules); err != nil {
			return err
		}
	}
	return nil
}

// EffectRecord pairs a materialized filter with the options that produced
// it, so the Structured Renderer can emit an Effect{id, effect_type, params}
// definition without re-deriving it from the SVG filter chain.
type EffectRecord struct {
	ID      string
	Options model.EffectOptions
}

// GradientRecord pairs a materialized gradient with the options that
// produced it, for the same reason as EffectRecord.
type GradientRecord struct {
	ID      string
	Options model.GradientOptions
}

// Result bundles every render-ready piece the Structured Renderer and the
// legacy SVG renderer both consume, so neither needs to re-derive anything
// from model.Customization directly.
type Result struct {
	DataFill      string
	EyesFill      string
	Background    string
	DataShape     *model.DataPattern
	EyesShape     *string
	DataEffectIDs []string
	EyesEffectIDs []string
	Stroke        *model.StrokeStyle
	Gradients     []gradients.Gradient
	GradientRecords []GradientRecord
	Filters       []effects.Filter
	EffectRecords []EffectRecord
	// ComponentFilters holds the selective-effects filter IDs scoped per
	// component, for the CSS "filter: url(#…) …" attachment of spec §4.6.
	ComponentFilters map[model.Component][]string
	// PerEyeColors holds, for any of "top_left"/"top_right"/"bottom_left"
	// with an explicit override (spec.md §3's colors row: outer/inner
	// uniform overrides and/or per_eye overrides), the resolved
	// Outer(=border)/Inner(=center) color pair. An eye absent from this
	// map renders with EyesFill for both border and center.
	PerEyeColors map[string]model.EyeColorPair
	// QualityScore starts at 1.0 and is reduced by
	// qualityPenaltyPerContrastFailure for every InsufficientContrast
	// finding (spec §7), never failing the request outright.
	QualityScore float64
}

// Apply resolves custom into a Result. canvasSize, when non-nil, is forwarded
// to the gradient builder so coordinates are emitted in absolute user-space
// units (spec §4.6).
func Apply(custom *model.Customization, canvasSize *int) (Result, error) {
	result := Result{DataFill: "#000000", EyesFill: "#000000", Background: "#ffffff", QualityScore: 1.0}
	if custom == nil {
		return result, nil
	}

	if custom.Colors != nil && custom.Colors.Foreground != "" {
		result.DataFill = custom.Colors.Foreground
		result.EyesFill = custom.Colors.Foreground
	}
	if custom.Colors != nil && custom.Colors.Background != "" {
		result.Background = custom.Colors.Background
	}
	result.PerEyeColors = resolveEyeColors(custom.Colors, result.EyesFill)
	result.QualityScore = applyContrastPenalty(result.QualityScore, result.DataFill, result.Background)
	for _, pair := range result.PerEyeColors {
		result.QualityScore = applyContrastPenalty(result.QualityScore, pair.Outer, result.Background)
		result.QualityScore = applyContrastPenalty(result.QualityScore, pair.Inner, result.Background)
	}
	if custom.DataPattern != nil {
		result.DataShape = custom.DataPattern
	}

	gb := gradients.NewBuilder()

	if custom.Gradient != nil && custom.Gradient.Enabled {
		if custom.Gradient.ApplyToData {
			g, err := gb.Build(*custom.Gradient, canvasSize)
			if err != nil {
				return Result{}, err
			}
			result.Gradients = append(result.Gradients, g)
			result.GradientRecords = append(result.GradientRecords, GradientRecord{ID: g.ID, Options: *custom.Gradient})
			result.DataFill = g.FillReference
		}
		if custom.Gradient.ApplyToEyes {
			g, err := gb.Build(*custom.Gradient, canvasSize)
			if err != nil {
				return Result{}, err
			}
			result.Gradients = append(result.Gradients, g)
			result.GradientRecords = append(result.GradientRecords, GradientRecord{ID: g.ID, Options: *custom.Gradient})
			result.EyesFill = g.FillReference
		}
		result.Stroke = custom.Gradient.Stroke
	}

	if custom.EyeBorderGradient != nil && custom.EyeBorderGradient.Enabled {
		g, err := gb.Build(*custom.EyeBorderGradient, canvasSize)
		if err != nil {
			return Result{}, err
		}
		result.Gradients = append(result.Gradients, g)
		result.GradientRecords = append(result.GradientRecords, GradientRecord{ID: g.ID, Options: *custom.EyeBorderGradient})
		result.EyesFill = g.FillReference
	}
	if custom.EyeCenterGradient != nil && custom.EyeCenterGradient.Enabled {
		g, err := gb.Build(*custom.EyeCenterGradient, canvasSize)
		if err != nil {
			return Result{}, err
		}
		result.Gradients = append(result.Gradients, g)
		result.GradientRecords = append(result.GradientRecords, GradientRecord{ID: g.ID, Options: *custom.EyeCenterGradient})
	}

	if len(custom.Effects) > 0 {
		if err := effects.ValidateCombination(custom.Effects); err != nil {
			return Result{}, err
		}
		proc := effects.NewProcessor()
		for _, eo := range custom.Effects {
			f, err := proc.Apply(eo)
			if err != nil {
				return Result{}, err
			}
			result.Filters = append(result.Filters, f)
			result.EffectRecords = append(result.EffectRecords, EffectRecord{ID: f.ID, Options: eo})
			result.DataEffectIDs = append(result.DataEffectIDs, f.ID)
			result.EyesEffectIDs = append(result.EyesEffectIDs, f.ID)
		}
	}

	if custom.SelectiveEffects != nil {
		rules := DefaultCompatibilityRules()
		if err := ValidateSelectiveEffects(custom.SelectiveEffects, rules); err != nil {
			return Result{}, err
		}
		proc := effects.NewProcessor()
		result.ComponentFilters = map[model.Component][]string{}
		groups := []struct {
			component model.Component
			scoped    []model.ScopedEffect
		}{
			{model.ComponentEyes, custom.SelectiveEffects.Eyes},
			{model.ComponentData, custom.SelectiveEffects.Data},
			{model.ComponentFrame, custom.SelectiveEffects.Frame},
			{model.ComponentGlobal, custom.SelectiveEffects.Global},
		}
		for _, g := range groups {
			for _, s := range g.scoped {
				f, err := proc.Apply(s.Effect)
				if err != nil {
					return Result{}, err
				}
				result.Filters = append(result.Filters, f)
				result.EffectRecords = append(result.EffectRecords, EffectRecord{ID: f.ID, Options: s.Effect})
				result.ComponentFilters[g.component] = append(result.ComponentFilters[g.component], f.ID)
			}
		}
	}

	return result, nil
}

// resolveEyeColors applies spec.md §3's colors-row precedence: a per-eye
// entry wins when present; otherwise the uniform outer/inner override
// applies to all three eyes; an eye with no override at all is left out of
// the map so the renderer falls back to eyesFill.
func resolveEyeColors(colorOpts *model.ColorOptions, eyesFill string) map[string]model.EyeColorPair {
	result := map[string]model.EyeColorPair{}
	if colorOpts == nil || colorOpts.EyeColors == nil {
		return result
	}
	ec := colorOpts.EyeColors

	uniform := model.EyeColorPair{Outer: eyesFill, Inner: eyesFill}
	haveUniform := false
	if ec.Outer != nil {
		uniform.Outer = *ec.Outer
		haveUniform = true
	}
	if ec.Inner != nil {
		uniform.Inner = *ec.Inner
		haveUniform = true
	}
	if haveUniform {
		for _, name := range []string{"top_left", "top_right", "bottom_left"} {
			result[name] = uniform
		}
	}

	if ec.PerEye != nil {
		perEye := map[string]*model.EyeColorPair{
			"top_left":    ec.PerEye.TopLeft,
			"top_right":   ec.PerEye.TopRight,
			"bottom_left": ec.PerEye.BottomLeft,
		}
		for name, pair := range perEye {
			if pair != nil {
				result[name] = *pair
			}
		}
	}
	return result
}

// applyContrastPenalty validates fg against bg with the WCAG AA validator
// and, on InsufficientContrast, subtracts qualityPenaltyPerContrastFailure
// from score (clamped to 0). Malformed hex colors are left to the
// Customization's own ingress validation, so a parse failure here is
// treated as "nothing to penalize" rather than a second error path.
func applyContrastPenalty(score float64, fgHex, bgHex string) float64 {
	fg, err := colors.Parse(fgHex)
	if err != nil {
		return score
	}
	bg, err := colors.Parse(bgHex)
	if err != nil {
		return score
	}
	v := colors.NewValidator()
	if _, err := v.ValidateContrast(fg, bg); err != nil {
		score -= qualityPenaltyPerContrastFailure
		if score < 0 {
			score = 0
		}
	}
	return score
}
