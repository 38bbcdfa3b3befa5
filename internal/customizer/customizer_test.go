package customizer

import (
	"testing"

	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func TestApplyWithNilCustomizationReturnsBlackDefaults(t *testing.T) {
	result, err := Apply(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "#000000", result.DataFill)
	assert.Equal(t, "#000000", result.EyesFill)
	assert.Equal(t, "#ffffff", result.Background)
	assert.Equal(t, 1.0, result.QualityScore)
}

func TestApplyResolvesExplicitBackground(t *testing.T) {
	custom := &model.Customization{Colors: &model.ColorOptions{Background: "#222222"}}
	result, err := Apply(custom, nil)
	require.NoError(t, err)
	assert.Equal(t, "#222222", result.Background)
}

func TestApplyPerEyeOverrideWinsOverUniform(t *testing.T) {
	outer, inner := "#ff0000", "#00ff00"
	topLeftOverride := model.EyeColorPair{Outer: "#111111", Inner: "#222222"}
	custom := &model.Customization{
		Colors: &model.ColorOptions{
			EyeColors: &model.EyeColors{
				Outer:  &outer,
				Inner:  &inner,
				PerEye: &model.PerEyeColors{TopLeft: &topLeftOverride},
			},
		},
	}
	result, err := Apply(custom, nil)
	require.NoError(t, err)

	require.Contains(t, result.PerEyeColors, "top_left")
	assert.Equal(t, topLeftOverride, result.PerEyeColors["top_left"])

	require.Contains(t, result.PerEyeColors, "top_right")
	assert.Equal(t, model.EyeColorPair{Outer: outer, Inner: inner}, result.PerEyeColors["top_right"])
}

func TestApplyWithNoColorOverridesLeavesPerEyeColorsEmpty(t *testing.T) {
	result, err := Apply(&model.Customization{Colors: &model.ColorOptions{Foreground: "#000000"}}, nil)
	require.NoError(t, err)
	assert.Empty(t, result.PerEyeColors)
}

func TestApplyPenalizesQualityScoreOnInsufficientContrast(t *testing.T) {
	custom := &model.Customization{
		Colors: &model.ColorOptions{Foreground: "#0000ff", Background: "#101010"},
	}
	result, err := Apply(custom, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, result.QualityScore, 1e-9)
}

func TestApplyNeverFailsTheRequestOnInsufficientContrast(t *testing.T) {
	custom := &model.Customization{
		Colors: &model.ColorOptions{Foreground: "#010101", Background: "#020202"},
	}
	_, err := Apply(custom, nil)
	assert.NoError(t, err)
}

func TestApplyUsesForegroundColorWhenNoGradient(t *testing.T) {
	custom := &model.Customization{
		Colors: &model.ColorOptions{Foreground: "#123456", Background: "#ffffff"},
	}
	result, err := Apply(custom, nil)
	require.NoError(t, err)
	assert.Equal(t, "#123456", result.DataFill)
	assert.Equal(t, "#123456", result.EyesFill)
}

func TestApplyMaterializesGradientAndSwitchesFillToURLReference(t *testing.T) {
	custom := &model.Customization{
		Gradient: &model.GradientOptions{
			Enabled:     true,
			Type:        model.GradientLinear,
			Colors:      []string{"#ff0000", "#0000ff"},
			ApplyToData: true,
		},
	}
	result, err := Apply(custom, nil)
	require.NoError(t, err)
	assert.Contains(t, result.DataFill, "url(#")
	assert.Equal(t, "#000000", result.EyesFill)
	assert.Len(t, result.Gradients, 1)
}

func TestApplyAppliesLegacyEffectsToBothDataAndEyes(t *testing.T) {
	custom := &model.Customization{
		Effects: []model.EffectOptions{
			{Type: model.EffectGlow, Params: model.GlowParams{Intensity: floatPtr(3)}},
		},
	}
	result, err := Apply(custom, nil)
	require.NoError(t, err)
	require.Len(t, result.Filters, 1)
	assert.Equal(t, result.Filters[0].ID, result.DataEffectIDs[0])
	assert.Equal(t, result.Filters[0].ID, result.EyesEffectIDs[0])
}

func TestApplyRejectsTooManyLegacyEffects(t *testing.T) {
	custom := &model.Customization{
		Effects: make([]model.EffectOptions, 6),
	}
	for i := range custom.Effects {
		custom.Effects[i] = model.EffectOptions{Type: model.EffectGlow, Params: model.GlowParams{}}
	}
	_, err := Apply(custom, nil)
	require.Error(t, err)
}

func TestApplySelectiveEffectsRejectsMoreThanThreePerComponent(t *testing.T) {
	scoped := make([]model.ScopedEffect, 4)
	for i := range scoped {
		scoped[i] = model.ScopedEffect{Effect: model.EffectOptions{Type: model.EffectGlow, Params: model.GlowParams{}}}
	}
	custom := &model.Customization{
		SelectiveEffects: &model.SelectiveEffects{Eyes: scoped},
	}
	_, err := Apply(custom, nil)
	require.Error(t, err)
}

func TestApplySelectiveEffectsRejectsBlurPlusNoiseOnSameComponent(t *testing.T) {
	custom := &model.Customization{
		SelectiveEffects: &model.SelectiveEffects{
			Data: []model.ScopedEffect{
				{Effect: model.EffectOptions{Type: model.EffectBlur, Params: model.BlurParams{}}},
				{Effect: model.EffectOptions{Type: model.EffectNoise, Params: model.NoiseParams{}}},
			},
		},
	}
	_, err := Apply(custom, nil)
	require.Error(t, err)
}

func TestApplySelectiveEffectsRejectsShadowPlusDropShadowOnSameComponent(t *testing.T) {
	custom := &model.Customization{
		SelectiveEffects: &model.SelectiveEffects{
			Frame: []model.ScopedEffect{
				{Effect: model.EffectOptions{Type: model.EffectShadow, Params: model.ShadowParams{}}},
				{Effect: model.EffectOptions{Type: model.EffectDropShadow, Params: model.DropShadowParams{}}},
			},
		},
	}
	_, err := Apply(custom, nil)
	require.Error(t, err)
}

func TestApplySelectiveEffectsAllowsUpToThreeCompatibleEffectsPerComponent(t *testing.T) {
	custom := &model.Customization{
		SelectiveEffects: &model.SelectiveEffects{
			Eyes: []model.ScopedEffect{
				{Effect: model.EffectOptions{Type: model.EffectGlow, Params: model.GlowParams{}}},
				{Effect: model.EffectOptions{Type: model.EffectOutline, Params: model.OutlineParams{}}},
				{Effect: model.EffectOptions{Type: model.EffectEmboss, Params: model.EmbossParams{}}},
			},
		},
	}
	result, err := Apply(custom, nil)
	require.NoError(t, err)
	assert.Len(t, result.ComponentFilters[model.ComponentEyes], 3)
}

func TestApplySelectiveEffectsAcrossDifferentComponentsDoNotInterfere(t *testing.T) {
	custom := &model.Customization{
		SelectiveEffects: &model.SelectiveEffects{
			Data:  []model.ScopedEffect{{Effect: model.EffectOptions{Type: model.EffectBlur, Params: model.BlurParams{}}}},
			Frame: []model.ScopedEffect{{Effect: model.EffectOptions{Type: model.EffectNoise, Params: model.NoiseParams{}}}},
		},
	}
	result, err := Apply(custom, nil)
	require.NoError(t, err)
	assert.Len(t, result.ComponentFilters[model.ComponentData], 1)
	assert.Len(t, result.ComponentFilters[model.ComponentFrame], 1)
}
