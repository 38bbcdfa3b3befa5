package router

import (
	"testing"

	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestDetermineComplexityNoCustomizationIsBasic(t *testing.T) {
	req := model.Request{Data: "https://example.com", Size: 400, Format: model.OutputSVG}
	assert.Equal(t, Basic, New().DetermineComplexity(req))
}

func TestDetermineComplexityFewFeaturesSmallSizeIsBasic(t *testing.T) {
	pattern := model.DataPatternDots
	req := model.Request{
		Data: "https://example.com", Size: 400,
		Customization: &model.Customization{DataPattern: &pattern},
	}
	assert.Equal(t, Basic, New().DetermineComplexity(req))
}

func TestDetermineComplexityTwoFeaturesIsMedium(t *testing.T) {
	border := model.EyeBorderRounded
	pattern := model.DataPatternDots
	req := model.Request{
		Data: "https://example.com", Size: 400,
		Customization: &model.Customization{EyeBorderStyle: &border, DataPattern: &pattern},
	}
	assert.Equal(t, Medium, New().DetermineComplexity(req))
}

func TestDetermineComplexityLogoIsAdvanced(t *testing.T) {
	border := model.EyeBorderRounded
	req := model.Request{
		Data: "https://example.com", Size: 400,
		Customization: &model.Customization{
			EyeBorderStyle: &border,
			Logo:           &model.LogoOptions{Data: "base64...", SizePercentage: 20, Shape: model.LogoCircle},
		},
	}
	assert.Equal(t, Advanced, New().DetermineComplexity(req))
}

func TestDetermineComplexityAnyEffectIsAtLeastAdvanced(t *testing.T) {
	req := model.Request{
		Data: "https://example.com", Size: 400,
		Customization: &model.Customization{
			Effects: []model.EffectOptions{{Type: model.EffectShadow, Params: model.ShadowParams{}}},
		},
	}
	assert.Equal(t, Advanced, New().DetermineComplexity(req))
}

func TestDetermineComplexityManyEffectsForcesUltra(t *testing.T) {
	req := model.Request{
		Data: "https://example.com", Size: 400,
		Customization: &model.Customization{
			Effects: []model.EffectOptions{
				{Type: model.EffectShadow, Params: model.ShadowParams{}},
				{Type: model.EffectGlow, Params: model.GlowParams{}},
				{Type: model.EffectBlur, Params: model.BlurParams{}},
			},
		},
	}
	assert.Equal(t, Ultra, New().DetermineComplexity(req))
}

func TestDetermineComplexitySpeechFrameForcesUltra(t *testing.T) {
	req := model.Request{
		Data: "https://example.com", Size: 400,
		Customization: &model.Customization{
			Frame: &model.FrameOptions{Type: model.FrameSpeech, Color: "#000000"},
		},
	}
	assert.Equal(t, Ultra, New().DetermineComplexity(req))
}

func TestDetermineComplexityLogoPlusGradientPlusEffectForcesUltra(t *testing.T) {
	req := model.Request{
		Data: "https://example.com", Size: 400,
		Customization: &model.Customization{
			Logo:     &model.LogoOptions{Data: "x", SizePercentage: 10},
			Gradient: &model.GradientOptions{Enabled: true, Type: model.GradientLinear, Colors: []string{"#fff", "#000"}},
			Effects:  []model.EffectOptions{{Type: model.EffectGlow, Params: model.GlowParams{}}},
		},
	}
	assert.Equal(t, Ultra, New().DetermineComplexity(req))
}

func TestDetermineComplexityLargeSizeCountsAsFeature(t *testing.T) {
	border := model.EyeBorderRounded
	req := model.Request{
		Data: "https://example.com", Size: 1200,
		Customization: &model.Customization{EyeBorderStyle: &border},
	}
	assert.Equal(t, Medium, New().DetermineComplexity(req))
}

func TestEstimateGenerationTimeOrdering(t *testing.T) {
	assert.Less(t, EstimateGenerationTime(Basic), EstimateGenerationTime(Medium))
	assert.Less(t, EstimateGenerationTime(Medium), EstimateGenerationTime(Advanced))
	assert.Less(t, EstimateGenerationTime(Advanced), EstimateGenerationTime(Ultra))
}

func TestGetResourceLimitsScaleWithLevel(t *testing.T) {
	assert.Less(t, GetResourceLimits(Basic).MaxCPUThreads, GetResourceLimits(Ultra).MaxCPUThreads)
}
