package effects

import (
	"strings"
	"testing"

	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFilterCoversAllTenEffectTypes(t *testing.T) {
	cases := []model.EffectOptions{
		{Type: model.EffectShadow, Params: model.ShadowParams{}},
		{Type: model.EffectGlow, Params: model.GlowParams{}},
		{Type: model.EffectBlur, Params: model.BlurParams{}},
		{Type: model.EffectNoise, Params: model.NoiseParams{}},
		{Type: model.EffectVintage, Params: model.VintageParams{}},
		{Type: model.EffectDistort, Params: model.DistortParams{}},
		{Type: model.EffectEmboss, Params: model.EmbossParams{}},
		{Type: model.EffectOutline, Params: model.OutlineParams{}},
		{Type: model.EffectDropShadow, Params: model.DropShadowParams{}},
		{Type: model.EffectInnerShadow, Params: model.InnerShadowParams{}},
	}
	for _, c := range cases {
		def, err := CreateFilter("qr-effect-test-0", c)
		require.NoError(t, err)
		assert.Contains(t, def, "<filter id=\"qr-effect-test-0\"")
	}
}

func TestCreateShadowFilterRejectsNegativeBlurRadius(t *testing.T) {
	neg := -1.0
	_, err := createShadowFilter("id", model.ShadowParams{BlurRadius: &neg})
	require.Error(t, err)
}

func TestCreateShadowFilterRejectsOutOfRangeOpacity(t *testing.T) {
	over := 1.5
	_, err := createShadowFilter("id", model.ShadowParams{Opacity: &over})
	require.Error(t, err)
}

func TestCreateNoiseFilterRejectsOutOfRangeIntensity(t *testing.T) {
	over := 2.0
	_, err := createNoiseFilter("id", model.NoiseParams{Intensity: &over})
	require.Error(t, err)
}

func TestApplyAssignsSequentialFilterIDs(t *testing.T) {
	p := NewProcessor()
	f1, err := p.Apply(model.EffectOptions{Type: model.EffectGlow, Params: model.GlowParams{}})
	require.NoError(t, err)
	f2, err := p.Apply(model.EffectOptions{Type: model.EffectGlow, Params: model.GlowParams{}})
	require.NoError(t, err)
	assert.NotEqual(t, f1.ID, f2.ID)
	assert.True(t, strings.HasPrefix(f1.ID, "qr-effect-glow-"))
}

func TestValidateCombinationRejectsTooManyEffects(t *testing.T) {
	effects := make([]model.EffectOptions, 6)
	for i := range effects {
		effects[i] = model.EffectOptions{Type: model.EffectGlow, Params: model.GlowParams{}}
	}
	require.Error(t, ValidateCombination(effects))
}

func TestValidateCombinationRejectsBlurPlusNoise(t *testing.T) {
	effects := []model.EffectOptions{
		{Type: model.EffectBlur, Params: model.BlurParams{}},
		{Type: model.EffectNoise, Params: model.NoiseParams{}},
	}
	require.Error(t, ValidateCombination(effects))
}

func TestValidateCombinationAllowsCompatibleEffects(t *testing.T) {
	effects := []model.EffectOptions{
		{Type: model.EffectShadow, Params: model.ShadowParams{}},
		{Type: model.EffectGlow, Params: model.GlowParams{}},
	}
	require.NoError(t, ValidateCombination(effects))
}

func TestOptimizeForScanabilityClampsShadowBlurAndOpacity(t *testing.T) {
	blur, opacity := 10.0, 0.9
	effects := []model.EffectOptions{
		{Type: model.EffectShadow, Params: model.ShadowParams{BlurRadius: &blur, Opacity: &opacity}},
	}
	OptimizeForScanability(effects)
	p := effects[0].Params.(model.ShadowParams)
	assert.Equal(t, shadowScanabilityBlur, *p.BlurRadius)
	assert.Equal(t, shadowScanabilityOpac, *p.Opacity)
}

func TestOptimizeForScanabilityClampsBlurRadius(t *testing.T) {
	radius := 5.0
	effects := []model.EffectOptions{{Type: model.EffectBlur, Params: model.BlurParams{Radius: &radius}}}
	OptimizeForScanability(effects)
	p := effects[0].Params.(model.BlurParams)
	assert.Equal(t, blurScanabilityRadius, *p.Radius)
}

func TestOptimizeForScanabilityClampsNoiseIntensity(t *testing.T) {
	intensity := 0.9
	effects := []model.EffectOptions{{Type: model.EffectNoise, Params: model.NoiseParams{Intensity: &intensity}}}
	OptimizeForScanability(effects)
	p := effects[0].Params.(model.NoiseParams)
	assert.Equal(t, noiseScanabilityIntens, *p.Intensity)
}

func TestApplySingleFilterCreatesDefsWhenAbsent(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><g fill="#000"></g></svg>`
	out, err := ApplySingleFilter(svg, "qr-effect-glow-0", `<filter id="qr-effect-glow-0"></filter>`)
	require.NoError(t, err)
	assert.Contains(t, out, "<defs>")
	assert.Contains(t, out, `filter="url(#qr-effect-glow-0)"`)
}

func TestApplySingleFilterAppendsToExistingDefs(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><defs><filter id="existing"></filter></defs><g fill="#000"></g></svg>`
	out, err := ApplySingleFilter(svg, "qr-effect-glow-0", `<filter id="qr-effect-glow-0"></filter>`)
	require.NoError(t, err)
	assert.Contains(t, out, "existing")
	assert.Contains(t, out, "qr-effect-glow-0")
}

func TestApplySelectiveEffectsScopesFiltersPerComponent(t *testing.T) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg"><g class="qr-eyes"></g><g class="qr-data"></g></svg>`
	se := &model.SelectiveEffects{
		Eyes: []model.ScopedEffect{{Effect: model.EffectOptions{Type: model.EffectGlow, Params: model.GlowParams{}}}},
		Data: []model.ScopedEffect{{Effect: model.EffectOptions{Type: model.EffectBlur, Params: model.BlurParams{}}}},
	}

	out, err := NewProcessor().ApplySelectiveEffects(svg, se)
	require.NoError(t, err)
	assert.Contains(t, out, "qr-eyes-effect-glow-0")
	assert.Contains(t, out, "qr-data-effect-blur-0")
	assert.Contains(t, out, `class="qr-eyes" filter="url(#qr-eyes-effect-glow-0)"`)
}

func TestApplySelectiveEffectsIsNoOpWithNilInput(t *testing.T) {
	svg := `<svg></svg>`
	out, err := NewProcessor().ApplySelectiveEffects(svg, nil)
	require.NoError(t, err)
	assert.Equal(t, svg, out)
}
