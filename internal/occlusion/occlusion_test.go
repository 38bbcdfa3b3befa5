package occlusion

import (
	"testing"

	"github.com/qrengine/qrcodeengine/internal/qrencode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectECLForPercentage(t *testing.T) {
	assert.Equal(t, qrencode.Low, selectECLForPercentage(5))
	assert.Equal(t, qrencode.Low, selectECLForPercentage(7))
	assert.Equal(t, qrencode.Medium, selectECLForPercentage(7.1))
	assert.Equal(t, qrencode.Medium, selectECLForPercentage(15))
	assert.Equal(t, qrencode.Quartile, selectECLForPercentage(15.1))
	assert.Equal(t, qrencode.Quartile, selectECLForPercentage(25))
	assert.Equal(t, qrencode.High, selectECLForPercentage(25.1))
}

func TestECLCapacityVersion1Medium(t *testing.T) {
	c := ecCapacity(1, qrencode.Medium)
	assert.Equal(t, 16, c.DataCodewords)
	assert.Equal(t, 26, c.TotalCodewords)
}

func TestDetermineConvergesForSmallLogo(t *testing.T) {
	opt := New()
	ecl, analysis, err := opt.Determine("https://example.com", 0.1, nil)
	require.NoError(t, err)
	assert.Equal(t, qrencode.Medium, ecl)
	assert.Less(t, analysis.OcclusionPercentage, 7.0)
}

func TestDetermineConvergesAcrossAllLogoRatios(t *testing.T) {
	opt := New()
	for _, ratio := range []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5} {
		_, _, err := opt.Determine("https://codex.com", ratio, nil)
		require.NoError(t, err)
	}
}

func TestDetermineUsesOverrideDirectly(t *testing.T) {
	opt := New()
	override := qrencode.High
	ecl, _, err := opt.Determine("hello", 0.2, &override)
	require.NoError(t, err)
	assert.Equal(t, qrencode.High, ecl)
}

func TestDetermineUpgradesEclForLargeLogo(t *testing.T) {
	opt := New()
	ecl, analysis, err := opt.Determine("https://codex.com", 0.3, nil)
	require.NoError(t, err)
	assert.Contains(t, []qrencode.ECL{qrencode.Quartile, qrencode.High}, ecl)
	assert.Greater(t, analysis.OccludedModules, 0)
}
