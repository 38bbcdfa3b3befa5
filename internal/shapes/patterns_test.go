package shapes

import (
	"testing"

	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderModuleCoversAllThirteenPatterns(t *testing.T) {
	r := NewPatternRenderer(10)
	patterns := []model.DataPattern{
		model.DataPatternSquare, model.DataPatternSquareSmall, model.DataPatternDots,
		model.DataPatternRounded, model.DataPatternVertical, model.DataPatternHorizontal,
		model.DataPatternDiamond, model.DataPatternCircular, model.DataPatternStar,
		model.DataPatternCross, model.DataPatternRandom, model.DataPatternWave,
		model.DataPatternMosaic,
	}
	assert.Len(t, patterns, 13)
	for _, p := range patterns {
		svg := r.RenderModule(p, 3, 4, "#000000")
		assert.NotEmpty(t, svg)
		assert.Regexp(t, `(fill|stroke)="#000000"`, svg)
	}
}

func TestIsEyeAreaDetectsAllThreeFinderCorners(t *testing.T) {
	r := NewPatternRenderer(10)
	assert.True(t, r.IsEyeArea(0, 0, 21))
	assert.True(t, r.IsEyeArea(6, 6, 21))
	assert.False(t, r.IsEyeArea(7, 7, 21))
	assert.True(t, r.IsEyeArea(15, 0, 21))
	assert.True(t, r.IsEyeArea(20, 6, 21))
	assert.True(t, r.IsEyeArea(0, 15, 21))
	assert.True(t, r.IsEyeArea(6, 20, 21))
}

func TestRenderRandomModuleIsDeterministicForSamePosition(t *testing.T) {
	r := NewPatternRenderer(10)
	first := r.RenderModule(model.DataPatternRandom, 5, 9, "#123456")
	second := r.RenderModule(model.DataPatternRandom, 5, 9, "#123456")
	assert.Equal(t, first, second)
}

func TestRenderMosaicModuleAlternatesByParity(t *testing.T) {
	r := NewPatternRenderer(10)
	checker := r.RenderModule(model.DataPatternMosaic, 0, 0, "#000000")
	ring := r.RenderModule(model.DataPatternMosaic, 1, 0, "#000000")
	assert.Contains(t, checker, "<rect")
	assert.Contains(t, ring, "<circle")
}
