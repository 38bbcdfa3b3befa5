package gradients

import (
	"strings"
	"testing"

	"github.com/qrengine/qrcodeengine/internal/colors"
	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLinearGradientContainsEndpointColors(t *testing.T) {
	angle := 45.0
	opts := model.GradientOptions{Type: model.GradientLinear, Colors: []string{"#000000", "#ffffff"}, Angle: &angle}

	g, err := NewBuilder().Build(opts, nil)
	require.NoError(t, err)
	assert.Contains(t, g.SVGDefinition, "linearGradient")
	assert.Contains(t, g.SVGDefinition, "#000000")
	assert.Contains(t, g.SVGDefinition, "#ffffff")
	assert.True(t, strings.HasPrefix(g.FillReference, "url(#qr_gradient_"))
}

func TestBuildRadialGradientContainsEndpointColors(t *testing.T) {
	opts := model.GradientOptions{Type: model.GradientRadial, Colors: []string{"#0000ff", "#ff0000"}}

	g, err := NewBuilder().Build(opts, nil)
	require.NoError(t, err)
	assert.Contains(t, g.SVGDefinition, "radialGradient")
	assert.Contains(t, g.SVGDefinition, "#0000ff")
	assert.Contains(t, g.SVGDefinition, "#ff0000")
}

func TestBuildMultiStopGradientEmitsAllOffsets(t *testing.T) {
	opts := model.GradientOptions{
		Type:   model.GradientLinear,
		Colors: []string{"#ff0000", "#00ff00", "#0000ff"},
	}

	g, err := NewBuilder().Build(opts, nil)
	require.NoError(t, err)
	assert.Contains(t, g.SVGDefinition, "0.0%")
	assert.Contains(t, g.SVGDefinition, "50.0%")
	assert.Contains(t, g.SVGDefinition, "100.0%")
}

func TestBuildRejectsTooManyStops(t *testing.T) {
	opts := model.GradientOptions{
		Type:   model.GradientLinear,
		Colors: []string{"#000000", "#111111", "#222222", "#333333", "#444444", "#555555"},
	}
	_, err := NewBuilder().Build(opts, nil)
	require.Error(t, err)
}

func TestBuildRejectsNoStops(t *testing.T) {
	_, err := NewBuilder().Build(model.GradientOptions{Type: model.GradientLinear}, nil)
	require.Error(t, err)
}

func TestBuildWithCanvasSizeUsesAbsoluteUnits(t *testing.T) {
	size := 400
	opts := model.GradientOptions{Type: model.GradientRadial, Colors: []string{"#000000", "#ffffff"}}

	g, err := NewBuilder().Build(opts, &size)
	require.NoError(t, err)
	assert.Contains(t, g.SVGDefinition, "userSpaceOnUse")
}

func TestBuildDiamondAndConicProduceDistinctDefinitions(t *testing.T) {
	diamond, err := NewBuilder().Build(model.GradientOptions{Type: model.GradientDiamond, Colors: []string{"#000000", "#ffffff"}}, nil)
	require.NoError(t, err)
	conic, err := NewBuilder().Build(model.GradientOptions{Type: model.GradientConic, Colors: []string{"#000000", "#ffffff"}}, nil)
	require.NoError(t, err)
	spiral, err := NewBuilder().Build(model.GradientOptions{Type: model.GradientSpiral, Colors: []string{"#000000", "#ffffff"}}, nil)
	require.NoError(t, err)

	assert.NotEqual(t, diamond.SVGDefinition, conic.SVGDefinition)
	assert.NotEqual(t, conic.SVGDefinition, spiral.SVGDefinition)
}

func TestValidateContrastFailsForLowContrastEndpoint(t *testing.T) {
	gray1, _ := colors.Parse("#777777")
	gray2, _ := colors.Parse("#888888")
	bg, _ := colors.Parse("#808080")

	err := ValidateContrast(gray1, gray2, bg, 4.5)
	require.Error(t, err)
}

func TestValidateContrastPassesForHighContrastEndpoints(t *testing.T) {
	black, _ := colors.Parse("#000000")
	darkGray, _ := colors.Parse("#404040")
	white, _ := colors.Parse("#ffffff")

	require.NoError(t, ValidateContrast(black, darkGray, white, 4.5))
}

func TestBuilderIDsAreSequentialAndUnique(t *testing.T) {
	b := NewBuilder()
	g1, _ := b.Build(model.GradientOptions{Type: model.GradientLinear, Colors: []string{"#000000", "#ffffff"}}, nil)
	g2, _ := b.Build(model.GradientOptions{Type: model.GradientLinear, Colors: []string{"#000000", "#ffffff"}}, nil)
	assert.NotEqual(t, g1.ID, g2.ID)
}
