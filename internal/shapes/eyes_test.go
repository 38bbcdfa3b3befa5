package shapes

import (
	"testing"

	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestRenderBorderCoversAllEighteenStyles(t *testing.T) {
	r := NewEyeRenderer(10, 25, 0)
	styles := []model.EyeBorderStyle{
		model.EyeBorderSquare, model.EyeBorderRounded, model.EyeBorderCircle,
		model.EyeBorderQuarterRound, model.EyeBorderCutCorner, model.EyeBorderThick,
		model.EyeBorderDouble, model.EyeBorderDiamond, model.EyeBorderHexagon,
		model.EyeBorderCross, model.EyeBorderLeaf, model.EyeBorderArrow,
		model.EyeBorderTeardrop, model.EyeBorderWave, model.EyeBorderPetal,
		model.EyeBorderCrystal, model.EyeBorderFlame, model.EyeBorderOrganic,
	}
	assert.Len(t, styles, 18)
	for _, s := range styles {
		svg := r.RenderBorder(s, TopLeft, "#000000")
		assert.Contains(t, svg, "<path")
		assert.Contains(t, svg, `fill="#000000"`)
		assert.Contains(t, svg, `d="M`)
	}
}

func TestRenderCenterCoversAllNineStyles(t *testing.T) {
	r := NewEyeRenderer(10, 25, 0)
	styles := []model.EyeCenterStyle{
		model.EyeCenterSquare, model.EyeCenterRoundedSquare, model.EyeCenterCircle,
		model.EyeCenterSquircle, model.EyeCenterDot, model.EyeCenterStar,
		model.EyeCenterDiamond, model.EyeCenterCross, model.EyeCenterPlus,
	}
	assert.Len(t, styles, 9)
	for _, s := range styles {
		svg := r.RenderCenter(s, TopRight, "#ff0000")
		assert.Contains(t, svg, "<path")
		assert.Contains(t, svg, `fill="#ff0000"`)
	}
}

func TestOriginPlacesThreeEyesAtDistinctCorners(t *testing.T) {
	r := NewEyeRenderer(10, 25, 0)
	tlX, tlY := r.Origin(TopLeft, Outer)
	trX, trY := r.Origin(TopRight, Outer)
	blX, blY := r.Origin(BottomLeft, Outer)

	assert.Equal(t, 0.0, tlX)
	assert.Equal(t, 0.0, tlY)
	assert.Greater(t, trX, tlX)
	assert.Equal(t, tlY, trY)
	assert.Greater(t, blY, tlY)
	assert.Equal(t, tlX, blX)
}

func TestInnerComponentIsOffsetAndSmallerThanOuter(t *testing.T) {
	r := NewEyeRenderer(10, 25, 0)
	outerX, outerY := r.Origin(TopLeft, Outer)
	innerX, innerY := r.Origin(TopLeft, Inner)

	assert.Greater(t, innerX, outerX)
	assert.Greater(t, innerY, outerY)
	assert.Less(t, r.Size(Inner), r.Size(Outer))
}

func TestQuietZoneShiftsEveryOrigin(t *testing.T) {
	plain := NewEyeRenderer(1, 25, 0)
	withQuiet := NewEyeRenderer(1, 25, 4)
	px, py := plain.Origin(TopLeft, Outer)
	qx, qy := withQuiet.Origin(TopLeft, Outer)
	assert.Equal(t, px+4, qx)
	assert.Equal(t, py+4, qy)
}

func TestBorderPathAndCenterPathReturnRawPathData(t *testing.T) {
	r := NewEyeRenderer(1, 25, 4)
	border := r.BorderPath(model.EyeBorderSquare, TopLeft)
	center := r.CenterPath(model.EyeCenterSquare, TopLeft)
	assert.NotContains(t, border, "<path")
	assert.Contains(t, border, "M")
	assert.NotContains(t, center, "<path")
	assert.Contains(t, center, "M")
}
