package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLeavesSeparatedFormUntouchedWhenBothSet(t *testing.T) {
	legacy := EyeShapeCircle
	border := EyeBorderDiamond
	center := EyeCenterStar
	c := &Customization{EyeShape: &legacy, EyeBorderStyle: &border, EyeCenterStyle: &center}

	c.Normalize()

	assert.Equal(t, EyeBorderDiamond, *c.EyeBorderStyle)
	assert.Equal(t, EyeCenterStar, *c.EyeCenterStyle)
}

func TestNormalizeFillsSeparatedFormFromLegacy(t *testing.T) {
	legacy := EyeShapeHexagon
	c := &Customization{EyeShape: &legacy}

	c.Normalize()

	if assert.NotNil(t, c.EyeBorderStyle) {
		assert.Equal(t, EyeBorderHexagon, *c.EyeBorderStyle)
	}
	if assert.NotNil(t, c.EyeCenterStyle) {
		assert.Equal(t, EyeCenterSquircle, *c.EyeCenterStyle)
	}
}

func TestNormalizeIsNoOpWithoutLegacyField(t *testing.T) {
	c := &Customization{}
	c.Normalize()
	assert.Nil(t, c.EyeBorderStyle)
	assert.Nil(t, c.EyeCenterStyle)
}

func TestNormalizeHandlesNilReceiver(t *testing.T) {
	var c *Customization
	assert.NotPanics(t, func() { c.Normalize() })
}
