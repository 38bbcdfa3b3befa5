package qrgen

import (
	"strings"
	"testing"

	"github.com/qrengine/qrcodeengine/internal/qrencode"
	"github.com/qrengine/qrcodeengine/internal/qrerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBasicChoosesHighForURL(t *testing.T) {
	qr, err := GenerateBasic("https://example.com/promo", 300)
	require.NoError(t, err)
	assert.Equal(t, qrencode.High, qr.Matrix.ErrorCorrectionLevel)
}

func TestGenerateBasicChoosesLowForLongPayload(t *testing.T) {
	qr, err := GenerateBasic(strings.Repeat("a", 150), 300)
	require.NoError(t, err)
	assert.Equal(t, qrencode.Low, qr.Matrix.ErrorCorrectionLevel)
}

func TestGenerateBasicChoosesMediumByDefault(t *testing.T) {
	qr, err := GenerateBasic("hello world", 300)
	require.NoError(t, err)
	assert.Equal(t, qrencode.Medium, qr.Matrix.ErrorCorrectionLevel)
}

func TestGenerateBasicRejectsEmptyPayload(t *testing.T) {
	_, err := GenerateBasic("", 300)
	require.Error(t, err)
	var target *qrerr.InvalidCharacters
	assert.ErrorAs(t, err, &target)
}

func TestGenerateBasicRejectsOversizedPayload(t *testing.T) {
	_, err := GenerateBasic(strings.Repeat("a", 3000), 300)
	require.Error(t, err)
	var target *qrerr.DataTooLong
	assert.ErrorAs(t, err, &target)
}

func TestGenerateBasicRejectsOutOfRangeSize(t *testing.T) {
	_, err := GenerateBasic("hello", 50)
	require.Error(t, err)
	var target *qrerr.InvalidSize
	assert.ErrorAs(t, err, &target)

	_, err = GenerateBasic("hello", 5000)
	require.Error(t, err)
	assert.ErrorAs(t, err, &target)
}

func TestGenerateWithECLHonorsExplicitLevel(t *testing.T) {
	qr, err := GenerateWithECL("hello world", 300, qrencode.Quartile)
	require.NoError(t, err)
	assert.Equal(t, qrencode.Quartile, qr.Matrix.ErrorCorrectionLevel)
}

func TestModulePxNeverBelowOne(t *testing.T) {
	qr, err := GenerateBasic("hello", 100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, qr.ModulePx(100), 1)
}

func TestGenerateWithDynamicECLAttachesLogoZone(t *testing.T) {
	qr, analysis, err := GenerateWithDynamicECL("https://example.com", 300, 0.2, nil)
	require.NoError(t, err)
	require.NotNil(t, qr.LogoZone)
	assert.Equal(t, analysis.QRVersion, qr.Matrix.Version)
}

func TestGenerateWithDynamicECLRespectsOverride(t *testing.T) {
	override := qrencode.High
	qr, _, err := GenerateWithDynamicECL("hello", 300, 0.15, &override)
	require.NoError(t, err)
	assert.Equal(t, qrencode.High, qr.Matrix.ErrorCorrectionLevel)
}

func TestGenerateWithDynamicECLValidatesInputFirst(t *testing.T) {
	_, _, err := GenerateWithDynamicECL("", 300, 0.2, nil)
	require.Error(t, err)
	var target *qrerr.InvalidCharacters
	assert.ErrorAs(t, err, &target)
}
