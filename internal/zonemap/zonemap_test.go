package zonemap

import (
	"testing"

	"github.com/qrengine/qrcodeengine/internal/qrencode"
	"github.com/stretchr/testify/assert"
)

func hasType(zones []Zone, t ZoneType) bool {
	for _, z := range zones {
		if z.Type == t {
			return true
		}
	}
	return false
}

func TestVersion1HasNoAlignmentOrVersionInfo(t *testing.T) {
	zones := For(1)
	assert.True(t, hasType(zones, FinderPattern))
	assert.True(t, hasType(zones, Separator))
	assert.True(t, hasType(zones, TimingPattern))
	assert.True(t, hasType(zones, FormatInfo))
	assert.False(t, hasType(zones, AlignmentPattern))
	assert.False(t, hasType(zones, VersionInfo))
}

func TestVersion7HasAlignmentAndVersionInfo(t *testing.T) {
	zones := For(7)
	assert.True(t, hasType(zones, AlignmentPattern))
	assert.True(t, hasType(zones, VersionInfo))

	count := 0
	for _, z := range zones {
		if z.Type == AlignmentPattern {
			count++
		}
	}
	assert.Equal(t, 6, count)
}

func TestIsUntouchableCoversFinderAndTiming(t *testing.T) {
	assert.True(t, IsUntouchable(1, 0, 0))
	assert.True(t, IsUntouchable(1, 6, 6))
	assert.True(t, IsUntouchable(1, 10, 6))
	assert.True(t, IsUntouchable(1, 6, 10))
	assert.False(t, IsUntouchable(1, 10, 10))
}

func TestAllVersionsHaveThreeFinderPatternsAndTwoTimingLines(t *testing.T) {
	for v := qrencode.Version(1); v <= qrencode.MaxVersion; v++ {
		zones := For(v)
		finders, timing := 0, 0
		for _, z := range zones {
			switch z.Type {
			case FinderPattern:
				finders++
			case TimingPattern:
				timing++
			}
		}
		assert.Equal(t, 3, finders, "version %d", v)
		assert.Equal(t, 2, timing, "version %d", v)

		hasAlignment := hasType(zones, AlignmentPattern)
		assert.Equal(t, v >= 2, hasAlignment, "version %d", v)

		hasVersionInfo := hasType(zones, VersionInfo)
		assert.Equal(t, v >= 7, hasVersionInfo, "version %d", v)
	}
}
