package segment

import (
	"strings"
	"testing"

	"github.com/qrengine/qrcodeengine/internal/qrencode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSegmentAllDigitsYieldsOneNumericSegment(t *testing.T) {
	segs, err := Segment("123456789012345")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, qrencode.Numeric, segs[0].Mode)
}

func TestSegmentAllAlphanumericYieldsOneSegment(t *testing.T) {
	segs, err := Segment("HELLO WORLD")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, qrencode.Alphanumeric, segs[0].Mode)
}

func TestSegmentMixedRuns(t *testing.T) {
	segs, err := Segment("ABCD12345678901234567890WXYZ")
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, qrencode.Alphanumeric, segs[0].Mode)
	assert.Equal(t, qrencode.Numeric, segs[1].Mode)
	assert.Equal(t, qrencode.Alphanumeric, segs[2].Mode)
}

func TestSegmentShortNumericRunDemotesToByte(t *testing.T) {
	// "12" is below the numeric threshold of 3 and has nothing preceding it
	// to merge into, so the run detector demotes it to a lone byte run. The
	// single numeric segment of the fallback encodes it in fewer bits, so
	// Segment returns that instead.
	runs := detectRuns("12")
	require.Len(t, runs, 1)
	assert.Equal(t, classByte, runs[0].class)

	segs, err := Segment("12")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, qrencode.Numeric, segs[0].Mode)
}

func TestSegmentShortAlphanumericRunMergesIntoPrecedingByte(t *testing.T) {
	// "ABC" (3 chars) is below the alphanumeric threshold of 4, so it merges
	// into the preceding byte run rather than standing alone.
	segs, err := Segment("!!!ABC")
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, qrencode.Byte, segs[0].Mode)
}

func TestSegmentEmptyFails(t *testing.T) {
	_, err := Segment("")
	assert.Error(t, err)
}

func TestSegmentTooLongFails(t *testing.T) {
	_, err := Segment(strings.Repeat("A", 5000))
	assert.Error(t, err)
}

func TestSegmentURLKeepsTrailingNumericRun(t *testing.T) {
	segs, err := Segment("https://instagram.com/user12345")
	require.NoError(t, err)
	last := segs[len(segs)-1]
	assert.Equal(t, qrencode.Numeric, last.Mode)
	assert.Equal(t, 5, last.NumChars)
}

func TestSegmentNeverExceedsSingleSegmentFallback(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		text := rapid.StringMatching(`[A-Za-z0-9 ]{1,200}`).Draw(tt, "text")
		segs, err := Segment(text)
		require.NoError(tt, err)
		fallback := qrencode.MakeSegments(text)
		assert.True(tt, totalBits(segs, qrencode.MaxVersion) <= totalBits(fallback, qrencode.MaxVersion))
	})
}
