/*
 * Copyright © 2020, G.Ralph Kuntz, MD.
 *
 * Licensed under the Apache License, Version 2.0(the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIC
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package qrencode

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestAppendBitsToBuffer(t *testing.T) {
	bb := make(bitBuffer, 0)

	bb.appendBits(0, 0)
	assert.Equal(t, 0, len(bb))

	bb.appendBits(1, 1)
	assert.Equal(t, []byte{1}, []byte(bb))

	bb.appendBits(0, 1)
	assert.Equal(t, []byte{1, 0}, []byte(bb))

	bb.appendBits(5, 3)
	assert.Equal(t, []byte{1, 0, 1, 0, 1}, []byte(bb))
}

func TestNumDataCodewords(t *testing.T) {
	cases := [][3]int{
		{3, 1, 44},
		{6, 0, 136},
		{9, 1, 182},
		{15, 0, 523},
		{22, 3, 442},
		{40, 1, 2334},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc[2], DataCodewords(Version(tc[0]), ECL(tc[1])))
		})
	}
}

func TestNumRawDataModules(t *testing.T) {
	cases := [][2]int{
		{1, 208},
		{7, 1568},
		{22, 10068},
		{40, 29648},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc[1], numRawDataModules[tc[0]])
		})
	}
}

func TestReedSolomonComputeDivisor(t *testing.T) {
	generator := reedSolomonComputeDivisor(5)
	assert.Equal(t, byte(0x1F), generator[0])
	assert.Equal(t, byte(0xC6), generator[1])
	assert.Equal(t, byte(0x3F), generator[2])
	assert.Equal(t, byte(0x93), generator[3])
	assert.Equal(t, byte(0x74), generator[4])
}

func TestGetAlignmentPatternPositions(t *testing.T) {
	cases := [][9]int{
		{1, 0, -1, -1, -1, -1, -1, -1, -1},
		{2, 2, 6, 18, -1, -1, -1, -1, -1},
		{7, 3, 6, 22, 38, -1, -1, -1, -1},
		{40, 7, 6, 30, 58, 86, 114, 142, 170},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			pos := alignmentPatternPositions[tc[0]]
			assert.Equal(t, tc[1], len(pos))
			for i := 0; i < len(pos); i++ {
				assert.Equal(t, tc[i+2], int(pos[i]))
			}
		})
	}
}

func TestIsAlphanumeric(t *testing.T) {
	cases := []struct {
		answer bool
		text   string
	}{
		{true, ""}, {true, "0"}, {true, "A"}, {false, "a"}, {true, " "},
		{true, "XYZ"}, {false, "XYZ!"}, {true, "79068"}, {true, "+123 ABC$"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc.answer, IsAlphanumeric(tc.text))
		})
	}
}

func TestIsNumeric(t *testing.T) {
	cases := []struct {
		answer bool
		text   string
	}{
		{true, ""}, {true, "0"}, {false, "A"}, {true, "79068"}, {false, "7a"},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc.answer, IsNumeric(tc.text))
		})
	}
}

func TestMakeNumeric(t *testing.T) {
	seg := MakeNumeric("3141592653")
	assert.Equal(t, Numeric, seg.Mode)
	assert.Equal(t, 10, seg.NumChars)
	assert.Equal(t, 34, len(seg.Data))
}

func TestMakeAlphanumeric(t *testing.T) {
	seg := MakeAlphanumeric("Q R")
	assert.Equal(t, Alphanumeric, seg.Mode)
	assert.Equal(t, 3, seg.NumChars)
	assert.Equal(t, 17, len(seg.Data))
}

func TestMakeEci(t *testing.T) {
	seg, err := MakeECI(10345)
	assert.NoError(t, err)
	assert.Equal(t, ECI, seg.Mode)
	assert.Equal(t, 16, len(seg.Data))

	_, err = MakeECI(1_000_000)
	assert.Error(t, err)
}

func TestParseECL(t *testing.T) {
	for s, want := range map[string]ECL{"L": Low, "M": Medium, "Q": Quartile, "H": High} {
		got, ok := ParseECL(s)
		assert.True(t, ok)
		assert.Equal(t, want, got)
		assert.Equal(t, s, got.String())
	}

	_, ok := ParseECL("Z")
	assert.False(t, ok)
}

func TestEncodeTextProducesValidSymbol(t *testing.T) {
	for _, text := range []string{"HELLO WORLD", "0123456789", "https://example.com/path?q=1", "日本語テキスト"} {
		for ecl := Low; ecl <= High; ecl++ {
			qr, err := EncodeText(text, ecl)
			assert.NoError(t, err)
			assert.True(t, qr.Size >= 21)
			assert.True(t, int(qr.Version) >= 1 && int(qr.Version) <= 40)

			hasBlack, hasWhite := false, false
			for y := 0; y < qr.Size; y++ {
				for x := 0; x < qr.Size; x++ {
					if qr.ModuleAt(x, y) {
						hasBlack = true
					} else {
						hasWhite = true
					}
				}
			}
			assert.True(t, hasBlack)
			assert.True(t, hasWhite)
		}
	}
}

func TestEncodeSegmentsRespectsMinVersion(t *testing.T) {
	seg := MakeNumeric("1")
	qr, err := EncodeSegments([]*QRSegment{seg}, Low, WithMinVersion(5))
	assert.NoError(t, err)
	assert.Equal(t, Version(5), qr.Version)
}

func TestEncodeSegmentsRejectsOversizedData(t *testing.T) {
	huge := make([]byte, 4000)
	seg := MakeBytes(huge)
	_, err := EncodeSegments([]*QRSegment{seg}, High, WithMaxVersion(5))
	assert.Error(t, err)
}

func TestWithMaxVersionSetsMaxNotMin(t *testing.T) {
	s := segmentEncoder{minVersion: 1, maxVersion: 40}
	WithMaxVersion(10)(&s)
	assert.Equal(t, Version(1), s.minVersion)
	assert.Equal(t, Version(10), s.maxVersion)
}

func TestExplicitMaskIsHonored(t *testing.T) {
	seg := MakeAlphanumeric("HELLO")
	for m := Mask(0); m < 8; m++ {
		qr, err := EncodeSegments([]*QRSegment{seg}, Quartile, WithMask(m))
		assert.NoError(t, err)
		assert.Equal(t, m, qr.Mask)
	}
}

// TestEncodeTextSizeMatchesVersionProperty exercises EncodeText over a wide range of
// generated payloads, checking the invariants that must hold regardless of
// input: a square symbol sized by version, and a non-degenerate module grid.
func TestEncodeTextSizeMatchesVersionProperty(t *testing.T) {
	rapid.Check(t, func(tt *rapid.T) {
		text := rapid.StringMatching(`[A-Z0-9 ]{0,80}`).Draw(tt, "text")
		ecl := ECL(rapid.IntRange(0, 3).Draw(tt, "ecl"))

		qr, err := EncodeText(text, ecl)
		if len(text) == 0 {
			return
		}
		assert.NoError(tt, err)
		assert.Equal(tt, int(qr.Version)*4+17, qr.Size)
	})
}
