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
 *
 * Modeled after https://github.com/nayuki/QR-Code-generator.
 */

// Package qrencode is the low-level ISO/IEC 18004 symbol encoder: segment
// packing, Reed-Solomon error correction, mask selection and function-pattern
// placement. It has no notion of eyes, data-module glyphs, gradients or
// logos; callers treat it as a fixed primitive and post-process the module
// grid it returns.
package qrencode

// Version is the QR code version, a number in the range [1, 40]. The side of
// the resulting symbol is 17 + 4*Version modules.
type Version int8

// Mask identifies one of the eight XOR patterns applied to non-function
// modules to improve scanability. -1 requests automatic selection.
type Mask int8

// module is a single cell of the symbol matrix: 0 for white, 1 for black.
type module uint8

// AlignmentPatternPositions returns the ascending center-coordinate list
// used on both axes for this version's alignment patterns (empty for
// version 1). Exposed so callers building untouchable-zone maps do not
// have to recompute the per-version table themselves.
func AlignmentPatternPositions(version Version) []byte {
	return alignmentPatternPositions[version]
}
