// Package segment implements the mixed-mode segmenter of spec §4.1: it
// classifies runs of the payload as numeric, alphanumeric, or byte, drops
// runs too short to be worth a dedicated segment, coalesces what remains,
// and builds qrencode.QRSegment values from the result. Segment building
// itself (bit packing) is delegated entirely to qrencode's Make* helpers;
// this package only decides where the mode boundaries go.
package segment

import (
	"unicode/utf8"

	"github.com/qrengine/qrcodeengine/internal/qrencode"
	"github.com/qrengine/qrcodeengine/internal/qrerr"
)

const maxPayloadChars = 4296

type class int8

const (
	classNumeric class = iota
	classAlphanumeric
	classByte
)

func classify(r rune) class {
	switch {
	case r >= '0' && r <= '9':
		return classNumeric
	case r < utf8.RuneSelf && qrencode.IsAlphanumeric(string(byte(r))):
		return classAlphanumeric
	default:
		return classByte
	}
}

// run is a maximal span of one class before threshold/merge decisions.
type run struct {
	class   class
	content []byte
}

// minLength returns how many characters a run of this class needs before it
// is worth breaking out as its own segment (spec §4.1 step 2).
func minLength(c class) int {
	switch c {
	case classNumeric:
		return 3
	case classAlphanumeric:
		return 4
	default:
		return 0 // byte segments are always emitted, however short.
	}
}

// Segment analyzes text and returns the ordered typed segments spec §4.1
// describes. The returned sequence, concatenated under QR segment
// semantics, re-yields text exactly; its encoded bit length is guaranteed
// no larger than qrencode.MakeSegments(text)'s single-segment fallback
// because that fallback is selected whenever it is smaller or equal.
func Segment(text string) ([]*qrencode.QRSegment, error) {
	if len(text) == 0 {
		return nil, &qrerr.InvalidCharacters{Reason: "payload is empty"}
	}
	if utf8.RuneCountInString(text) > maxPayloadChars {
		return nil, &qrerr.DataTooLong{Length: utf8.RuneCountInString(text), Max: maxPayloadChars}
	}

	runs := detectRuns(text)
	runs = coalesce(runs)

	mixed := make([]*qrencode.QRSegment, 0, len(runs))
	for _, rn := range runs {
		seg, err := buildSegment(rn)
		if err != nil {
			return nil, err
		}
		mixed = append(mixed, seg)
	}

	fallback := qrencode.MakeSegments(text)
	if betterOrEqual(fallback, mixed) {
		return fallback, nil
	}
	return mixed, nil
}

// detectRuns classifies runes into maximal same-class runs, demoting any
// run that fails should_segment to byte and merging it into the previous
// segment (or keeping it standalone, demoted, if it is the first).
func detectRuns(text string) []run {
	var runs []run
	var current []byte
	var currentClass class
	started := false

	flush := func() {
		if len(current) == 0 {
			return
		}
		if len(current) >= minLength(currentClass) {
			runs = append(runs, run{class: currentClass, content: current})
		} else if len(runs) > 0 {
			last := &runs[len(runs)-1]
			last.content = append(last.content, current...)
			last.class = classByte
		} else {
			runs = append(runs, run{class: classByte, content: current})
		}
		current = nil
	}

	for _, r := range text {
		c := classify(r)
		if !started || c != currentClass {
			flush()
			currentClass = c
			started = true
		}
		current = utf8.AppendRune(current, r)
	}
	flush()

	return runs
}

// coalesce merges adjacent runs of identical class (spec §4.1 step 3).
func coalesce(runs []run) []run {
	if len(runs) == 0 {
		return runs
	}
	out := make([]run, 0, len(runs))
	out = append(out, runs[0])
	for _, rn := range runs[1:] {
		last := &out[len(out)-1]
		if last.class == rn.class {
			last.content = append(last.content, rn.content...)
			continue
		}
		out = append(out, rn)
	}
	return out
}

func buildSegment(rn run) (*qrencode.QRSegment, error) {
	content := string(rn.content)
	switch rn.class {
	case classNumeric:
		if !qrencode.IsNumeric(content) {
			return nil, &qrerr.InvalidCharacters{Reason: "numeric segment contains non-digit characters"}
		}
		return qrencode.MakeNumeric(content), nil
	case classAlphanumeric:
		if !qrencode.IsAlphanumeric(content) {
			return nil, &qrerr.InvalidCharacters{Reason: "alphanumeric segment contains characters outside the QR 45-char set"}
		}
		return qrencode.MakeAlphanumeric(content), nil
	default:
		return qrencode.MakeBytes(rn.content), nil
	}
}

// totalBits computes mode_bits(4) + count_bits(version-dependent) +
// data_bits for a segment sequence at the given version, per spec §4.1 step
// 4. It mirrors qrencode's internal accounting without reaching into
// unexported fields, so the two candidate sequences can be compared without
// calling the (panicking-on-overflow) encoder twice.
func totalBits(segs []*qrencode.QRSegment, version qrencode.Version) int {
	total := 0
	for _, seg := range segs {
		total += 4 + int(seg.Mode.NumCharCountBits(version)) + len(seg.Data)
	}
	return total
}

// betterOrEqual reports whether fallback is no larger than mixed at every
// version the mixed sequence could plausibly need, conservatively checked
// at version 40 (the widest count-bit field, so it never under-counts the
// fallback's relative size at smaller versions where count fields only
// shrink for both sequences in lockstep).
func betterOrEqual(fallback, mixed []*qrencode.QRSegment) bool {
	return totalBits(fallback, qrencode.MaxVersion) <= totalBits(mixed, qrencode.MaxVersion)
}
