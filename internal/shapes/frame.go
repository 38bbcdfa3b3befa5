package shapes

import (
	"fmt"

	"github.com/qrengine/qrcodeengine/internal/model"
)

// FrameRenderer builds the decorative frame path surrounding the quiet zone
// (spec §3's frame_type row, 5 variants).
type FrameRenderer struct{}

// NewFrameRenderer returns a FrameRenderer; there is no per-instance state.
func NewFrameRenderer() FrameRenderer {
	return FrameRenderer{}
}

// FramePath builds the SVG path data for frameType around a
// (totalSize x totalSize) canvas (the matrix plus quiet zone), matching the
// teacher's generate_frame_path's padding/radius conventions.
func (FrameRenderer) FramePath(frameType model.FrameType, totalSize int) string {
	const padding = 2
	size := totalSize

	switch frameType {
	case model.FrameSimple:
		return simpleFramePath(size, padding)
	case model.FrameRounded:
		return roundedFramePath(size, padding, 5)
	case model.FrameBubble:
		return bubbleFramePath(size, padding)
	case model.FrameSpeech:
		return speechFramePath(size, padding)
	case model.FrameBadge:
		return badgeFramePath(size, padding)
	default:
		return simpleFramePath(size, padding)
	}
}

func simpleFramePath(size, padding int) string {
	full := size + padding*2
	return fmt.Sprintf("M%d %dh%dv%dH%dz", -padding, -padding, full, full, -padding)
}

func roundedFramePath(size, padding, radius int) string {
	full := size + padding*2 - radius*2
	return fmt.Sprintf(
		"M%d %dh%da%d %d 0 0 1 %d %dv%da%d %d 0 0 1 -%d %dH%da%d %d 0 0 1 -%d -%dv%da%d %d 0 0 1 %d -%dz",
		-padding+radius, -padding,
		full,
		radius, radius, radius, radius,
		full,
		radius, radius, radius, radius,
		-padding+radius,
		radius, radius, radius, radius,
		-padding+radius,
		radius, radius, radius, radius,
	)
}

// bubbleFramePath is a heavily rounded rect (a large radius relative to
// size), evoking a speech-bubble silhouette without the pointer tail.
func bubbleFramePath(size, padding int) string {
	return roundedFramePath(size, padding, 16)
}

// speechFramePath extends the rounded frame with a small triangular tail
// at the bottom center, like a chat bubble's pointer.
func speechFramePath(size, padding int) string {
	base := roundedFramePath(size, padding, 8)
	full := size + padding*2
	cx := full/2 - padding
	tailWidth := full / 10
	tailHeight := full / 12
	tail := fmt.Sprintf(" M%d %d l%d %d l-%d 0 z", cx-tailWidth/2, size+padding, tailWidth/2, tailHeight, tailWidth)
	return base + tail
}

// badgeFramePath is a rounded frame with a small ribbon notch cut from the
// top edge, evoking an award-badge silhouette.
func badgeFramePath(size, padding int) string {
	base := roundedFramePath(size, padding, 6)
	full := size + padding*2
	cx := full/2 - padding
	notchWidth := full / 8
	notchDepth := full / 20
	notch := fmt.Sprintf(" M%d %d l%d %d l%d -%d l%d %d z",
		cx-notchWidth/2, -padding, notchWidth/2, notchDepth, notchWidth/2, notchDepth, -notchWidth, 0)
	return base + notch
}

// SanitizeFrameText strips a frame caption to alphanumerics, whitespace and
// a small punctuation set, and truncates to 50 runes, matching the
// teacher's XSS-defense sanitize_text.
func SanitizeFrameText(text string) string {
	allowedPunct := map[rune]bool{'!': true, '?': true, '.': true, ',': true}
	out := make([]rune, 0, len(text))
	for _, r := range text {
		if len(out) >= 50 {
			break
		}
		if isAlphanumericOrSpace(r) || allowedPunct[r] {
			out = append(out, r)
		}
	}
	return string(out)
}

func isAlphanumericOrSpace(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r == ' ' || r == '\t' || r == '\n':
		return true
	default:
		return false
	}
}
