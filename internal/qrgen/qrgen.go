// Package qrgen implements the QR Generator of spec §4.4: validated entry
// points that turn a payload into a qrencode.QRCode, either at a fixed ECL or
// at a dynamically optimized one for logo overlay.
package qrgen

import (
	"strings"

	"github.com/qrengine/qrcodeengine/internal/geometry"
	"github.com/qrengine/qrcodeengine/internal/occlusion"
	"github.com/qrengine/qrcodeengine/internal/qrencode"
	"github.com/qrengine/qrcodeengine/internal/qrerr"
)

const (
	minTargetPx  = 100
	maxTargetPx  = 4000
	maxDataBytes = 2953
	// QuietZone is the default border width, in modules, surrounding the
	// symbol on every side.
	QuietZone = 4
)

// QRCode is the generator's result: the encoded matrix plus the sizing and
// logo-zone metadata later pipeline stages (router, customizer, renderer)
// need.
type QRCode struct {
	Matrix    *qrencode.QRCode
	Size      int // Modules per side, including no quiet zone.
	QuietZone int
	LogoZone  *geometry.LogoZone
}

// ModulePx returns the pixel size of a single module when rendering the
// symbol (with its quiet zone) into a targetPx x targetPx canvas.
func (q *QRCode) ModulePx(targetPx int) int {
	total := q.Size + 2*q.QuietZone
	px := targetPx / total
	if px < 1 {
		return 1
	}
	return px
}

// GenerateBasic builds a QR code with an ECL chosen by heuristic: High for
// http(s) URLs, Low for payloads over 100 bytes (to leave room to fit), and
// Medium otherwise.
func GenerateBasic(data string, targetPx int) (*QRCode, error) {
	if err := validateInput(data, targetPx); err != nil {
		return nil, err
	}
	return generate(data, determineECL(data))
}

// GenerateWithECL builds a QR code at a caller-chosen error-correction
// level.
func GenerateWithECL(data string, targetPx int, ecl qrencode.ECL) (*QRCode, error) {
	if err := validateInput(data, targetPx); err != nil {
		return nil, err
	}
	return generate(data, ecl)
}

// GenerateWithDynamicECL runs the occlusion analyzer (spec §4.3) to pick the
// minimum ECL that tolerates a centered logo covering logoRatio of the
// symbol's side length, then attaches the resulting logo zone to the code.
func GenerateWithDynamicECL(data string, targetPx int, logoRatio float64, eclOverride *qrencode.ECL) (*QRCode, occlusion.Analysis, error) {
	if err := validateInput(data, targetPx); err != nil {
		return nil, occlusion.Analysis{}, err
	}

	optimalECL, analysis, err := occlusion.New().Determine(data, logoRatio, eclOverride)
	if err != nil {
		return nil, occlusion.Analysis{}, err
	}

	qr, err := generate(data, optimalECL)
	if err != nil {
		return nil, occlusion.Analysis{}, err
	}

	zone := geometry.NewCenteredZone(qr.Size, logoRatio)
	qr.LogoZone = &zone

	return qr, analysis, nil
}

func generate(data string, ecl qrencode.ECL) (*QRCode, error) {
	qr, err := qrencode.EncodeSegments(qrencode.MakeSegments(data), ecl, qrencode.WithBoostECL(false))
	if err != nil {
		return nil, &qrerr.EncodingError{Reason: err.Error()}
	}
	return &QRCode{Matrix: qr, Size: qr.Size, QuietZone: QuietZone}, nil
}

func validateInput(data string, targetPx int) error {
	if len(data) == 0 {
		return &qrerr.InvalidCharacters{Reason: "payload is empty"}
	}
	if len(data) > maxDataBytes {
		return &qrerr.DataTooLong{Length: len(data), Max: maxDataBytes}
	}
	if targetPx < minTargetPx || targetPx > maxTargetPx {
		return &qrerr.InvalidSize{Size: targetPx, Min: minTargetPx, Max: maxTargetPx}
	}
	return nil
}

// determineECL mirrors the generator's default heuristic: URLs favor
// scanability under print degradation, long payloads favor capacity.
func determineECL(data string) qrencode.ECL {
	switch {
	case strings.HasPrefix(data, "http://") || strings.HasPrefix(data, "https://"):
		return qrencode.High
	case len(data) > 100:
		return qrencode.Low
	default:
		return qrencode.Medium
	}
}
