// Package occlusion implements the ECL Optimizer of spec §4.3: given a
// payload and a logo footprint ratio, it iteratively selects the minimum
// error-correction level whose recovery capacity covers the logo's
// excludable-module footprint plus a safety margin.
package occlusion

import (
	"github.com/qrengine/qrcodeengine/internal/geometry"
	"github.com/qrengine/qrcodeengine/internal/qrencode"
	"github.com/qrengine/qrcodeengine/internal/qrerr"
	"github.com/qrengine/qrcodeengine/internal/zonemap"
)

const (
	defaultSafetyMargin = 0.05
	maxIterations        = 3
)

// Analysis is the occlusion report attached to a dynamic-ECL generation
// result (spec §4.3 / §4.4).
type Analysis struct {
	OccludedModules     int
	AffectedCodewords   int
	OcclusionPercentage float64 // In [0, 100].
	RecommendedECL      qrencode.ECL
	QRVersion           qrencode.Version
}

// Optimizer selects ECLs with a configurable safety margin (fraction, e.g.
// 0.05 for 5 percentage points).
type Optimizer struct {
	SafetyMargin float64
}

// New returns an Optimizer using the default 5% safety margin.
func New() Optimizer {
	return Optimizer{SafetyMargin: defaultSafetyMargin}
}

// Determine runs the fixed-point iteration of spec §4.3. If override is
// non-nil, it is used directly and the analysis is computed once without
// iterating.
func (o Optimizer) Determine(payload string, logoRatio float64, override *qrencode.ECL) (qrencode.ECL, Analysis, error) {
	if override != nil {
		analysis, err := o.analyzeWithECL(payload, logoRatio, *override)
		return *override, analysis, err
	}

	current := qrencode.Medium
	for i := 0; i < maxIterations; i++ {
		analysis, err := o.analyzeWithECL(payload, logoRatio, current)
		if err != nil {
			return 0, Analysis{}, err
		}
		if analysis.RecommendedECL == current {
			return current, analysis, nil
		}
		current = analysis.RecommendedECL
	}
	return 0, Analysis{}, &qrerr.EncodingError{Reason: "ECL did not converge after 3 iterations"}
}

func (o Optimizer) analyzeWithECL(payload string, logoRatio float64, ecl qrencode.ECL) (Analysis, error) {
	qr, err := qrencode.EncodeText(payload, ecl)
	if err != nil {
		return Analysis{}, &qrerr.EncodingError{Reason: err.Error()}
	}

	zones := zonemap.For(qr.Version)
	logoZone := geometry.NewCenteredZone(qr.Size, logoRatio)

	excludable := geometry.CountExcludableModules(qr.Size, logoZone, zones)
	affectedCodewords := (excludable + 7) / 8

	capacity := ecCapacity(qr.Version, ecl)
	occlusionPct := float64(affectedCodewords) / float64(capacity.TotalCodewords) * 100

	recommended := selectECLForPercentage(occlusionPct + o.SafetyMargin*100)

	return Analysis{
		OccludedModules:     excludable,
		AffectedCodewords:   affectedCodewords,
		OcclusionPercentage: occlusionPct,
		RecommendedECL:      recommended,
		QRVersion:           qr.Version,
	}, nil
}

// eclCapacity mirrors the version x ECL capacity table: exact values for
// versions {1, 2, 5, 10}, a closed-form fallback elsewhere (spec §4.3).
type eclCapacity struct {
	DataCodewords, TotalCodewords int
}

var exactCapacities = map[qrencode.Version]map[qrencode.ECL][2]int{
	1:  {qrencode.Low: {19, 26}, qrencode.Medium: {16, 26}, qrencode.Quartile: {13, 26}, qrencode.High: {9, 26}},
	2:  {qrencode.Low: {34, 44}, qrencode.Medium: {28, 44}, qrencode.Quartile: {22, 44}, qrencode.High: {16, 44}},
	5:  {qrencode.Low: {106, 134}, qrencode.Medium: {84, 134}, qrencode.Quartile: {60, 134}, qrencode.High: {46, 134}},
	10: {qrencode.Low: {293, 346}, qrencode.Medium: {231, 346}, qrencode.Quartile: {163, 346}, qrencode.High: {125, 346}},
}

var recoveryFactor = map[qrencode.ECL]float64{
	qrencode.Low:      0.85,
	qrencode.Medium:   0.70,
	qrencode.Quartile: 0.50,
	qrencode.High:     0.35,
}

func ecCapacity(version qrencode.Version, ecl qrencode.ECL) eclCapacity {
	if table, ok := exactCapacities[version]; ok {
		if pair, ok := table[ecl]; ok {
			return eclCapacity{DataCodewords: pair[0], TotalCodewords: pair[1]}
		}
	}
	base := 4 + int(version)*16
	return eclCapacity{DataCodewords: int(float64(base) * recoveryFactor[ecl]), TotalCodewords: base}
}

// selectECLForPercentage picks the minimum ECL whose recovery capacity
// covers percentage (in [0, 100]), per the L<=7/M<=15/Q<=25/H thresholds of
// spec §4.3.
func selectECLForPercentage(percentage float64) qrencode.ECL {
	switch {
	case percentage <= 7:
		return qrencode.Low
	case percentage <= 15:
		return qrencode.Medium
	case percentage <= 25:
		return qrencode.Quartile
	default:
		return qrencode.High
	}
}
