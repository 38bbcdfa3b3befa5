// Package router implements the Complexity Router of spec §4.5: it counts a
// request's active customization features and dispatches it to one of four
// pipelines, each with its own soft time budget and resource ceiling.
package router

import (
	"time"

	"github.com/qrengine/qrcodeengine/internal/model"
)

// Level is a pipeline tag.
type Level int8

const (
	Basic Level = iota
	Medium
	Advanced
	Ultra
)

func (l Level) String() string {
	switch l {
	case Basic:
		return "basic"
	case Medium:
		return "medium"
	case Advanced:
		return "advanced"
	case Ultra:
		return "ultra"
	default:
		return "unknown"
	}
}

const (
	basicMaxSize           = 600
	mediumFeatureCount     = 2
	advancedFeatureCount   = 4
	largeSizeThreshold     = 1000
	longPayloadThreshold   = 500
	ultraEffectCountTrigger = 2
	ultraGradientStopTrigger = 3
)

// ResourceLimits bounds a pipeline's worker usage (spec §4.5 / §5).
type ResourceLimits struct {
	MaxMemoryMB   int
	MaxCPUThreads int
	Timeout       time.Duration
}

var timeBudget = map[Level]time.Duration{
	Basic:    20 * time.Millisecond,
	Medium:   50 * time.Millisecond,
	Advanced: 100 * time.Millisecond,
	Ultra:    200 * time.Millisecond,
}

var resourceLimits = map[Level]ResourceLimits{
	Basic:    {MaxMemoryMB: 10, MaxCPUThreads: 1, Timeout: 100 * time.Millisecond},
	Medium:   {MaxMemoryMB: 25, MaxCPUThreads: 2, Timeout: 200 * time.Millisecond},
	Advanced: {MaxMemoryMB: 50, MaxCPUThreads: 4, Timeout: 500 * time.Millisecond},
	Ultra:    {MaxMemoryMB: 100, MaxCPUThreads: 8, Timeout: time.Second},
}

// EstimateGenerationTime returns the level's soft time budget, used only for
// admission/backpressure decisions (spec §4.5).
func EstimateGenerationTime(level Level) time.Duration {
	return timeBudget[level]
}

// GetResourceLimits returns the level's worker/memory ceiling.
func GetResourceLimits(level Level) ResourceLimits {
	return resourceLimits[level]
}

// Router dispatches a request to a pipeline level.
type Router struct{}

// New returns a Router with the default thresholds.
func New() Router { return Router{} }

// DetermineComplexity implements spec §4.5's decision table: no
// customization is always Basic; any effect present forces at least
// Advanced; otherwise the feature count F routes through
// Basic/Medium/Advanced/Ultra; a handful of combinations force Ultra
// regardless of F.
func (Router) DetermineComplexity(req model.Request) Level {
	custom := req.Customization
	if custom == nil {
		return Basic
	}

	count := countFeatures(req)
	if hasUltraFeatures(custom) {
		return Ultra
	}

	if len(custom.Effects) > 0 {
		if count > advancedFeatureCount {
			return Ultra
		}
		return Advanced
	}

	switch {
	case count <= 1 && req.Size <= basicMaxSize:
		return Basic
	case count <= mediumFeatureCount:
		return Medium
	case count <= advancedFeatureCount:
		return Advanced
	default:
		return Ultra
	}
}

// countFeatures sums the active-feature weights of spec §4.5.
func countFeatures(req model.Request) int {
	count := 0
	if custom := req.Customization; custom != nil {
		if custom.EyeBorderStyle != nil || custom.EyeCenterStyle != nil || custom.EyeShape != nil {
			count++
		}
		if custom.DataPattern != nil {
			count++
		}
		if custom.Colors != nil {
			count++
		}
		if g := custom.Gradient; g != nil && g.Enabled {
			count++
			if g.Type == model.GradientConic || g.Type == model.GradientSpiral {
				count++
			}
		}
		if custom.Logo != nil {
			count += 2
		}
		if custom.Frame != nil {
			count++
		}
		count += len(custom.Effects)
	}

	if req.Size > largeSizeThreshold {
		count++
	}
	if len(req.Data) > longPayloadThreshold {
		count++
	}
	return count
}

// hasUltraFeatures reports the combinations that force Ultra regardless of
// feature count (spec §4.5).
func hasUltraFeatures(custom *model.Customization) bool {
	if len(custom.Effects) > ultraEffectCountTrigger {
		return true
	}
	if f := custom.Frame; f != nil && (f.Type == model.FrameSpeech || f.Type == model.FrameBadge) {
		return true
	}
	if g := custom.Gradient; g != nil && len(g.Colors) > ultraGradientStopTrigger {
		return true
	}
	if custom.Logo != nil && custom.Gradient != nil && len(custom.Effects) > 0 {
		return true
	}
	return false
}
