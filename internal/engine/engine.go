// Package engine is the Engine Facade of spec §5/§9: the single entry point
// that ties the router, generator, occlusion optimizer, customizer, logo
// integrator, and renderers together behind one Generate call, with the
// Request Cache in front and the complexity-routed pipelines (Basic/Medium/
// Advanced/Ultra) behind. Grounded on
// original_source/rust_generator/src/engine/mod.rs's QrEngine: the same
// cache-key-then-route-then-dispatch shape, the same rayon::join-style
// parallel asset preparation for the Advanced pipeline (here an
// errgroup.Group), and the same best-effort, request-outliving cache write.
package engine

import (
	"context"
	"image"
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"golang.org/x/sync/errgroup"

	"github.com/qrengine/qrcodeengine/internal/cache"
	"github.com/qrengine/qrcodeengine/internal/customizer"
	"github.com/qrengine/qrcodeengine/internal/logging"
	"github.com/qrengine/qrcodeengine/internal/logo"
	"github.com/qrengine/qrcodeengine/internal/model"
	"github.com/qrengine/qrcodeengine/internal/occlusion"
	"github.com/qrengine/qrcodeengine/internal/qrgen"
	"github.com/qrengine/qrcodeengine/internal/render"
	"github.com/qrengine/qrcodeengine/internal/router"
)

// largeSymbolThreshold is spec §5's "Parallel large-QR rendering" cutoff: a
// matrix with more than this many module rows is rendered across a
// row-chunked worker pool instead of in a single pass.
const largeSymbolThreshold = 25

// rowChunkSize is the row-span each worker pool task covers (spec §5).
const rowChunkSize = 50

// defaultLogoRatio is spec §4.3's fallback logo-size fraction when neither
// LogoSizeRatio nor LogoOptions.SizePercentage is set.
const defaultLogoRatio = 0.2

// cacheStoreTimeout bounds the fire-and-forget cache write so a slow or
// wedged distributed tier can never hold a background goroutine open
// indefinitely.
const cacheStoreTimeout = 2 * time.Second

// Engine is the facade. The zero value is not usable; construct with New.
type Engine struct {
	cache  *cache.RequestCache
	router router.Router
	pool   *workerpool.WorkerPool
	log    *slog.Logger
}

// New builds an Engine. requestCache may be nil, in which case a local-only,
// 1000-entry cache is used (spec §4.8's default).
func New(requestCache *cache.RequestCache) *Engine {
	if requestCache == nil {
		requestCache = cache.New(1000, nil)
	}
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		cache:  requestCache,
		router: router.New(),
		pool:   workerpool.New(workers),
		log:    logging.Named("engine"),
	}
}

// Output is what Generate returns: the rendered artifact in the requested
// format plus the metadata spec §9 asks every response to carry.
type Output struct {
	Format           model.OutputFormat
	SVG              string
	Structured       *render.Enhanced
	Level            router.Level
	Version          int
	Modules          int
	ErrorCorrection  string
	GenerationTimeMS float64
	Cached           bool
	FeaturesUsed     []string
	// QualityScore is spec §7's contrast-driven quality signal: 1.0 unless
	// customizer.Apply found one or more InsufficientContrast pairs, in
	// which case it is reduced but the request still succeeds.
	QualityScore float64
}

// Generate is the facade's one operation: normalize, route, check cache,
// dispatch to the matching pipeline, cache the result, return.
func (e *Engine) Generate(ctx context.Context, req model.Request) (Output, error) {
	if req.Customization != nil {
		req.Customization.Normalize()
	}
	level := e.router.DetermineComplexity(req)
	e.log.Debug("routed request", "level", level.String(), "size", req.Size)

	key, err := e.cacheKey(req)
	if err != nil {
		return Output{}, err
	}

	if artifact, ok := e.cache.Lookup(ctx, key); ok {
		out := outputFromArtifact(artifact, req.Format)
		out.Level = level
		out.FeaturesUsed = []string{"cached"}
		return out, nil
	}

	start := time.Now()
	var out Output
	switch level {
	case router.Basic:
		out, err = e.generateBasic(req)
	case router.Medium:
		out, err = e.generateMedium(req)
	default:
		// Ultra currently reuses the Advanced pipeline: per
		// original_source/rust_generator/src/engine/mod.rs's
		// generate_ultra, which is itself a phase-3 stub that delegates
		// to generate_advanced.
		out, err = e.generateAdvanced(ctx, req)
	}
	if err != nil {
		return Output{}, err
	}
	out.Level = level
	elapsed := time.Since(start)
	if elapsed > router.EstimateGenerationTime(level) {
		e.log.Warn("soft deadline exceeded", "level", level.String(), "elapsed", elapsed)
	}
	out.GenerationTimeMS = float64(elapsed.Microseconds()) / 1000.0
	out.FeaturesUsed = usedFeatures(req)

	e.storeAsync(key, out)
	return out, nil
}

// cacheKey picks spec §6.5's external key format: it distinguishes the SVG
// and structured outputs via the qrv3/qrv3e prefix, which the internal
// fingerprint of spec §4.8 does not. cache.Fingerprint remains available as
// a simpler advisory hash for callers (e.g. a future optimizer-level render
// cache) that don't need format-discrimination.
func (e *Engine) cacheKey(req model.Request) (string, error) {
	eclLetter := "auto"
	if req.Customization != nil && req.Customization.ErrorCorrection != nil {
		eclLetter = req.Customization.ErrorCorrection.String()
	}
	return cache.Key(req.Data, eclLetter, req.Customization, req.Format == model.OutputStructured)
}

func outputFromArtifact(a cache.Artifact, format model.OutputFormat) Output {
	out := Output{
		Format:          format,
		Version:         a.Version,
		Modules:         a.Modules,
		ErrorCorrection: a.ErrorCorrection,
		QualityScore:    a.QualityScore,
		Cached:          true,
	}
	switch v := a.Data.(type) {
	case string:
		out.SVG = v
	case *render.Enhanced:
		out.Structured = v
	}
	return out
}

func (e *Engine) storeAsync(key string, out Output) {
	artifact := cache.Artifact{
		Version:         out.Version,
		Modules:         out.Modules,
		ErrorCorrection: out.ErrorCorrection,
		QualityScore:    out.QualityScore,
		ProcessingTime:  time.Duration(out.GenerationTimeMS * float64(time.Millisecond)),
		GeneratedAt:     time.Now(),
	}
	if out.Format == model.OutputStructured {
		artifact.Data = out.Structured
	} else {
		artifact.Data = out.SVG
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cacheStoreTimeout)
		defer cancel()
		e.cache.Store(ctx, key, artifact)
	}()
}

// generateBasic is spec §4.5's Basic pipeline: generate, apply the (at most
// one-feature) customization the router let through, render, done.
func (e *Engine) generateBasic(req model.Request) (Output, error) {
	qr, err := qrgen.GenerateBasic(req.Data, req.Size)
	if err != nil {
		return Output{}, err
	}
	applied, err := customizer.Apply(req.Customization, nil)
	if err != nil {
		return Output{}, err
	}
	in := render.Input{
		Matrix:          matrixFromQR(qr),
		Version:         int(qr.Matrix.Version),
		ErrorCorrection: qr.Matrix.ErrorCorrectionLevel.String(),
		QuietZone:       qr.QuietZone,
		Customization:   req.Customization,
		Applied:         applied,
	}
	return e.finish(req, in)
}

// generateMedium applies the Customizer's color/pattern/gradient/effect
// decisions to an otherwise unmodified basic matrix (spec §4.5's Medium
// tier: no logo, no frame, no row-chunked rendering).
func (e *Engine) generateMedium(req model.Request) (Output, error) {
	qr, err := qrgen.GenerateBasic(req.Data, req.Size)
	if err != nil {
		return Output{}, err
	}
	applied, err := customizer.Apply(req.Customization, nil)
	if err != nil {
		return Output{}, err
	}
	in := render.Input{
		Matrix:          matrixFromQR(qr),
		Version:         int(qr.Matrix.Version),
		ErrorCorrection: qr.Matrix.ErrorCorrectionLevel.String(),
		QuietZone:       qr.QuietZone,
		Customization:   req.Customization,
		Applied:         applied,
	}
	return e.finish(req, in)
}

// generateAdvanced is spec §4.5/§5's Advanced tier: matrix generation
// (dynamic-ECL when a logo is present) and customization/logo-decode asset
// preparation run concurrently, joined with errgroup before the logo is cut
// into the matrix and the symbol is rendered — row-chunked across the
// worker pool when N > 25. Grounded on
// original_source/rust_generator/src/engine/mod.rs's generate_advanced,
// whose rayon::join(generate_basic, prepare_advanced_assets) is the same
// join expressed with Rust's data-parallelism library instead of Go's.
func (e *Engine) generateAdvanced(ctx context.Context, req model.Request) (Output, error) {
	custom := req.Customization
	canvasSize := req.Size

	var qr *qrgen.QRCode
	var occlusionAnalysis occlusion.Analysis
	var applied customizer.Result
	var preloadedLogo image.Image

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var genErr error
		if hasLogo(custom) {
			var ecl = custom.ErrorCorrection
			qr, occlusionAnalysis, genErr = qrgen.GenerateWithDynamicECL(req.Data, req.Size, logoRatio(custom), ecl)
		} else if custom != nil && custom.ErrorCorrection != nil {
			qr, genErr = qrgen.GenerateWithECL(req.Data, req.Size, *custom.ErrorCorrection)
		} else {
			qr, genErr = qrgen.GenerateBasic(req.Data, req.Size)
		}
		return genErr
	})
	g.Go(func() error {
		var applyErr error
		applied, applyErr = customizer.Apply(custom, &canvasSize)
		if applyErr != nil {
			return applyErr
		}
		if hasLogo(custom) {
			preloadedLogo, applyErr = logo.DecodeDataURL(custom.Logo.Data)
		}
		return applyErr
	})
	if err := g.Wait(); err != nil {
		return Output{}, err
	}

	matrix := matrixFromQR(qr)
	in := render.Input{
		Matrix:          matrix,
		Version:         int(qr.Matrix.Version),
		ErrorCorrection: qr.Matrix.ErrorCorrectionLevel.String(),
		QuietZone:       qr.QuietZone,
		Customization:   custom,
		Applied:         applied,
	}

	if hasLogo(custom) {
		result, err := logo.Integrate(matrix, *custom.Logo, preloadedLogo, qr.Matrix.Version)
		if err != nil {
			return Output{}, err
		}
		in.Logo = &render.LogoPlacement{
			Src:     custom.Logo.Data,
			Size:    result.Area.Width,
			Shape:   custom.Logo.Shape.String(),
			Padding: custom.Logo.Padding,
			X:       result.Area.X,
			Y:       result.Area.Y,
		}
		in.Exclusion = &render.ExclusionInfo{
			OccludedModules:     occlusionAnalysis.OccludedModules,
			CapacityLossPercent: result.CapacityLossPercent,
			RequiresHighECC:     result.RequiresHighECC,
		}
	}

	e.fillPrecomputed(&in)

	return e.finish(req, in)
}

// fillPrecomputed populates Input.PrecomputedDataPath/
// PrecomputedDataGroupBody for symbols over largeSymbolThreshold rows,
// splitting the matrix into rowChunkSize-row chunks rendered concurrently
// across the engine's worker pool and concatenated back in chunk order
// (spec §5's "Parallel large-QR rendering": chunks are position-independent
// so the concatenation is byte-identical to a single-threaded pass).
func (e *Engine) fillPrecomputed(in *render.Input) {
	n := len(in.Matrix)
	if n <= largeSymbolThreshold {
		return
	}
	dataPattern := model.DataPatternSquare
	if in.Applied.DataShape != nil {
		dataPattern = *in.Applied.DataShape
	}

	type chunkResult struct {
		index int
		path  string
		body  string
	}

	numChunks := (n + rowChunkSize - 1) / rowChunkSize
	results := make([]chunkResult, numChunks)
	var wg sync.WaitGroup
	for start, idx := 0, 0; start < n; start, idx = start+rowChunkSize, idx+1 {
		end := start + rowChunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		rowStart, rowEnd, chunkIdx := start, end, idx
		e.pool.Submit(func() {
			defer wg.Done()
			results[chunkIdx] = chunkResult{
				index: chunkIdx,
				path:  render.DataPathChunk(in.Matrix, dataPattern, in.QuietZone, rowStart, rowEnd),
				body:  render.DataGroupBodyChunk(in.Matrix, dataPattern, in.QuietZone, in.Applied.DataFill, rowStart, rowEnd),
			}
		})
	}
	wg.Wait()
	sort.Slice(results, func(a, b int) bool { return results[a].index < results[b].index })

	var pathB, bodyB strings.Builder
	for _, r := range results {
		if r.path == "" {
			continue
		}
		if pathB.Len() > 0 {
			pathB.WriteByte(' ')
		}
		pathB.WriteString(r.path)
	}
	for _, r := range results {
		bodyB.WriteString(r.body)
	}
	path := pathB.String()
	body := bodyB.String()
	in.PrecomputedDataPath = &path
	in.PrecomputedDataGroupBody = &body
}

// finish runs the shared render step (Structured or SVG, per the request's
// OutputFormat) and assembles the Output.
func (e *Engine) finish(req model.Request, in render.Input) (Output, error) {
	out := Output{
		Format:          req.Format,
		Version:         in.Version,
		Modules:         len(in.Matrix) + 2*in.QuietZone,
		ErrorCorrection: in.ErrorCorrection,
		QualityScore:    in.Applied.QualityScore,
	}
	if req.Format == model.OutputStructured {
		enhanced, err := render.BuildStructured(in)
		if err != nil {
			return Output{}, err
		}
		out.Structured = &enhanced
		return out, nil
	}
	svg, err := render.BuildSVG(in)
	if err != nil {
		return Output{}, err
	}
	out.SVG = svg
	return out, nil
}

func matrixFromQR(qr *qrgen.QRCode) [][]bool {
	size := qr.Matrix.Size
	out := make([][]bool, size)
	for y := 0; y < size; y++ {
		row := make([]bool, size)
		for x := 0; x < size; x++ {
			row[x] = qr.Matrix.ModuleAt(x, y)
		}
		out[y] = row
	}
	return out
}

func hasLogo(c *model.Customization) bool {
	return c != nil && c.Logo != nil
}

// logoRatio resolves the fraction of the symbol's width the logo should
// occupy, preferring the explicit override (spec §4.3's "Open Question:
// ratio override") over the logo's own size_percentage.
func logoRatio(c *model.Customization) float64 {
	if c.LogoSizeRatio != nil {
		return *c.LogoSizeRatio
	}
	if c.Logo != nil && c.Logo.SizePercentage > 0 {
		return c.Logo.SizePercentage / 100.0
	}
	return defaultLogoRatio
}

// usedFeatures builds spec §9's feature-name list, grounded on
// original_source/rust_generator/src/engine/mod.rs's get_used_features.
func usedFeatures(req model.Request) []string {
	features := []string{"basic_generation"}
	c := req.Customization
	if c == nil {
		return features
	}
	if c.EyeBorderStyle != nil || c.EyeCenterStyle != nil || c.EyeShape != nil {
		features = append(features, "custom_eyes")
	}
	if c.DataPattern != nil {
		features = append(features, "custom_pattern")
	}
	if c.Gradient != nil && c.Gradient.Enabled {
		features = append(features, "gradient")
	}
	if c.Logo != nil {
		features = append(features, "logo_embedding")
	}
	if c.Frame != nil {
		features = append(features, "frame_decoration")
	}
	if len(c.Effects) > 0 {
		features = append(features, "visual_effects")
		for _, eo := range c.Effects {
			features = append(features, "effect_"+eo.Type.String())
		}
	}
	return features
}
