// Command qrenginedemo is a small end-to-end exercise of the Engine Facade:
// it generates one QR code from CLI flags, writes the SVG to a temp file,
// and optionally opens it in the system's default browser. It exists to
// give the engine a runnable surface, the way the teacher package was a
// pure library with no such entry point of its own.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/browser"

	"github.com/qrengine/qrcodeengine/internal/engine"
	"github.com/qrengine/qrcodeengine/internal/logging"
	"github.com/qrengine/qrcodeengine/internal/model"
)

func main() {
	data := flag.String("data", "https://example.com", "payload to encode")
	size := flag.Int("size", 512, "target canvas size in pixels")
	structured := flag.Bool("structured", false, "request the structured JSON-style output instead of SVG")
	open := flag.Bool("open", false, "open the result in the default browser")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := logging.LevelInfo
	if *verbose {
		level = logging.LevelDebug
	}
	logging.Init(logging.Options{Level: level})

	req := model.Request{Data: *data, Size: *size, Format: model.OutputSVG}
	if *structured {
		req.Format = model.OutputStructured
	}

	e := engine.New(nil)
	out, err := e.Generate(context.Background(), req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate:", err)
		os.Exit(1)
	}

	fmt.Printf("level=%s version=%d ecl=%s generation_time_ms=%.2f quality_score=%.2f cached=%v features=%v\n",
		out.Level, out.Version, out.ErrorCorrection, out.GenerationTimeMS, out.QualityScore, out.Cached, out.FeaturesUsed)

	if req.Format == model.OutputStructured {
		fmt.Printf("structured output has %d eye paths and content hash %s\n",
			len(out.Structured.Paths.Eyes), out.Structured.Metadata.ContentHash)
		return
	}

	path, err := writeTempSVG(out.SVG)
	if err != nil {
		fmt.Fprintln(os.Stderr, "write temp file:", err)
		os.Exit(1)
	}
	fmt.Println("wrote", path)

	if *open {
		if err := browser.OpenFile(path); err != nil {
			fmt.Fprintln(os.Stderr, "open browser:", err)
			os.Exit(1)
		}
	}
}

func writeTempSVG(svg string) (string, error) {
	f, err := os.CreateTemp("", "qrenginedemo-*.svg")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(svg); err != nil {
		return "", err
	}
	return filepath.Abs(f.Name())
}
