package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"img2gcode/gcode"
	"img2gcode/picture"
	"img2gcode/raster"
)

// Config holds every parameter of a raster conversion.
type Config struct {
	gcode.Placement
	Mode             gcode.Mode
	DownsampleFactor int
	// Threshold is the weighted channel average at or below which a cell
	// is drawn.
	Threshold float64
	Weights   raster.Weights
	// Log receives per-stage progress when non-nil.
	Log *log.Logger
}

// DefaultConfig returns the defaults of the command line tool.
func DefaultConfig() Config {
	return Config{
		Placement:        gcode.DefaultPlacement(),
		Mode:             gcode.Reduced,
		DownsampleFactor: 1,
		Threshold:        .5,
		Weights:          raster.EqualWeights,
	}
}

func (c Config) step(name string) func() {
	if c.Log == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		c.Log.Printf("%s (took %v)", name, time.Since(start).Round(time.Microsecond))
	}
}

// Result is the outcome of a conversion.
type Result struct {
	Program string
	// Mask is the binary mask before any row compression.
	Mask           *raster.Mask
	Marks, Strokes int
}

// Convert runs the raster pipeline on buf. buf itself is not modified.
func Convert(buf *raster.Buffer, cfg Config) (*Result, error) {
	done := cfg.step("downsample")
	small, err := raster.Downsample(buf, cfg.DownsampleFactor)
	if err != nil {
		return nil, err
	}
	done()

	done = cfg.step("dither")
	raster.Dither(small)
	done()

	done = cfg.step("reduce channels")
	mask, err := raster.Reduce(small, cfg.Weights, cfg.Threshold)
	if err != nil {
		return nil, err
	}
	done()

	done = cfg.step(fmt.Sprintf("emit %s program", cfg.Mode))
	var sb strings.Builder
	w, err := gcode.WriteProgram(&sb, mask.Clone(), cfg.Placement, cfg.Mode.Strategy())
	if err != nil {
		return nil, err
	}
	done()

	return &Result{
		Program: sb.String(),
		Mask:    mask,
		Marks:   w.Marks,
		Strokes: w.Strokes,
	}, nil
}

// ConvertFile decodes the image at in, converts it and writes the program
// to out.
func ConvertFile(in, out string, cfg Config) (*Result, error) {
	buf, err := picture.Decode(in)
	if err != nil {
		return nil, err
	}
	if cfg.Log != nil {
		cfg.Log.Printf("decoded %s: %dx%d", in, buf.Cols, buf.Rows)
	}
	res, err := Convert(buf, cfg)
	if err != nil {
		return nil, err
	}
	if err := writeFile(out, res.Program); err != nil {
		return nil, err
	}
	return res, nil
}

func writeFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("%w: %w", picture.ErrIO, err)
	}
	return nil
}

// writeProgram streams a program built by emit into the file at path.
func writeProgram(path string, emit func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", picture.ErrIO, err)
	}
	if err := emit(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", picture.ErrIO, err)
	}
	return nil
}
