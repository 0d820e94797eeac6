package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"img2gcode/gcode"
	"img2gcode/picture"
	"img2gcode/raster"
	"img2gcode/vector"
)

// weightsFlag parses "r,g,b" channel weights.
type weightsFlag raster.Weights

func (w *weightsFlag) String() string {
	return fmt.Sprintf("%g,%g,%g", w[0], w[1], w[2])
}

func (w *weightsFlag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want three comma separated weights, got %q", s)
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return err
		}
		w[i] = v
	}
	return nil
}

func main() {
	cfg := DefaultConfig()
	weights := weightsFlag(cfg.Weights)

	inputFile := flag.String("input", "", "Path to the input image (png, jpeg, gif, webp, bmp, tiff or svg)")
	outputFile := flag.String("output", "output.gcode", "Path to output G-code file")
	flag.Float64Var(&cfg.X, "x", cfg.X, "X position (mm) of the front-left corner")
	flag.Float64Var(&cfg.Y, "y", cfg.Y, "Y position (mm) of the front-left corner")
	flag.Float64Var(&cfg.ZOffset, "z", cfg.ZOffset, "Drawing height (mm)")
	flag.Float64Var(&cfg.Scale, "scale", cfg.Scale, "Size of each pixel (mm)")
	mode := flag.String("mode", string(cfg.Mode), "Printing mode: full or reduced (unknown modes print as full)")
	flag.IntVar(&cfg.DownsampleFactor, "downsample", cfg.DownsampleFactor, "Keep every n-th row and column")
	flag.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "Channel average (0-1) at or below which a cell is drawn")
	flag.Var(&weights, "weights", "Red, green and blue channel weights")
	preview := flag.String("preview", "", "Write a PNG preview of the mask to this path")
	previewCell := flag.Int("preview-cell", 4, "Preview pixels per cell")
	useVector := flag.Bool("vector", false, "Trace SVG paths instead of rasterising the input")
	resolution := flag.Int("resolution", vector.DefaultResolution, "Points per curve in vector mode")
	verbose := flag.Bool("v", false, "Log pipeline progress")
	flag.Parse()

	if *inputFile == "" {
		flag.Usage()
		os.Exit(1)
	}
	var known bool
	cfg.Mode, known = gcode.ParseMode(*mode)
	if !known {
		log.Printf("unknown mode %q, printing in %s mode", *mode, cfg.Mode)
	}
	cfg.Weights = raster.Weights(weights)
	if *verbose {
		cfg.Log = log.New(os.Stderr, "img2gcode: ", log.LstdFlags)
	}

	if *useVector {
		opts := vector.Options{Placement: cfg.Placement, Resolution: *resolution}
		if err := convertVector(*inputFile, *outputFile, opts, cfg.Log); err != nil {
			log.Fatalf("failed to convert SVG to G-code: %v", err)
		}
		fmt.Printf("G-code successfully written to %s\n", *outputFile)
		return
	}

	res, err := ConvertFile(*inputFile, *outputFile, cfg)
	if err != nil {
		log.Fatalf("failed to convert image to G-code: %v", err)
	}
	if cfg.Log != nil {
		cfg.Log.Printf("%d marks, %d strokes", res.Marks, res.Strokes)
	}
	if *preview != "" {
		if err := picture.WritePreview(*preview, res.Mask, *previewCell); err != nil {
			log.Fatalf("failed to write preview: %v", err)
		}
	}

	fmt.Printf("G-code successfully written to %s\n", *outputFile)
}

func convertVector(in, out string, opts vector.Options, logger *log.Logger) error {
	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("%w: %w", picture.ErrIO, err)
	}
	defer f.Close()
	return writeProgram(out, func(dst io.Writer) error {
		w, err := vector.Write(dst, f, opts)
		if err != nil {
			return err
		}
		if logger != nil {
			logger.Printf("%d subpaths drawn with %d strokes", w.Marks, w.Strokes)
		}
		return nil
	})
}
