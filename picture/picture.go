// Package picture loads images into raster buffers and renders masks
// back into images for previewing.
package picture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"img2gcode/raster"
)

// ErrIO tags failures reading or writing files.
var ErrIO = errors.New("i/o failure")

// Decode loads the image at filePath as a three channel buffer with
// samples in [0,1].
func Decode(filePath string) (*raster.Buffer, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	img, err := decode(filepath.Ext(filePath), data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, filePath, err)
	}
	return FromImage(img), nil
}

func decode(ext string, data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch strings.ToLower(ext) {
	case ".svg":
		return RasteriseSVG(data)
	case ".png":
		return png.Decode(r)
	case ".jpg", ".jpeg":
		return jpeg.Decode(r)
	case ".gif":
		return gif.Decode(r)
	case ".webp":
		return webp.Decode(r)
	case ".bmp":
		return bmp.Decode(r)
	case ".tif", ".tiff":
		return tiff.Decode(r)
	default:
		return nil, errors.New("unsupported image format: " + ext)
	}
}

// FromImage converts img to a (height, width, 3) buffer. Translucent
// pixels are composited over white and gray images are expanded to three
// equal channels.
func FromImage(img image.Image) *raster.Buffer {
	bounds := img.Bounds()
	b := raster.NewBuffer(bounds.Dy(), bounds.Dx(), 3)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, bl, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			bg := 0xffff - a
			b.Set(y, x, 0, float64(r+bg)/0xffff)
			b.Set(y, x, 1, float64(g+bg)/0xffff)
			b.Set(y, x, 2, float64(bl+bg)/0xffff)
		}
	}
	return b
}

// RasteriseSVG renders an SVG document at its viewBox size on a white
// background.
func RasteriseSVG(data []byte) (*image.RGBA, error) {
	svgIcon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	viewBoxW := svgIcon.ViewBox.W
	viewBoxH := svgIcon.ViewBox.H
	width := int(viewBoxW)
	height := int(viewBoxH)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("svg viewBox %gx%g is empty", viewBoxW, viewBoxH)
	}
	svgIcon.SetTarget(0, 0, viewBoxW, viewBoxH)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	dasher := rasterx.NewDasher(width, height, scanner)

	svgIcon.Draw(dasher, 1.0)
	return img, nil
}
