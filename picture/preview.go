package picture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"img2gcode/raster"
)

// MaskImage renders m with on-cells black and off-cells white, one pixel
// per cell. Rows run down the image as they do in the source picture.
// Compressed masks are drawn with their runs expanded.
func MaskImage(m *raster.Mask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.Cols, m.Rows))
	for k := range img.Pix {
		img.Pix[k] = 0xff
	}
	for i := 0; i < m.Rows; i++ {
		for j, n := range m.Row(i) {
			for k := 0; k < n && j+k < m.Cols; k++ {
				img.SetGray(j+k, i, color.Gray{})
			}
		}
	}
	return img
}

// WritePreview writes m as a PNG with every cell scaled to cell×cell
// pixels.
func WritePreview(filePath string, m *raster.Mask, cell int) error {
	if cell < 1 {
		return fmt.Errorf("%w: preview cell size %d", raster.ErrInvalidParameter, cell)
	}
	src := MaskImage(m)
	dst := image.NewGray(image.Rect(0, 0, m.Cols*cell, m.Rows*cell))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.WriteFile(filePath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
