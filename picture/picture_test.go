package picture

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"img2gcode/raster"
)

const rectSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10">
<rect x="0" y="0" width="5" height="10" fill="black"/>
</svg>`

func TestFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(2, 3, 4, 4))
	img.SetGray(2, 3, color.Gray{Y: 0})
	img.SetGray(3, 3, color.Gray{Y: 0xff})
	b := FromImage(img)
	if b.Rows != 1 || b.Cols != 2 || b.Channels != 3 {
		t.Fatalf("shape (%d, %d, %d), want (1, 2, 3)", b.Rows, b.Cols, b.Channels)
	}
	for c := 0; c < 3; c++ {
		if got := b.At(0, 0, c); got != 0 {
			t.Errorf("black channel %d = %g", c, got)
		}
		if got := b.At(0, 1, c); got != 1 {
			t.Errorf("white channel %d = %g", c, got)
		}
	}
}

func TestFromImageTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 0})
	img.SetNRGBA(1, 0, color.NRGBA{R: 0xff, G: 0, B: 0, A: 0xff})
	b := FromImage(img)
	for c := 0; c < 3; c++ {
		if got := b.At(0, 0, c); got != 1 {
			t.Errorf("transparent channel %d = %g, want 1", c, got)
		}
	}
	want := []float64{1, 0, 0}
	for c, w := range want {
		if got := b.At(0, 1, c); math.Abs(got-w) > 1e-9 {
			t.Errorf("red channel %d = %g, want %g", c, got, w)
		}
	}
}

func TestDecodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 0, color.White)
	path := filepath.Join(t.TempDir(), "in.PNG")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if b.Rows != 2 || b.Cols != 3 {
		t.Fatalf("shape (%d, %d), want (2, 3)", b.Rows, b.Cols)
	}
	// (1, 1) is fully transparent in the source and composites to white.
	if b.At(0, 1, 0) != 1 || b.At(1, 1, 0) != 1 {
		t.Errorf("got %g and %g, want white", b.At(0, 1, 0), b.At(1, 1, 0))
	}
}

func TestDecodeSVG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rect.svg")
	if err := os.WriteFile(path, []byte(rectSVG), 0o644); err != nil {
		t.Fatal(err)
	}
	b, err := Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	if b.Rows != 10 || b.Cols != 10 {
		t.Fatalf("shape (%d, %d), want (10, 10)", b.Rows, b.Cols)
	}
	if got := b.At(5, 1, 0); got > 0.1 {
		t.Errorf("inside rect = %g, want black", got)
	}
	if got := b.At(5, 8, 0); got < 0.9 {
		t.Errorf("outside rect = %g, want white", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	unsupported := filepath.Join(dir, "in.xcf")
	if err := os.WriteFile(unsupported, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	corrupt := filepath.Join(dir, "in.png")
	if err := os.WriteFile(corrupt, []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{filepath.Join(dir, "missing.png"), unsupported, corrupt} {
		if _, err := Decode(path); !errors.Is(err, ErrIO) {
			t.Errorf("%s: got %v, want ErrIO", path, err)
		}
	}
}

func TestMaskImage(t *testing.T) {
	m := raster.MaskFromRows([][]int{
		{3, 0, 0, 0},
		{0, 1, 0, 1},
	})
	img := MaskImage(m)
	want := [][]uint8{
		{0, 0, 0, 0xff},
		{0xff, 0, 0xff, 0},
	}
	for y, row := range want {
		for x, v := range row {
			if got := img.GrayAt(x, y).Y; got != v {
				t.Errorf("(%d, %d) = %d, want %d", x, y, got, v)
			}
		}
	}
}

func TestWritePreview(t *testing.T) {
	m := raster.MaskFromRows([][]int{{1, 0}})
	path := filepath.Join(t.TempDir(), "preview.png")
	if err := WritePreview(path, m, 3); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds().Size(); got != image.Pt(6, 3) {
		t.Fatalf("size %v, want (6,3)", got)
	}
	if r, _, _, _ := img.At(2, 2).RGBA(); r != 0 {
		t.Errorf("on-cell pixel = %d, want 0", r)
	}
	if r, _, _, _ := img.At(4, 1).RGBA(); r != 0xffff {
		t.Errorf("off-cell pixel = %d, want 0xffff", r)
	}
	if err := WritePreview(path, m, 0); !errors.Is(err, raster.ErrInvalidParameter) {
		t.Errorf("cell 0: got %v, want ErrInvalidParameter", err)
	}
}
