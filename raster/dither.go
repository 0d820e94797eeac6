package raster

import "math"

// Diffusion weights, in 24ths of the quantization error. The classic
// Floyd-Steinberg kernel divides by 16; dividing by 24 throws away a third
// of the error and gives a more contrasted result.
const (
	weightNextRow     = 7.0 / 24
	weightNextCol     = 5.0 / 24
	weightNextColUp   = 1.0 / 24
	weightNextColDown = 3.0 / 24
)

// Dither quantizes every sample of b to 0 or 1 in place, diffusing the
// rounding error of each cell to its unvisited neighbours. Columns are
// visited left to right and, within a column, rows top to bottom, so
// "forward" means the next row of the same column and the three
// neighbouring rows of the next column. Channels are independent.
//
// Rounding is half to even. Non-finite samples are not special cased and
// propagate into their neighbours.
func Dither(b *Buffer) {
	for j := 0; j < b.Cols; j++ {
		for i := 0; i < b.Rows; i++ {
			for c := 0; c < b.Channels; c++ {
				ditherCell(b, i, j, c)
			}
		}
	}
}

func ditherCell(b *Buffer, i, j, c int) {
	v := b.At(i, j, c)
	rounded := math.RoundToEven(v)
	err := v - rounded
	b.Set(i, j, c, rounded)
	if i < b.Rows-1 {
		b.add(i+1, j, c, weightNextRow*err)
	}
	if j < b.Cols-1 {
		b.add(i, j+1, c, weightNextCol*err)
		if i > 0 {
			b.add(i-1, j+1, c, weightNextColUp*err)
		}
		if i < b.Rows-1 {
			b.add(i+1, j+1, c, weightNextColDown*err)
		}
	}
}
