package raster

import "fmt"

// Weights scales the red, green and blue channels in Reduce.
type Weights [3]float64

// EqualWeights averages the three channels evenly.
var EqualWeights = Weights{1, 1, 1}

// Reduce collapses the first three channels of b into a binary mask. A
// cell is on when the weighted channel average is at or below threshold,
// so dark pixels are the ones that get ink.
func Reduce(b *Buffer, w Weights, threshold float64) (*Mask, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if b.Channels < 3 {
		return nil, fmt.Errorf("%w: channel reduction requires at least 3 channels, got %d", ErrUnsupportedShape, b.Channels)
	}
	sum := 0.0
	for _, v := range w {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative channel weight in %v", ErrInvalidParameter, w)
		}
		sum += v
	}
	if sum == 0 {
		return nil, fmt.Errorf("%w: channel weights sum to zero", ErrInvalidParameter)
	}
	if !(threshold >= 0 && threshold <= 1) {
		return nil, fmt.Errorf("%w: threshold %g outside [0, 1]", ErrInvalidParameter, threshold)
	}
	m := NewMask(b.Rows, b.Cols)
	for i := 0; i < b.Rows; i++ {
		for j := 0; j < b.Cols; j++ {
			px := b.Pix[b.offset(i, j, 0):]
			avg := (px[0]*w[0] + px[1]*w[1] + px[2]*w[2]) / sum
			if avg <= threshold {
				m.Set(i, j, 1)
			}
		}
	}
	return m, nil
}
