package raster

import "fmt"

// Downsample returns a new buffer holding every factor-th row and column
// of b, starting at index 0. Skipped pixels are dropped, not averaged.
func Downsample(b *Buffer, factor int) (*Buffer, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("%w: downsample factor %d", ErrInvalidParameter, factor)
	}
	if err := b.validate(); err != nil {
		return nil, err
	}
	rows := (b.Rows + factor - 1) / factor
	cols := (b.Cols + factor - 1) / factor
	out := NewBuffer(rows, cols, b.Channels)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			src := b.offset(i*factor, j*factor, 0)
			dst := out.offset(i, j, 0)
			copy(out.Pix[dst:dst+b.Channels], b.Pix[src:src+b.Channels])
		}
	}
	return out, nil
}
