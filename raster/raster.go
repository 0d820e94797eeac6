// Package raster implements the image side of the toolpath pipeline:
// strided downsampling, error-diffusion dithering, channel reduction to a
// binary mask and run-length compression of mask rows.
package raster

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter reports a bad factor, weight or threshold.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnsupportedShape reports a buffer whose shape a stage cannot handle.
	ErrUnsupportedShape = errors.New("unsupported shape")
)

// Buffer is a row-major pixel buffer with axes (row, column, channel).
// Samples are nominally in [0,1].
type Buffer struct {
	Rows, Cols, Channels int
	Pix                  []float64
}

// NewBuffer allocates a zeroed buffer.
func NewBuffer(rows, cols, channels int) *Buffer {
	return &Buffer{
		Rows:     rows,
		Cols:     cols,
		Channels: channels,
		Pix:      make([]float64, rows*cols*channels),
	}
}

func (b *Buffer) offset(i, j, c int) int {
	return (i*b.Cols+j)*b.Channels + c
}

// At returns the sample at row i, column j, channel c.
func (b *Buffer) At(i, j, c int) float64 {
	return b.Pix[b.offset(i, j, c)]
}

// Set stores v at row i, column j, channel c.
func (b *Buffer) Set(i, j, c int, v float64) {
	b.Pix[b.offset(i, j, c)] = v
}

func (b *Buffer) add(i, j, c int, v float64) {
	b.Pix[b.offset(i, j, c)] += v
}

// Equal reports whether b and o have the same shape and samples.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Rows != o.Rows || b.Cols != o.Cols || b.Channels != o.Channels {
		return false
	}
	for k, v := range b.Pix {
		if o.Pix[k] != v {
			return false
		}
	}
	return true
}

func (b *Buffer) validate() error {
	if b.Rows < 0 || b.Cols < 0 || b.Channels < 1 {
		return fmt.Errorf("%w: buffer shape (%d, %d, %d)", ErrUnsupportedShape, b.Rows, b.Cols, b.Channels)
	}
	if len(b.Pix) != b.Rows*b.Cols*b.Channels {
		return fmt.Errorf("%w: %d samples for shape (%d, %d, %d)", ErrUnsupportedShape, len(b.Pix), b.Rows, b.Cols, b.Channels)
	}
	return nil
}

// Mask is a single channel grid of cells. After Reduce every cell is 0 or
// 1; after CompressRows a cell holds the length of the run of on-cells
// starting there.
type Mask struct {
	Rows, Cols int
	Cells      []int
}

// NewMask allocates an all-off mask.
func NewMask(rows, cols int) *Mask {
	return &Mask{Rows: rows, Cols: cols, Cells: make([]int, rows*cols)}
}

// MaskFromRows builds a mask from a slice of equally long rows.
func MaskFromRows(rows [][]int) *Mask {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	m := NewMask(len(rows), cols)
	for i, r := range rows {
		copy(m.Row(i), r)
	}
	return m
}

// At returns the cell at row i, column j.
func (m *Mask) At(i, j int) int {
	return m.Cells[i*m.Cols+j]
}

// Set stores v at row i, column j.
func (m *Mask) Set(i, j, v int) {
	m.Cells[i*m.Cols+j] = v
}

// Row returns row i, sharing storage with m.
func (m *Mask) Row(i int) []int {
	return m.Cells[i*m.Cols : (i+1)*m.Cols]
}

// Clone returns a deep copy of m.
func (m *Mask) Clone() *Mask {
	return &Mask{Rows: m.Rows, Cols: m.Cols, Cells: append([]int(nil), m.Cells...)}
}

// Count returns the sum of all cells: the number of on-cells of a binary
// mask, or the total run length of a compressed one.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Cells {
		n += v
	}
	return n
}
