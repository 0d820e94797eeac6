package gcode

import (
	"fmt"
	"io"
	"strings"

	"img2gcode/raster"
)

// Mode selects how a mask is turned into motion.
type Mode string

const (
	// Full marks every on-cell separately.
	Full Mode = "full"
	// Reduced draws each run of on-cells in a row as one stroke.
	Reduced Mode = "reduced"
)

// ParseMode maps a mode name to a Mode. "normal" is accepted as an alias
// of Full and any unrecognised name falls back to Full with ok false.
func ParseMode(s string) (m Mode, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(Reduced):
		return Reduced, true
	case string(Full), "normal":
		return Full, true
	default:
		return Full, false
	}
}

// Strategy emits the marks for a mask, one row at a time.
type Strategy interface {
	// Prepare may rewrite m into the form Row expects.
	Prepare(m *raster.Mask)
	// Row emits the marks of row i.
	Row(w *Writer, i int, row []int)
}

// Strategy returns the emission strategy for mode.
func (m Mode) Strategy() Strategy {
	if m == Reduced {
		return RunCompressed{}
	}
	return FullCell{}
}

// FullCell dabs the pen once on every on-cell of a binary mask.
type FullCell struct{}

// Prepare leaves the binary mask unchanged.
func (FullCell) Prepare(m *raster.Mask) {}

// Row dabs every on-cell of row i.
func (FullCell) Row(w *Writer, i int, row []int) {
	p := w.Placement()
	for j, v := range row {
		if v != 1 {
			continue
		}
		x, y := p.Cell(i, j)
		w.Travel(x, y)
		w.PenDown()
		w.PenUp()
	}
}

// RunCompressed draws one stroke per run of on-cells, along the column
// axis from the first to the last cell of the run.
type RunCompressed struct{}

// Prepare compresses the rows of m in place.
func (RunCompressed) Prepare(m *raster.Mask) {
	raster.CompressRows(m)
}

// Row draws the runs of compressed row i.
func (RunCompressed) Row(w *Writer, i int, row []int) {
	p := w.Placement()
	for _, run := range raster.RowRuns(i, row) {
		x, y := p.Cell(run.Row, run.Col)
		_, yEnd := p.Cell(run.Row, run.Col+run.Len-1)
		w.Travel(x, y)
		w.PenDown()
		w.Travel(x, yEnd)
		w.PenUp()
	}
}

// WriteProgram writes the complete program for m to out. The strategy
// may modify m.
func WriteProgram(out io.Writer, m *raster.Mask, p Placement, s Strategy) (*Writer, error) {
	if p.Scale <= 0 {
		return nil, fmt.Errorf("%w: scale %g", raster.ErrInvalidParameter, p.Scale)
	}
	s.Prepare(m)
	w := NewWriter(out, p)
	w.Header()
	width := float64(m.Rows) * p.Scale
	height := float64(m.Cols) * p.Scale
	w.Outline([2]float64{0, 0}, [2]float64{width, 0}, [2]float64{width, height}, [2]float64{0, height})
	w.Comment("Start printing")
	for i := 0; i < m.Rows; i++ {
		w.Comment(fmt.Sprintf("Row %d", i))
		s.Row(w, i, m.Row(i))
	}
	w.Footer()
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return w, nil
}

// Program returns the program for m as a string.
func Program(m *raster.Mask, p Placement, mode Mode) (string, error) {
	var sb strings.Builder
	if _, err := WriteProgram(&sb, m, p, mode.Strategy()); err != nil {
		return "", err
	}
	return sb.String(), nil
}
