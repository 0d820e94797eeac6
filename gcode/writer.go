// Package gcode writes line-oriented motion programs for a pen plotter
// or marker head.
package gcode

import (
	"bufio"
	"fmt"
	"io"
)

// Heights and feed rates shared by every program.
const (
	// LiftHeight is the safe height used once before the first travel.
	LiftHeight = 5
	// PenUpHeight clears the work surface between marks.
	PenUpHeight = 2

	FeedZ       = 600
	FeedCorner  = 3000
	FeedOutline = 1000
	FeedTravel  = 1500
)

// Placement positions a program on the work surface. Scale is the size
// of one cell in millimetres and ZOffset the pen-down height.
type Placement struct {
	X, Y    float64
	ZOffset float64
	Scale   float64
}

// DefaultPlacement matches a pen that touches the bed at 0.1 mm with 1 mm
// cells drawn from the machine origin.
func DefaultPlacement() Placement {
	return Placement{ZOffset: .1, Scale: 1}
}

// Cell returns the physical position of cell (i, j). The row index drives
// the X axis and the column index the Y axis.
func (p Placement) Cell(i, j int) (x, y float64) {
	return p.X + float64(i)*p.Scale, p.Y + float64(j)*p.Scale
}

// Writer emits program lines. Write errors are sticky and reported by
// Flush.
type Writer struct {
	out *bufio.Writer
	p   Placement
	err error
	pen bool

	// Marks counts pen-down operations and Strokes the lines drawn with
	// the pen down.
	Marks, Strokes int
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer, p Placement) *Writer {
	return &Writer{out: bufio.NewWriter(w), p: p}
}

// Placement returns the placement the writer was created with.
func (w *Writer) Placement() Placement {
	return w.p
}

func (w *Writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.out, format, args...)
}

// Coord formats a coordinate or height. All numbers in a program use this
// fixed three decimal form so output is stable across platforms.
func Coord(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

// Header homes the machine, selects absolute millimetre positioning, lifts
// the head and travels to the placement origin.
func (w *Writer) Header() {
	w.printf("G28 ; Home all axes\n")
	w.printf("G90 ; Use absolute positioning\n")
	w.printf("G21 ; Set units to millimeters\n")
	w.printf("; Move to starting position\n")
	w.printf("G1 Z%d F%d ; Lift nozzle %dmm\n", LiftHeight, FeedZ, LiftHeight)
	w.printf("G1 X%s Y%s F%d ; Move to front-left corner\n", Coord(w.p.X), Coord(w.p.Y), FeedCorner)
}

// Outline traces a closed polygon through corners, relative to the
// placement origin, at the outline feed rate. The first corner is
// repeated at the end.
func (w *Writer) Outline(corners ...[2]float64) {
	if len(corners) == 0 {
		return
	}
	w.Comment("Trace outline")
	for k := 0; k <= len(corners); k++ {
		c := corners[k%len(corners)]
		w.printf("G1 X%s Y%s F%d\n", Coord(w.p.X+c[0]), Coord(w.p.Y+c[1]), FeedOutline)
	}
}

// Comment writes a comment line.
func (w *Writer) Comment(text string) {
	w.printf("; %s\n", text)
}

// Travel moves to (x, y) at the travel feed rate.
func (w *Writer) Travel(x, y float64) {
	w.printf("G1 X%s Y%s F%d\n", Coord(x), Coord(y), FeedTravel)
	if w.pen {
		w.Strokes++
	}
}

// Line moves to (x, y) at the current feed rate.
func (w *Writer) Line(x, y float64) {
	w.printf("G1 X%s Y%s\n", Coord(x), Coord(y))
	if w.pen {
		w.Strokes++
	}
}

// PenDown lowers the head to the drawing height.
func (w *Writer) PenDown() {
	w.printf("G1 Z%s F%d\n", Coord(w.p.ZOffset), FeedZ)
	w.pen = true
	w.Marks++
}

// PenUp raises the head to the pen-up height.
func (w *Writer) PenUp() {
	w.printf("G1 Z%d F%d\n", PenUpHeight, FeedZ)
	w.pen = false
}

// Footer disables the motors.
func (w *Writer) Footer() {
	w.printf("M84 ; Disable motors\n")
}

// Flush writes buffered lines and returns the first error encountered.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.out.Flush()
}
