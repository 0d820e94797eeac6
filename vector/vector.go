// Package vector converts SVG drawings into motion programs by walking
// their paths and flattening curves into short lines.
package vector

import (
	"fmt"
	"io"
	"strings"

	"github.com/srwiley/oksvg"
	"golang.org/x/image/math/fixed"

	"img2gcode/gcode"
	"img2gcode/raster"
)

// DefaultResolution is the number of points sampled along each curve.
const DefaultResolution = 50

// Options configures Convert.
type Options struct {
	gcode.Placement
	// Resolution is the number of samples per curve, end points included.
	Resolution int
}

// DefaultOptions returns the default placement at DefaultResolution.
func DefaultOptions() Options {
	return Options{
		Placement:  gcode.DefaultPlacement(),
		Resolution: DefaultResolution,
	}
}

// Convert reads an SVG document from r and returns its program. The
// drawing is mirrored along X so that it reads correctly when the plotter
// origin is at the front-left corner. Element transforms are not applied.
func Convert(r io.Reader, opts Options) (string, error) {
	var sb strings.Builder
	if _, err := Write(&sb, r, opts); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write is like Convert but writes the program to out and returns the
// writer for its statistics.
func Write(out io.Writer, r io.Reader, opts Options) (*gcode.Writer, error) {
	if opts.Resolution < 2 {
		return nil, fmt.Errorf("%w: curve resolution %d", raster.ErrInvalidParameter, opts.Resolution)
	}
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("%w: scale %g", raster.ErrInvalidParameter, opts.Scale)
	}
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	width := icon.ViewBox.W
	height := icon.ViewBox.H

	w := gcode.NewWriter(out, opts.Placement)
	w.Header()
	sw, sh := width*opts.Scale, height*opts.Scale
	w.Outline([2]float64{0, 0}, [2]float64{0, sh}, [2]float64{sw, sh}, [2]float64{sw, 0})
	for _, p := range icon.SVGPaths {
		w.Comment("Start of Path")
		t := &tracer{
			w:          w,
			resolution: opts.Resolution,
			width:      width,
			originX:    icon.ViewBox.X,
			originY:    icon.ViewBox.Y,
			p:          opts.Placement,
		}
		p.Path.AddTo(t)
	}
	w.Footer()
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return w, nil
}

// tracer implements rasterx.Adder, emitting each subpath as one pen-down
// stroke.
type tracer struct {
	w          *gcode.Writer
	resolution int
	width      float64
	// viewBox origin, subtracted from path coordinates.
	originX, originY float64
	p                gcode.Placement

	open       bool
	start, cur point
}

type point struct {
	x, y float64
}

func toPoint(p fixed.Point26_6) point {
	return point{float64(p.X) / 64, float64(p.Y) / 64}
}

// machine maps a drawing point to machine coordinates.
func (t *tracer) machine(p point) (x, y float64) {
	dx := p.x - t.originX
	dy := p.y - t.originY
	return (t.width-dx)*t.p.Scale + t.p.X, dy*t.p.Scale + t.p.Y
}

// lineTo draws to p. A segment following a closed subpath without a new
// move starts again from the subpath's start.
func (t *tracer) lineTo(p point) {
	if !t.open {
		t.w.Travel(t.machine(t.start))
		t.w.PenDown()
		t.open = true
		t.cur = t.start
	}
	t.w.Line(t.machine(p))
	t.cur = p
}

func (t *tracer) Start(a fixed.Point26_6) {
	t.Stop(false)
	p := toPoint(a)
	t.w.Travel(t.machine(p))
	t.w.PenDown()
	t.open = true
	t.start, t.cur = p, p
}

func (t *tracer) Line(b fixed.Point26_6) {
	t.lineTo(toPoint(b))
}

func (t *tracer) QuadBezier(b, c fixed.Point26_6) {
	p0, p1, p2 := t.cur, toPoint(b), toPoint(c)
	n := t.resolution - 1
	for k := 1; k <= n; k++ {
		s := float64(k) / float64(n)
		u := 1 - s
		t.lineTo(point{
			u*u*p0.x + 2*u*s*p1.x + s*s*p2.x,
			u*u*p0.y + 2*u*s*p1.y + s*s*p2.y,
		})
	}
}

func (t *tracer) CubeBezier(b, c, d fixed.Point26_6) {
	p0, p1, p2, p3 := t.cur, toPoint(b), toPoint(c), toPoint(d)
	n := t.resolution - 1
	for k := 1; k <= n; k++ {
		s := float64(k) / float64(n)
		u := 1 - s
		t.lineTo(point{
			u*u*u*p0.x + 3*u*u*s*p1.x + 3*u*s*s*p2.x + s*s*s*p3.x,
			u*u*u*p0.y + 3*u*u*s*p1.y + 3*u*s*s*p2.y + s*s*s*p3.y,
		})
	}
}

func (t *tracer) Stop(closeLoop bool) {
	if !t.open {
		return
	}
	if closeLoop && t.cur != t.start {
		t.lineTo(t.start)
	}
	t.w.PenUp()
	t.open = false
}
