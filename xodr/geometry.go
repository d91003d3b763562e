package xodr

import (
	"math"

	"github.com/golang/geo/r2"
)

type GeometryKind string

const (
	KindLine       GeometryKind = "line"
	KindArc        GeometryKind = "arc"
	KindSpiral     GeometryKind = "spiral"
	KindPoly3      GeometryKind = "poly3"
	KindParamPoly3 GeometryKind = "paramPoly3"
)

// Geometry is one segment of a road's reference line, valid over
// [S(), S()+Length()] in road-level arc length.
type Geometry interface {
	S() float64
	Length() float64
	Kind() GeometryKind

	// PointAt evaluates the reference line at a road-level arc length,
	// returning position and heading in the map frame.
	PointAt(s float64) (x, y, heading float64)
}

type geomBase struct {
	s      float64
	x      float64
	y      float64
	hdg    float64
	length float64
}

func (g geomBase) S() float64      { return g.s }
func (g geomBase) Length() float64 { return g.length }

func (g geomBase) origin() r2.Point {
	return r2.Point{X: g.x, Y: g.y}
}

// local maps a point from the segment's local (u, v) frame to the map frame.
func (g geomBase) local(u, v float64) r2.Point {
	sin, cos := math.Sincos(g.hdg)
	return g.origin().Add(r2.Point{
		X: u*cos - v*sin,
		Y: u*sin + v*cos,
	})
}

type Line struct {
	geomBase
}

func NewLine(s, x, y, hdg, length float64) Line {
	return Line{geomBase{s, x, y, hdg, length}}
}

func (g Line) Kind() GeometryKind { return KindLine }

func (g Line) PointAt(s float64) (float64, float64, float64) {
	p := g.local(s-g.s, 0)
	return p.X, p.Y, g.hdg
}

type Arc struct {
	geomBase
	curvature float64
}

func NewArc(s, x, y, hdg, length, curvature float64) Arc {
	return Arc{geomBase{s, x, y, hdg, length}, curvature}
}

func (g Arc) Kind() GeometryKind { return KindArc }

func (g Arc) PointAt(s float64) (float64, float64, float64) {
	ds := s - g.s
	h := g.hdg + g.curvature*ds
	x := g.x + (math.Sin(h)-math.Sin(g.hdg))/g.curvature
	y := g.y - (math.Cos(h)-math.Cos(g.hdg))/g.curvature
	return x, y, h
}

// Spiral is a clothoid: curvature varies linearly from curvStart at the
// segment start to curvEnd at its end.
type Spiral struct {
	geomBase
	curvStart float64
	curvEnd   float64
}

func NewSpiral(s, x, y, hdg, length, curvStart, curvEnd float64) Spiral {
	return Spiral{geomBase{s, x, y, hdg, length}, curvStart, curvEnd}
}

func (g Spiral) Kind() GeometryKind { return KindSpiral }

func (g Spiral) PointAt(s float64) (float64, float64, float64) {
	ds := s - g.s
	cdot := (g.curvEnd - g.curvStart) / g.length
	heading := func(t float64) float64 {
		return g.hdg + g.curvStart*t + 0.5*cdot*t*t
	}

	// Composite Simpson integration of the heading. The integrand is
	// smooth, a handful of panels per meter is plenty for centimeter
	// accuracy at sampling step sizes.
	n := int(ds*10) + 8
	if n%2 != 0 {
		n++
	}
	step := ds / float64(n)
	sum := r2.Point{}
	for i := 0; i <= n; i++ {
		w := 2.0
		if i == 0 || i == n {
			w = 1
		} else if i%2 == 1 {
			w = 4
		}
		sin, cos := math.Sincos(heading(float64(i) * step))
		sum = sum.Add(r2.Point{X: w * cos, Y: w * sin})
	}
	p := g.origin().Add(sum.Mul(step / 3))
	return p.X, p.Y, heading(ds)
}

// Poly3 is a cubic polynomial v(u) in the segment's local frame. The local u
// coordinate is approximated by the arc length offset, which holds for the
// gentle curvatures these segments are used for.
type Poly3 struct {
	geomBase
	a, b, c, d float64
}

func NewPoly3(s, x, y, hdg, length, a, b, c, d float64) Poly3 {
	return Poly3{geomBase{s, x, y, hdg, length}, a, b, c, d}
}

func (g Poly3) Kind() GeometryKind { return KindPoly3 }

func (g Poly3) PointAt(s float64) (float64, float64, float64) {
	u := s - g.s
	v := g.a + g.b*u + g.c*u*u + g.d*u*u*u
	dv := g.b + 2*g.c*u + 3*g.d*u*u
	p := g.local(u, v)
	return p.X, p.Y, g.hdg + math.Atan(dv)
}

// ParamPoly3 evaluates u and v as cubic polynomials of a shared parameter p,
// either the arc length offset or its normalized form.
type ParamPoly3 struct {
	geomBase
	aU, bU, cU, dU float64
	aV, bV, cV, dV float64
	normalized     bool
}

// NewParamPoly3 builds a parametric cubic segment. u and v hold the a, b, c,
// d coefficients of the respective polynomial.
func NewParamPoly3(s, x, y, hdg, length float64, u, v [4]float64, normalized bool) ParamPoly3 {
	return ParamPoly3{
		geomBase:   geomBase{s, x, y, hdg, length},
		aU:         u[0], bU: u[1], cU: u[2], dU: u[3],
		aV:         v[0], bV: v[1], cV: v[2], dV: v[3],
		normalized: normalized,
	}
}

func (g ParamPoly3) Kind() GeometryKind { return KindParamPoly3 }

func (g ParamPoly3) PointAt(s float64) (float64, float64, float64) {
	p := s - g.s
	if g.normalized {
		p /= g.length
	}
	u := g.aU + g.bU*p + g.cU*p*p + g.dU*p*p*p
	v := g.aV + g.bV*p + g.cV*p*p + g.dV*p*p*p
	du := g.bU + 2*g.cU*p + 3*g.dU*p*p
	dv := g.bV + 2*g.cV*p + 3*g.dV*p*p
	pt := g.local(u, v)
	return pt.X, pt.Y, g.hdg + math.Atan2(dv, du)
}

const coverTolerance = 1e-6

// PlanView is the ordered geometry segment sequence of a road.
type PlanView []Geometry

// At returns the segment covering the given road-level arc length, or nil
// when none does.
func (pv PlanView) At(s float64) Geometry {
	for i := len(pv) - 1; i >= 0; i-- {
		g := pv[i]
		if s >= g.S()-coverTolerance {
			if s <= g.S()+g.Length()+coverTolerance {
				return g
			}
			return nil
		}
	}
	return nil
}

// OffsetPoint displaces a point laterally by the given distance. Positive
// offsets move to the left of the heading.
func OffsetPoint(x, y, heading, offset float64) (float64, float64) {
	sin, cos := math.Sincos(heading)
	return x - offset*sin, y + offset*cos
}
