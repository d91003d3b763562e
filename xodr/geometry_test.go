package xodr

import (
	"math"
	"testing"

	"github.com/cheekybits/is"
)

func near(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestLinePointAt(t *testing.T) {
	is := is.New(t)

	g := NewLine(0, 0, 0, 0, 10)
	x, y, h := g.PointAt(5)
	is.True(near(x, 5, 1e-12))
	is.True(near(y, 0, 1e-12))
	is.Equal(h, 0.0)

	g = NewLine(10, 2, 3, math.Pi/2, 10)
	x, y, h = g.PointAt(14)
	is.True(near(x, 2, 1e-12))
	is.True(near(y, 7, 1e-12))
	is.Equal(h, math.Pi/2)
}

func TestArcPointAt(t *testing.T) {
	is := is.New(t)

	// Quarter circle of radius 10, starting east.
	g := NewArc(0, 0, 0, 0, 20, 0.1)
	x, y, h := g.PointAt(math.Pi / 2 * 10)
	is.True(near(x, 10, 1e-9))
	is.True(near(y, 10, 1e-9))
	is.True(near(h, math.Pi/2, 1e-12))
}

func TestSpiralMatchesArc(t *testing.T) {
	is := is.New(t)

	// Constant curvature degenerates the clothoid to an arc.
	spiral := NewSpiral(0, 1, 2, 0.3, 10, 0.1, 0.1)
	arc := NewArc(0, 1, 2, 0.3, 10, 0.1)

	for _, ds := range []float64{0.5, 2.5, 7.5, 10} {
		sx, sy, sh := spiral.PointAt(ds)
		ax, ay, ah := arc.PointAt(ds)
		is.True(near(sx, ax, 1e-6))
		is.True(near(sy, ay, 1e-6))
		is.True(near(sh, ah, 1e-12))
	}
}

func TestSpiralStraightens(t *testing.T) {
	is := is.New(t)

	// Zero curvature throughout behaves like a line.
	spiral := NewSpiral(0, 0, 0, 0, 10, 0, 0)
	x, y, h := spiral.PointAt(6)
	is.True(near(x, 6, 1e-9))
	is.True(near(y, 0, 1e-9))
	is.Equal(h, 0.0)
}

func TestPoly3PointAt(t *testing.T) {
	is := is.New(t)

	// v(u) = 0.5 + 0.1 u, heading 0: pure lateral shift.
	g := NewPoly3(0, 0, 0, 0, 10, 0.5, 0.1, 0, 0)
	x, y, h := g.PointAt(4)
	is.True(near(x, 4, 1e-12))
	is.True(near(y, 0.9, 1e-12))
	is.True(near(h, math.Atan(0.1), 1e-12))
}

func TestParamPoly3PointAt(t *testing.T) {
	is := is.New(t)

	// u(p) = p, v(p) = 0: a straight line in arc-length parameterization.
	g := NewParamPoly3(0, 0, 0, 0, 10, [4]float64{0, 1, 0, 0}, [4]float64{0, 0, 0, 0}, false)
	x, y, h := g.PointAt(7)
	is.True(near(x, 7, 1e-12))
	is.True(near(y, 0, 1e-12))
	is.True(near(h, 0, 1e-12))

	// Same but normalized to the segment length.
	g = NewParamPoly3(0, 0, 0, 0, 10, [4]float64{0, 10, 0, 0}, [4]float64{0, 0, 0, 0}, true)
	x, y, _ = g.PointAt(7)
	is.True(near(x, 7, 1e-12))
	is.True(near(y, 0, 1e-12))
}

func TestPlanViewAt(t *testing.T) {
	is := is.New(t)

	pv := PlanView{
		NewLine(0, 0, 0, 0, 10),
		NewArc(10, 10, 0, 0, 5, 0.1),
	}

	g := pv.At(3)
	is.NotNil(g)
	is.Equal(g.Kind(), KindLine)

	g = pv.At(12)
	is.NotNil(g)
	is.Equal(g.Kind(), KindArc)

	is.Equal(pv.At(10).Kind(), KindArc)
	is.Nil(pv.At(16))
	is.Nil(pv.At(-1))
	is.Nil(PlanView(nil).At(0))
}

func TestOffsetPoint(t *testing.T) {
	is := is.New(t)

	x, y := OffsetPoint(1, 1, 0, 2)
	is.True(near(x, 1, 1e-12))
	is.True(near(y, 3, 1e-12))

	x, y = OffsetPoint(1, 1, math.Pi/2, 2)
	is.True(near(x, -1, 1e-12))
	is.True(near(y, 1, 1e-12))

	x, y = OffsetPoint(1, 1, 0, -2)
	is.True(near(x, 1, 1e-12))
	is.True(near(y, -1, 1e-12))
}

func TestLaneOffsetsAt(t *testing.T) {
	is := is.New(t)

	offsets := LaneOffsets{
		{S: 10, A: 1, B: 0.5},
		{S: 20, A: 2},
	}

	is.Equal(offsets.At(5), 0.0)
	is.True(near(offsets.At(10), 1, 1e-12))
	is.True(near(offsets.At(12), 2, 1e-12))
	is.True(near(offsets.At(25), 2, 1e-12))
	is.Equal(LaneOffsets(nil).At(3), 0.0)
}

func TestWidthAt(t *testing.T) {
	is := is.New(t)

	lane := &Lane{
		ID: 1,
		Widths: []Width{
			{SOffset: 0, A: 3.5},
			{SOffset: 10, A: 3.5, B: -0.1},
		},
	}

	is.True(near(lane.WidthAt(5), 3.5, 1e-12))
	is.True(near(lane.WidthAt(10), 3.5, 1e-12))
	is.True(near(lane.WidthAt(15), 3, 1e-12))

	empty := &Lane{ID: 2}
	is.Equal(empty.WidthAt(3), 0.0)
}
