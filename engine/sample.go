package engine

import (
	"fmt"

	"github.com/phacochoerus/opendrive-engine/engine/kdtree"
	"github.com/phacochoerus/opendrive-engine/engine/model"
	"github.com/phacochoerus/opendrive-engine/xodr"
)

// snapTolerance absorbs floating point noise when deciding whether the last
// fractional step still lands a sample on the section end.
const snapTolerance = 1e-10

// sampleCenterLane walks the section's arc-length domain in fixed steps and
// fills the center lane's central curve and both of its boundaries. The
// center lane has zero width, all three curves coincide at this stage.
//
// roadDS is the running road-level arc length, threaded through sequential
// calls because plan-view geometry and lane offsets are indexed by road
// position, not section position. The returned value is the accumulator for
// the next section: the road position of this section's end.
func (c *Convertor) sampleCenterLane(pv xodr.PlanView, offsets xodr.LaneOffsets, section *model.Section, roadDS float64) float64 {
	step := c.step
	if step < MinStep {
		step = MinStep
	}

	lane := section.CenterLane
	sectionDS := 0.0
	lastKind := xodr.GeometryKind("")
	idx := 0

	for {
		if sectionDS > section.Length {
			over := sectionDS - section.Length
			if over >= step-snapTolerance {
				// Ran past the end by a full step: the previous
				// iteration already sampled the section end (or a
				// point within tolerance of it). Rewind the road
				// accumulator to the section end so the overshoot
				// does not leak into the next section.
				roadDS -= over
				break
			}
			// Fractional overshoot: snap the final sample onto the
			// section end.
			sectionDS = section.Length
			roadDS -= over
		}

		g := pv.At(roadDS)
		if g == nil {
			if idx == 0 {
				// Not even the section start is covered, the map
				// references arc lengths its plan view never
				// defines.
				c.setStatus(GeometryError,
					fmt.Sprintf("%s: no geometry at s=%g", section.ID, roadDS))
			}
			// Otherwise: ran off the end of the road geometry, normal
			// termination for the last section.
			break
		}

		x, y, heading := g.PointAt(roadDS)
		if offset := offsets.At(roadDS); offset != 0 {
			x, y = xodr.OffsetPoint(x, y, heading, offset)
		}

		p := model.Point{
			X:       x,
			Y:       y,
			Heading: heading,
			S:       sectionDS,
			ID:      fmt.Sprintf("%s_%d", lane.ID, idx),
		}
		idx++

		if g.Kind() != lastKind {
			lane.Geometries = append(lane.Geometries, model.GeometryMarker{
				Kind:  string(g.Kind()),
				Point: p,
			})
			lastKind = g.Kind()
		}

		lane.CentralCurve.Append(p)
		lane.LeftBoundary.Curve.Append(p)
		lane.RightBound.Curve.Append(p)

		sectionDS += step
		roadDS += step
	}

	return roadDS
}

// buildLane derives a lane's three curves from a reference line: per
// reference point it emits the untouched reference point as the left
// boundary, the half-width displacement as the center line and the full
// width displacement as the right boundary. Center points also feed the
// spatial index buffer.
func (c *Convertor) buildLane(eleLane *xodr.Lane, section *model.Section, ref []model.Point) *model.Lane {
	lane := &model.Lane{
		ID:       fmt.Sprintf("%s_%d", section.ID, eleLane.ID),
		ParentID: section.ID,
	}

	// Left lanes grow towards positive lateral offsets, right lanes
	// towards negative ones.
	dir := 1.0
	if eleLane.ID < 0 {
		dir = -1.0
	}

	for i, rp := range ref {
		width := eleLane.WidthAt(rp.S) * dir
		pointID := fmt.Sprintf("%s_%d", lane.ID, i)

		left := rp
		left.ID = pointID + "_1"
		lane.LeftBoundary.Curve.Append(left)

		cx, cy := xodr.OffsetPoint(rp.X, rp.Y, rp.Heading, width/2)
		center := model.Point{
			X:       cx,
			Y:       cy,
			Heading: rp.Heading,
			S:       rp.S,
			ID:      pointID + "_2",
		}
		lane.CentralCurve.Append(center)
		c.centerPts = append(c.centerPts, kdtree.SamplePoint{
			X:  cx,
			Y:  cy,
			ID: center.ID,
		})

		rx, ry := xodr.OffsetPoint(rp.X, rp.Y, rp.Heading, width)
		right := model.Point{
			X:       rx,
			Y:       ry,
			Heading: rp.Heading,
			S:       rp.S,
			ID:      pointID + "_3",
		}
		lane.RightBound.Curve.Append(right)
	}

	return lane
}
