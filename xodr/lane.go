package xodr

// LaneOffset is one cubic lane-offset record, displacing the road reference
// line laterally from arc length S onward.
type LaneOffset struct {
	S float64
	A float64
	B float64
	C float64
	D float64
}

// LaneOffsets is the ordered offset profile of a road.
type LaneOffsets []LaneOffset

// At returns the lateral offset of the reference line at a road-level arc
// length, 0 when no record covers it.
func (lo LaneOffsets) At(s float64) float64 {
	for i := len(lo) - 1; i >= 0; i-- {
		o := lo[i]
		if s >= o.S-coverTolerance {
			ds := s - o.S
			return o.A + o.B*ds + o.C*ds*ds + o.D*ds*ds*ds
		}
	}
	return 0
}

// Width is one cubic lane-width record, valid from SOffset (relative to the
// lane section start) onward.
type Width struct {
	SOffset float64
	A       float64
	B       float64
	C       float64
	D       float64
}

// Lane is a single source lane within a lane section. ID follows OpenDRIVE
// conventions: positive left of the reference line, negative right, 0 for
// the center lane.
type Lane struct {
	ID     int64
	Type   string
	Widths []Width
}

// WidthAt evaluates the lane width at a section-local arc length.
func (l *Lane) WidthAt(ds float64) float64 {
	for i := len(l.Widths) - 1; i >= 0; i-- {
		w := l.Widths[i]
		if ds >= w.SOffset-coverTolerance {
			u := ds - w.SOffset
			return w.A + w.B*u + w.C*u*u + w.D*u*u*u
		}
	}
	return 0
}

// LaneSection is one lateral slice of a road. Left lanes are ordered 1, 2, …
// and right lanes -1, -2, …, both outward from the center.
type LaneSection struct {
	Start  float64
	End    float64
	Left   []*Lane
	Center []*Lane
	Right  []*Lane
}
