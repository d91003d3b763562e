// Package model holds the normalized road-network entities produced by a
// conversion pass: roads, sections, lanes, junctions and the sampled curves
// that describe their geometry. Entities are built once during a pass and
// never mutated afterwards.
package model

// Point is a single sampled position on a curve. S is the arc length from
// the start of the owning section, X/Y/Heading are in the map frame.
type Point struct {
	X       float64
	Y       float64
	Heading float64
	S       float64
	ID      string
}

// Curve is an ordered point sequence. Points are appended in arc-length
// order and never reordered.
type Curve struct {
	Points []Point
}

func (c *Curve) Append(p Point) {
	c.Points = append(c.Points, p)
}

func (c *Curve) Len() int {
	return len(c.Points)
}

// Boundary wraps one edge curve of a lane.
type Boundary struct {
	Curve Curve
}

// GeometryMarker records the first sampled point of a plan-view geometry
// segment, together with the segment kind.
type GeometryMarker struct {
	Kind  string
	Point Point
}

type Lane struct {
	ID           string
	ParentID     string
	LeftBoundary Boundary
	CentralCurve Curve
	RightBound   Boundary
	Geometries   []GeometryMarker
}

type Section struct {
	ID            string
	ParentID      string
	StartPosition float64
	EndPosition   float64
	Length        float64
	CenterLane    *Lane
	LeftLanes     []*Lane
	RightLanes    []*Lane
}

// RoadInfo is one entry of a road's type profile.
type RoadInfo struct {
	S    float64
	Type string
}

type Road struct {
	ID             string
	Name           string
	JunctionID     string
	Length         float64
	Rule           string
	PredecessorIDs map[string]bool
	SuccessorIDs   map[string]bool
	Info           []RoadInfo
	Sections       []*Section
}

type Junction struct {
	ID   string
	Name string
	Type string
}

// Header carries the map-level metadata, copied verbatim from the source
// document.
type Header struct {
	RevMajor string
	RevMinor string
	Name     string
	Version  string
	Date     string
	North    float64
	South    float64
	East     float64
	West     float64
	Vendor   string
}

// Data is the identifier-keyed store a conversion pass publishes into. It is
// the single point of truth for downstream consumers, the pass itself never
// reads it back.
type Data struct {
	Header    *Header
	Roads     map[string]*Road
	Sections  map[string]*Section
	Lanes     map[string]*Lane
	Junctions map[string]*Junction
}

func NewData() *Data {
	return &Data{
		Roads:     make(map[string]*Road),
		Sections:  make(map[string]*Section),
		Lanes:     make(map[string]*Lane),
		Junctions: make(map[string]*Junction),
	}
}
