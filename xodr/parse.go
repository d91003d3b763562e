// Package xodr parses OpenDRIVE map descriptions into an element tree and
// evaluates their plan-view geometry.
package xodr

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
)

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

type RoadType struct {
	S    float64
	Type string
}

// Road is one parsed road. Predecessor, Successor and JunctionID use -1 as
// the "not present" sentinel, as the source format does.
type Road struct {
	ID          int64
	Name        string
	Length      float64
	JunctionID  int64
	Rule        string
	Predecessor int64
	Successor   int64
	Types       []RoadType
	PlanView    PlanView
	Offsets     LaneOffsets
	Sections    []*LaneSection
}

type Junction struct {
	ID   int64
	Name string
	Type string
}

type Map struct {
	Header    Header
	Roads     []*Road
	Junctions []*Junction
}

// Raw document structs, mirroring the XML schema.

type xDoc struct {
	XMLName   xml.Name    `xml:"OpenDRIVE"`
	Header    xHeader     `xml:"header"`
	Roads     []xRoad     `xml:"road"`
	Junctions []xJunction `xml:"junction"`
}

type xHeader struct {
	RevMajor string  `xml:"revMajor,attr"`
	RevMinor string  `xml:"revMinor,attr"`
	Name     string  `xml:"name,attr"`
	Version  string  `xml:"version,attr"`
	Date     string  `xml:"date,attr"`
	North    float64 `xml:"north,attr"`
	South    float64 `xml:"south,attr"`
	East     float64 `xml:"east,attr"`
	West     float64 `xml:"west,attr"`
	Vendor   string  `xml:"vendor,attr"`
}

type xRoad struct {
	ID       string      `xml:"id,attr"`
	Name     string      `xml:"name,attr"`
	Length   float64     `xml:"length,attr"`
	Junction string      `xml:"junction,attr"`
	Rule     string      `xml:"rule,attr"`
	Link     *xRoadLink  `xml:"link"`
	Types    []xRoadType `xml:"type"`
	PlanView xPlanView   `xml:"planView"`
	Lanes    xLanes      `xml:"lanes"`
}

type xRoadLink struct {
	Predecessor *xLinkTarget `xml:"predecessor"`
	Successor   *xLinkTarget `xml:"successor"`
}

type xLinkTarget struct {
	ElementID string `xml:"elementId,attr"`
}

type xRoadType struct {
	S    float64 `xml:"s,attr"`
	Type string  `xml:"type,attr"`
}

type xPlanView struct {
	Geometries []xGeometry `xml:"geometry"`
}

type xGeometry struct {
	S      float64 `xml:"s,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Hdg    float64 `xml:"hdg,attr"`
	Length float64 `xml:"length,attr"`

	Line       *struct{}    `xml:"line"`
	Arc        *xArc        `xml:"arc"`
	Spiral     *xSpiral     `xml:"spiral"`
	Poly3      *xPoly3      `xml:"poly3"`
	ParamPoly3 *xParamPoly3 `xml:"paramPoly3"`
}

type xArc struct {
	Curvature float64 `xml:"curvature,attr"`
}

type xSpiral struct {
	CurvStart float64 `xml:"curvStart,attr"`
	CurvEnd   float64 `xml:"curvEnd,attr"`
}

type xPoly3 struct {
	A float64 `xml:"a,attr"`
	B float64 `xml:"b,attr"`
	C float64 `xml:"c,attr"`
	D float64 `xml:"d,attr"`
}

type xParamPoly3 struct {
	AU     float64 `xml:"aU,attr"`
	BU     float64 `xml:"bU,attr"`
	CU     float64 `xml:"cU,attr"`
	DU     float64 `xml:"dU,attr"`
	AV     float64 `xml:"aV,attr"`
	BV     float64 `xml:"bV,attr"`
	CV     float64 `xml:"cV,attr"`
	DV     float64 `xml:"dV,attr"`
	PRange string  `xml:"pRange,attr"`
}

type xLanes struct {
	Offsets  []xLaneOffset  `xml:"laneOffset"`
	Sections []xLaneSection `xml:"laneSection"`
}

type xLaneOffset struct {
	S float64 `xml:"s,attr"`
	A float64 `xml:"a,attr"`
	B float64 `xml:"b,attr"`
	C float64 `xml:"c,attr"`
	D float64 `xml:"d,attr"`
}

type xLaneSection struct {
	S      float64     `xml:"s,attr"`
	Left   *xLaneGroup `xml:"left"`
	Center *xLaneGroup `xml:"center"`
	Right  *xLaneGroup `xml:"right"`
}

type xLaneGroup struct {
	Lanes []xLane `xml:"lane"`
}

type xLane struct {
	ID     int64    `xml:"id,attr"`
	Type   string   `xml:"type,attr"`
	Widths []xWidth `xml:"width"`
}

type xWidth struct {
	SOffset float64 `xml:"sOffset,attr"`
	A       float64 `xml:"a,attr"`
	B       float64 `xml:"b,attr"`
	C       float64 `xml:"c,attr"`
	D       float64 `xml:"d,attr"`
}

// ParseFile parses an OpenDRIVE document from disk.
func ParseFile(path string) (*Map, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	return Parse(fp)
}

// Parse parses an OpenDRIVE document into an element tree.
func Parse(r io.Reader) (*Map, error) {
	doc := &xDoc{}
	err := xml.NewDecoder(r).Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("Failed to parse document: %s", err)
	}

	m := &Map{
		Header: Header(doc.Header),
	}

	for _, xr := range doc.Roads {
		road, err := parseRoad(xr)
		if err != nil {
			return nil, err
		}
		m.Roads = append(m.Roads, road)
	}

	for _, xj := range doc.Junctions {
		m.Junctions = append(m.Junctions, &Junction{
			ID:   parseID(xj.ID),
			Name: xj.Name,
			Type: xj.Type,
		})
	}

	return m, nil
}

type xJunction struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

func parseRoad(xr xRoad) (*Road, error) {
	road := &Road{
		ID:          parseID(xr.ID),
		Name:        xr.Name,
		Length:      xr.Length,
		JunctionID:  parseID(xr.Junction),
		Rule:        xr.Rule,
		Predecessor: -1,
		Successor:   -1,
	}

	if xr.Link != nil {
		if xr.Link.Predecessor != nil {
			road.Predecessor = parseID(xr.Link.Predecessor.ElementID)
		}
		if xr.Link.Successor != nil {
			road.Successor = parseID(xr.Link.Successor.ElementID)
		}
	}

	for _, t := range xr.Types {
		road.Types = append(road.Types, RoadType(t))
	}

	for _, xg := range xr.PlanView.Geometries {
		g, err := parseGeometry(road.ID, xg)
		if err != nil {
			return nil, err
		}
		road.PlanView = append(road.PlanView, g)
	}
	sort.SliceStable(road.PlanView, func(i, j int) bool {
		return road.PlanView[i].S() < road.PlanView[j].S()
	})

	for _, o := range xr.Lanes.Offsets {
		road.Offsets = append(road.Offsets, LaneOffset(o))
	}
	sort.SliceStable(road.Offsets, func(i, j int) bool {
		return road.Offsets[i].S < road.Offsets[j].S
	})

	sections := xr.Lanes.Sections
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].S < sections[j].S
	})
	for i, xs := range sections {
		end := road.Length
		if i+1 < len(sections) {
			end = sections[i+1].S
		}
		road.Sections = append(road.Sections, parseSection(xs, end))
	}

	return road, nil
}

func parseGeometry(roadID int64, xg xGeometry) (Geometry, error) {
	base := geomBase{
		s:      xg.S,
		x:      xg.X,
		y:      xg.Y,
		hdg:    xg.Hdg,
		length: xg.Length,
	}

	switch {
	case xg.Line != nil:
		return Line{base}, nil
	case xg.Arc != nil:
		if xg.Arc.Curvature == 0 {
			return nil, fmt.Errorf("Road %d: arc at s=%g has zero curvature", roadID, xg.S)
		}
		return Arc{base, xg.Arc.Curvature}, nil
	case xg.Spiral != nil:
		return Spiral{base, xg.Spiral.CurvStart, xg.Spiral.CurvEnd}, nil
	case xg.Poly3 != nil:
		p := xg.Poly3
		return Poly3{base, p.A, p.B, p.C, p.D}, nil
	case xg.ParamPoly3 != nil:
		p := xg.ParamPoly3
		u := [4]float64{p.AU, p.BU, p.CU, p.DU}
		v := [4]float64{p.AV, p.BV, p.CV, p.DV}
		return NewParamPoly3(xg.S, xg.X, xg.Y, xg.Hdg, xg.Length, u, v, p.PRange != "arcLength"), nil
	default:
		return nil, fmt.Errorf("Road %d: geometry at s=%g has no primitive", roadID, xg.S)
	}
}

func parseSection(xs xLaneSection, end float64) *LaneSection {
	section := &LaneSection{
		Start: xs.S,
		End:   end,
	}

	section.Left = parseLanes(xs.Left)
	section.Center = parseLanes(xs.Center)
	section.Right = parseLanes(xs.Right)

	// Outward order: left lanes 1, 2, … and right lanes -1, -2, …
	sort.SliceStable(section.Left, func(i, j int) bool {
		return section.Left[i].ID < section.Left[j].ID
	})
	sort.SliceStable(section.Right, func(i, j int) bool {
		return section.Right[i].ID > section.Right[j].ID
	})

	return section
}

func parseLanes(g *xLaneGroup) []*Lane {
	if g == nil {
		return nil
	}

	lanes := make([]*Lane, 0, len(g.Lanes))
	for _, xl := range g.Lanes {
		lane := &Lane{
			ID:   xl.ID,
			Type: xl.Type,
		}
		for _, w := range xl.Widths {
			lane.Widths = append(lane.Widths, Width(w))
		}
		sort.SliceStable(lane.Widths, func(i, j int) bool {
			return lane.Widths[i].SOffset < lane.Widths[j].SOffset
		})
		lanes = append(lanes, lane)
	}
	return lanes
}

// parseID parses a numeric identifier attribute, -1 when absent or invalid.
func parseID(s string) int64 {
	if s == "" {
		return -1
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return -1
	}
	return id
}
