// Package engine converts parsed OpenDRIVE maps into a sampled road surface
// model and a queryable nearest-neighbor index over its lane center lines.
package engine

import (
	"fmt"
	"os"
	"strconv"

	"github.com/phacochoerus/opendrive-engine/engine/kdtree"
	"github.com/phacochoerus/opendrive-engine/engine/model"
	"github.com/phacochoerus/opendrive-engine/xodr"
)

// Convertor runs a single conversion pass: assemble header, roads and
// junctions, sample lane geometry, then build the spatial index from the
// accumulated center-line points. A pass runs to completion or to the first
// fatal error, later stages no-op once the status is non-OK.
type Convertor struct {
	config *Config
	data   *model.Data
	tree   *kdtree.Tree

	step      float64
	status    Status
	centerPts []kdtree.SamplePoint
}

func NewConvertor(config *Config, data *model.Data, tree *kdtree.Tree) *Convertor {
	return &Convertor{
		config: config,
		data:   data,
		tree:   tree,
		status: Status{Code: OK, Message: "ok"},
	}
}

func (c *Convertor) setStatus(code ErrorCode, msg string) {
	c.status = Status{Code: code, Message: msg}
}

func (c *Convertor) ok() bool {
	return c.status.OK()
}

// Start runs the pass and returns its final status.
func (c *Convertor) Start() Status {
	if c.config == nil || c.data == nil || c.tree == nil {
		c.setStatus(InitError, "config, data store and index are required")
		return c.status
	}
	c.step = c.config.StepSize()
	c.centerPts = nil

	mapFile := c.config.MapFile
	if mapFile == "" {
		c.setStatus(MapFileError, "no map file configured")
		return c.status
	}
	if _, err := os.Stat(mapFile); err != nil {
		c.setStatus(MapFileError, fmt.Sprintf("input file error: %s", mapFile))
		return c.status
	}

	m, err := xodr.ParseFile(mapFile)
	if err != nil {
		c.setStatus(MapFileError, fmt.Sprintf("input file error: %s", err))
		return c.status
	}

	return c.convert(m)
}

func (c *Convertor) convert(m *xodr.Map) Status {
	c.convertHeader(m)
	c.convertRoads(m)
	c.convertJunctions(m)
	c.buildIndex()
	c.end()
	return c.status
}

func (c *Convertor) convertHeader(m *xodr.Map) {
	if !c.ok() {
		return
	}

	h := m.Header
	c.data.Header = &model.Header{
		RevMajor: h.RevMajor,
		RevMinor: h.RevMinor,
		Name:     h.Name,
		Version:  h.Version,
		Date:     h.Date,
		North:    h.North,
		South:    h.South,
		East:     h.East,
		West:     h.West,
		Vendor:   h.Vendor,
	}
}

func (c *Convertor) convertRoads(m *xodr.Map) {
	if !c.ok() {
		return
	}

	for _, eleRoad := range m.Roads {
		if eleRoad.ID < 0 {
			continue
		}

		road := &model.Road{
			ID:             strconv.FormatInt(eleRoad.ID, 10),
			Name:           eleRoad.Name,
			Length:         eleRoad.Length,
			Rule:           eleRoad.Rule,
			PredecessorIDs: make(map[string]bool),
			SuccessorIDs:   make(map[string]bool),
		}
		if eleRoad.JunctionID >= 0 {
			road.JunctionID = strconv.FormatInt(eleRoad.JunctionID, 10)
		}

		// Roads carry at most one predecessor and one successor.
		if eleRoad.Predecessor >= 0 {
			road.PredecessorIDs[strconv.FormatInt(eleRoad.Predecessor, 10)] = true
		}
		if eleRoad.Successor >= 0 {
			road.SuccessorIDs[strconv.FormatInt(eleRoad.Successor, 10)] = true
		}

		for _, info := range eleRoad.Types {
			road.Info = append(road.Info, model.RoadInfo{
				S:    info.S,
				Type: info.Type,
			})
		}

		c.convertSections(eleRoad, road)
		if !c.ok() {
			// Roads published so far stay, the failed one is dropped.
			return
		}

		c.data.Roads[road.ID] = road
	}
}

func (c *Convertor) convertSections(eleRoad *xodr.Road, road *model.Road) {
	if !c.ok() {
		return
	}

	roadDS := 0.0
	for idx, eleSection := range eleRoad.Sections {
		section := &model.Section{
			ID:            fmt.Sprintf("%s_%d", road.ID, idx),
			ParentID:      road.ID,
			StartPosition: eleSection.Start,
			EndPosition:   eleSection.End,
			Length:        eleSection.End - eleSection.Start,
		}
		road.Sections = append(road.Sections, section)

		if len(eleSection.Center) != 1 {
			c.setStatus(CenterLaneError,
				fmt.Sprintf("%s center lane count is %d, want 1", section.ID, len(eleSection.Center)))
			return
		}

		section.CenterLane = &model.Lane{
			ID:       section.ID + "_0",
			ParentID: section.ID,
		}
		roadDS = c.sampleCenterLane(eleRoad.PlanView, eleRoad.Offsets, section, roadDS)
		if !c.ok() {
			return
		}

		// The center lane's left boundary seeds the reference line, each
		// lane republishes its right boundary for the next one outward.
		ref := section.CenterLane.LeftBoundary.Curve.Points
		for _, eleLane := range eleSection.Left {
			lane := c.buildLane(eleLane, section, ref)
			section.LeftLanes = append(section.LeftLanes, lane)
			ref = lane.RightBound.Curve.Points
		}

		ref = section.CenterLane.RightBound.Curve.Points
		for _, eleLane := range eleSection.Right {
			lane := c.buildLane(eleLane, section, ref)
			section.RightLanes = append(section.RightLanes, lane)
			ref = lane.RightBound.Curve.Points
		}

		// Publish only once the section converted fully.
		c.data.Sections[section.ID] = section
		c.data.Lanes[section.CenterLane.ID] = section.CenterLane
		for _, lane := range section.LeftLanes {
			c.data.Lanes[lane.ID] = lane
		}
		for _, lane := range section.RightLanes {
			c.data.Lanes[lane.ID] = lane
		}
	}
}

func (c *Convertor) convertJunctions(m *xodr.Map) {
	if !c.ok() {
		return
	}

	for _, eleJunction := range m.Junctions {
		if eleJunction.ID < 0 {
			continue
		}
		junction := &model.Junction{
			ID:   strconv.FormatInt(eleJunction.ID, 10),
			Name: eleJunction.Name,
			Type: eleJunction.Type,
		}
		c.data.Junctions[junction.ID] = junction
	}
}

func (c *Convertor) buildIndex() {
	if !c.ok() {
		return
	}
	c.tree.Build(c.centerPts, kdtree.Params{
		LeafMaxSize:   c.config.KDTree.LeafMaxSize,
		AlternateAxes: c.config.KDTree.AlternateAxes,
	})
}

// end drops the accumulation buffer, the index owns its own copy.
func (c *Convertor) end() {
	if !c.ok() {
		return
	}
	c.centerPts = nil
}
