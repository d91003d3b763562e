package engine

import (
	"math"
	"os"
	"path"
	"testing"

	"github.com/cheekybits/is"

	"github.com/phacochoerus/opendrive-engine/engine/kdtree"
	"github.com/phacochoerus/opendrive-engine/engine/model"
)

const testMapDoc = `<?xml version="1.0" standalone="yes"?>
<OpenDRIVE>
    <header revMajor="1" revMinor="4" name="testmap" version="1.00" date="2019-04-01" north="120.0" south="-10.0" east="95.5" west="0.0" vendor="phacochoerus"/>
    <road name="main" length="20.0" id="1" junction="-1" rule="RHT">
        <link>
            <predecessor elementType="road" elementId="2" contactPoint="end"/>
        </link>
        <type s="0.0" type="town"/>
        <planView>
            <geometry s="0.0" x="0.0" y="0.0" hdg="0.0" length="20.0">
                <line/>
            </geometry>
        </planView>
        <lanes>
            <laneSection s="0.0">
                <left>
                    <lane id="1" type="driving" level="false">
                        <width sOffset="0.0" a="3.5" b="0.0" c="0.0" d="0.0"/>
                    </lane>
                </left>
                <center>
                    <lane id="0" type="none" level="false"/>
                </center>
                <right>
                    <lane id="-1" type="driving" level="false">
                        <width sOffset="0.0" a="3.0" b="0.0" c="0.0" d="0.0"/>
                    </lane>
                </right>
            </laneSection>
        </lanes>
    </road>
    <road name="stub" length="5.0" id="-1" junction="-1">
        <planView>
            <geometry s="0.0" x="0.0" y="50.0" hdg="0.0" length="5.0">
                <line/>
            </geometry>
        </planView>
        <lanes>
            <laneSection s="0.0">
                <center>
                    <lane id="0" type="none" level="false"/>
                </center>
            </laneSection>
        </lanes>
    </road>
    <junction id="5" name="crossing" type="default"/>
    <junction id="-1" name="none" type="default"/>
</OpenDRIVE>`

func writeMapFile(t *testing.T, doc string) string {
	t.Helper()
	file := path.Join(t.TempDir(), "map.xodr")
	err := os.WriteFile(file, []byte(doc), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return file
}

func TestConvertorStart(t *testing.T) {
	is := is.New(t)

	config := &Config{MapFile: writeMapFile(t, testMapDoc), Step: 0.1}
	data := model.NewData()
	tree := kdtree.New()

	status := NewConvertor(config, data, tree).Start()
	is.True(status.OK())
	is.NoErr(status.Err())

	// Header copied verbatim.
	is.NotNil(data.Header)
	is.Equal(data.Header.Name, "testmap")
	is.Equal(data.Header.North, 120.0)
	is.Equal(data.Header.Vendor, "phacochoerus")

	// Negative source ids are sentinels, not entities.
	is.Equal(len(data.Roads), 1)
	is.Equal(len(data.Junctions), 1)

	road := data.Roads["1"]
	is.NotNil(road)
	is.Equal(road.Name, "main")
	is.Equal(road.Length, 20.0)
	is.Equal(road.Rule, "RHT")
	is.Equal(road.JunctionID, "")
	is.True(road.PredecessorIDs["2"])
	is.Equal(len(road.PredecessorIDs), 1)
	is.Equal(len(road.SuccessorIDs), 0)
	is.Equal(len(road.Info), 1)
	is.Equal(road.Info[0].Type, "town")

	is.Equal(len(road.Sections), 1)
	section := data.Sections["1_0"]
	is.NotNil(section)
	is.Equal(section.ParentID, "1")
	is.Equal(section.Length, 20.0)

	// Center, one left, one right.
	is.Equal(len(data.Lanes), 3)
	center := data.Lanes["1_0_0"]
	left := data.Lanes["1_0_1"]
	right := data.Lanes["1_0_-1"]
	is.NotNil(center)
	is.NotNil(left)
	is.NotNil(right)

	is.Equal(len(center.Geometries), 1)
	is.Equal(center.Geometries[0].Kind, "line")

	// The index holds one entry per built-lane center point.
	want := left.CentralCurve.Len() + right.CentralCurve.Len()
	is.Equal(tree.Len(), want)

	// Nearest to a point just above the left lane center line.
	results, err := tree.Query(0, 2, 1)
	is.NoErr(err)
	is.Equal(results[0].ID, "1_0_1_0_2")
	is.True(math.Abs(results[0].Dist-0.25) < 1e-9)
}

func TestConvertorCenterLaneCardinality(t *testing.T) {
	is := is.New(t)

	doc := `<OpenDRIVE>
	<header revMajor="1" revMinor="4"/>
	<road name="broken" length="5.0" id="7" junction="-1">
		<planView>
			<geometry s="0.0" x="0.0" y="0.0" hdg="0.0" length="5.0"><line/></geometry>
		</planView>
		<lanes>
			<laneSection s="0.0">
				<left>
					<lane id="1" type="driving">
						<width sOffset="0.0" a="3.5"/>
					</lane>
				</left>
			</laneSection>
		</lanes>
	</road>
</OpenDRIVE>`

	config := &Config{MapFile: writeMapFile(t, doc), Step: 0.1}
	data := model.NewData()
	tree := kdtree.New()

	status := NewConvertor(config, data, tree).Start()
	is.Equal(status.Code, CenterLaneError)
	is.Err(status.Err())

	// Nothing from the failed section reaches the store.
	is.Equal(len(data.Lanes), 0)
	is.Equal(len(data.Sections), 0)
	is.Equal(len(data.Roads), 0)
}

func TestConvertorMultiSection(t *testing.T) {
	is := is.New(t)

	doc := `<OpenDRIVE>
	<header revMajor="1" revMinor="4"/>
	<road name="r" length="2.0" id="3" junction="-1">
		<planView>
			<geometry s="0.0" x="0.0" y="0.0" hdg="0.0" length="2.0"><line/></geometry>
		</planView>
		<lanes>
			<laneSection s="0.0">
				<center><lane id="0" type="none"/></center>
			</laneSection>
			<laneSection s="1.0">
				<center><lane id="0" type="none"/></center>
			</laneSection>
		</lanes>
	</road>
</OpenDRIVE>`

	config := &Config{MapFile: writeMapFile(t, doc), Step: 0.1}
	data := model.NewData()
	tree := kdtree.New()

	status := NewConvertor(config, data, tree).Start()
	is.True(status.OK())

	is.Equal(len(data.Sections), 2)
	first := data.Sections["3_0"]
	second := data.Sections["3_1"]
	is.NotNil(first)
	is.NotNil(second)

	// The road arc-length accumulator carries across sections: the second
	// section's local zero sits at the first section's end.
	p := second.CenterLane.CentralCurve.Points[0]
	is.Equal(p.S, 0.0)
	is.True(math.Abs(p.X-1) < 1e-9)
}

func TestConvertorMissingFile(t *testing.T) {
	is := is.New(t)

	config := &Config{MapFile: path.Join(t.TempDir(), "nope.xodr")}
	status := NewConvertor(config, model.NewData(), kdtree.New()).Start()
	is.Equal(status.Code, MapFileError)

	config = &Config{}
	status = NewConvertor(config, model.NewData(), kdtree.New()).Start()
	is.Equal(status.Code, MapFileError)
}

func TestConvertorBadFile(t *testing.T) {
	is := is.New(t)

	config := &Config{MapFile: writeMapFile(t, "no xml here <<")}
	status := NewConvertor(config, model.NewData(), kdtree.New()).Start()
	is.Equal(status.Code, MapFileError)
}

func TestConvertorNilInputs(t *testing.T) {
	is := is.New(t)

	status := NewConvertor(nil, nil, nil).Start()
	is.Equal(status.Code, InitError)

	status = NewConvertor(&Config{}, nil, kdtree.New()).Start()
	is.Equal(status.Code, InitError)
}
