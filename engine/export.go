package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"runtime"

	"github.com/cheggaaa/pb"
	geojson "github.com/paulmach/go.geojson"
	"golang.org/x/sync/errgroup"

	"github.com/phacochoerus/opendrive-engine/engine/model"
)

// Export writes one GeoJSON FeatureCollection per road, containing the
// sampled center line and boundaries of every lane.
func (e *Env) Export(outPath string) error {
	err := os.MkdirAll(outPath, 0755)
	if err != nil {
		return err
	}

	roads := make(chan *model.Road, 100)
	bar := pb.New(len(e.data.Roads)).Start()

	var g errgroup.Group
	g.Go(func() error {
		defer close(roads)
		for _, road := range e.data.Roads {
			roads <- road
		}
		return nil
	})

	workers := runtime.NumCPU()
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for road := range roads {
				err := e.exportRoad(outPath, road)
				if err != nil {
					return err
				}
				bar.Increment()
			}
			return nil
		})
	}

	err = g.Wait()
	bar.Finish()
	return err
}

func (e *Env) exportRoad(outPath string, road *model.Road) error {
	fc := geojson.NewFeatureCollection()
	for _, section := range road.Sections {
		addLaneFeatures(fc, section.CenterLane)
		for _, lane := range section.LeftLanes {
			addLaneFeatures(fc, lane)
		}
		for _, lane := range section.RightLanes {
			addLaneFeatures(fc, lane)
		}
	}

	fp, err := os.Create(path.Join(outPath, fmt.Sprintf("%s.geojson", road.ID)))
	if err != nil {
		return err
	}
	defer fp.Close()

	return json.NewEncoder(fp).Encode(fc)
}

func addLaneFeatures(fc *geojson.FeatureCollection, lane *model.Lane) {
	if lane == nil {
		return
	}
	addCurveFeature(fc, lane.ID, "center", &lane.CentralCurve)
	addCurveFeature(fc, lane.ID, "left", &lane.LeftBoundary.Curve)
	addCurveFeature(fc, lane.ID, "right", &lane.RightBound.Curve)
}

func addCurveFeature(fc *geojson.FeatureCollection, laneID, role string, curve *model.Curve) {
	if curve.Len() < 2 {
		return
	}

	coords := make([][]float64, 0, curve.Len())
	for _, p := range curve.Points {
		coords = append(coords, []float64{p.X, p.Y})
	}

	feat := geojson.NewLineStringFeature(coords)
	feat.SetProperty("lane", laneID)
	feat.SetProperty("role", role)
	fc.AddFeature(feat)
}
