package engine

import (
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// MinStep is the smallest allowed sampling step. Configured values below it
// (or unset values) are floored to it, which also guarantees the sampling
// loop terminates.
const MinStep = 0.1

const DefaultListen = "localhost:8282"

type KDTreeConfig struct {
	LeafMaxSize   int  `yaml:"leaf_max_size"`
	AlternateAxes bool `yaml:"alternate_axes"`
}

type Config struct {
	// MapFile is the path of the OpenDRIVE document to convert.
	MapFile string `yaml:"map_file"`

	// Step is the sampling step in map units, floored to MinStep.
	Step float64 `yaml:"step"`

	KDTree KDTreeConfig `yaml:"kdtree"`

	// Listen is the query server address.
	Listen string `yaml:"listen"`

	// Output is the folder GeoJSON exports are written to.
	Output string `yaml:"output"`
}

func ReadConfig(path string) (*Config, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	return ParseConfig(fp)
}

func ParseConfig(in io.Reader) (*Config, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}

	config := &Config{}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	if config.Listen == "" {
		config.Listen = DefaultListen
	}

	return config, nil
}

// StepSize returns the effective sampling step.
func (c *Config) StepSize() float64 {
	if c.Step < MinStep {
		return MinStep
	}
	return c.Step
}
