package cmd

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/phacochoerus/opendrive-engine/engine"
)

type GlobalOptions struct {
	Config string `short:"c" long:"config" description:"Config file path" required:"true"`
}

var globalOpts = GlobalOptions{}
var parser = flags.NewParser(&globalOpts, flags.HelpFlag|flags.PassDoubleDash)

func Run() error {
	_, err := parser.Parse()
	if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
		parser.WriteHelp(os.Stdout)
		return nil
	}
	return err
}

func (g *GlobalOptions) ReadConfig() (*engine.Config, error) {
	config, err := engine.ReadConfig(g.Config)
	if err != nil {
		return nil, fmt.Errorf("Failed to read config: %s", err)
	}
	return config, nil
}

func (g *GlobalOptions) NewEnv() (*engine.Env, error) {
	config, err := g.ReadConfig()
	if err != nil {
		return nil, err
	}

	env, err := engine.NewEnv(config)
	if err != nil {
		return nil, fmt.Errorf("Failed to create env: %s", err)
	}
	return env, nil
}
