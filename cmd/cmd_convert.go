package cmd

import "fmt"

type CmdConvert struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("convert",
		"Convert a map",
		"Runs a conversion pass over the configured map file and prints statistics",
		&CmdConvert{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdConvert) Execute(args []string) error {
	env, err := cmd.global.NewEnv()
	if err != nil {
		return err
	}
	defer env.Stop()

	data := env.Data()
	fmt.Printf("Roads:     %8d\n", len(data.Roads))
	fmt.Printf("Sections:  %8d\n", len(data.Sections))
	fmt.Printf("Lanes:     %8d\n", len(data.Lanes))
	fmt.Printf("Junctions: %8d\n", len(data.Junctions))
	fmt.Printf("Indexed:   %8d points\n", env.IndexedPoints())
	return nil
}
