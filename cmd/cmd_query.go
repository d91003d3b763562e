package cmd

import (
	"fmt"
	"strconv"
)

type CmdQuery struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("query",
		"Query nearest lane points",
		"Converts the configured map and prints the k lane points nearest to (x, y)",
		&CmdQuery{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdQuery) Usage() string {
	return "x y [k]"
}

func (cmd CmdQuery) Execute(args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}

	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return err
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return err
	}
	k := 1
	if len(args) == 3 {
		k, err = strconv.Atoi(args[2])
		if err != nil {
			return err
		}
	}

	env, err := cmd.global.NewEnv()
	if err != nil {
		return err
	}
	defer env.Stop()

	results, err := env.Query(x, y, k)
	if err != nil {
		return fmt.Errorf("Failed to query: %s", err)
	}

	for _, r := range results {
		fmt.Printf("%s (%.3f, %.3f) dist=%.3f\n", r.ID, r.X, r.Y, r.Dist)
	}
	return nil
}
