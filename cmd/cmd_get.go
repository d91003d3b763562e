package cmd

import (
	"fmt"

	"github.com/kr/pretty"
)

type CmdGet struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("get",
		"Get items",
		"Get converted entities from the published store",
		&CmdGet{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdGet) Usage() string {
	return "[header|road|section|lane|junction] id"
}

func (cmd CmdGet) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}

	env, err := cmd.global.NewEnv()
	if err != nil {
		return err
	}
	defer env.Stop()

	data := env.Data()
	if args[0] == "header" {
		fmt.Printf("%# v\n", pretty.Formatter(data.Header))
		return nil
	}

	if len(args) != 2 {
		return fmt.Errorf("Options missing, Usage: %s", cmd.Usage())
	}
	id := args[1]

	switch args[0] {
	case "road":
		road, ok := data.Roads[id]
		if !ok {
			return fmt.Errorf("Unknown road: %s", id)
		}
		fmt.Printf("%# v\n", pretty.Formatter(road))
	case "section":
		section, ok := data.Sections[id]
		if !ok {
			return fmt.Errorf("Unknown section: %s", id)
		}
		fmt.Printf("%# v\n", pretty.Formatter(section))
	case "lane":
		lane, ok := data.Lanes[id]
		if !ok {
			return fmt.Errorf("Unknown lane: %s", id)
		}
		fmt.Printf("%# v\n", pretty.Formatter(lane))
	case "junction":
		junction, ok := data.Junctions[id]
		if !ok {
			return fmt.Errorf("Unknown junction: %s", id)
		}
		fmt.Printf("%# v\n", pretty.Formatter(junction))
	default:
		return fmt.Errorf("Unknown type %s, Usage: %s", args[0], cmd.Usage())
	}

	return nil
}
