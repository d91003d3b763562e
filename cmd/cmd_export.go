package cmd

import "fmt"

type CmdExport struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("export",
		"Export sampled lanes",
		"Writes one GeoJSON file per road with the sampled lane curves",
		&CmdExport{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdExport) Usage() string {
	return "[output folder]"
}

func (cmd CmdExport) Execute(args []string) error {
	config, err := cmd.global.ReadConfig()
	if err != nil {
		return err
	}

	out := config.Output
	if len(args) == 1 {
		out = args[0]
	}
	if out == "" {
		return fmt.Errorf("No output folder, Usage: %s", cmd.Usage())
	}

	env, err := cmd.global.NewEnv()
	if err != nil {
		return err
	}
	defer env.Stop()

	err = env.Export(out)
	if err != nil {
		return fmt.Errorf("Failed to export: %s", err)
	}
	return nil
}
