package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

type CmdServer struct {
	global *GlobalOptions
}

func init() {
	_, err := parser.AddCommand("server",
		"Run the query server",
		"Converts the configured map and serves nearest-point queries over HTTP",
		&CmdServer{global: &globalOpts})
	if err != nil {
		panic(err)
	}
}

func (cmd CmdServer) Execute(args []string) error {
	godotenv.Load()

	config, err := cmd.global.ReadConfig()
	if err != nil {
		return err
	}

	listen := os.Getenv("ENGINE_LISTEN")
	if listen == "" {
		listen = config.Listen
	}

	env, err := cmd.global.NewEnv()
	if err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-stop
		env.Stop()
	}()

	fmt.Printf("Listening on %s\n", listen)
	return env.StartServer(listen)
}
