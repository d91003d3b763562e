package main

import (
	"log"

	"github.com/phacochoerus/opendrive-engine/cmd"
)

func main() {
	err := cmd.Run()
	if err != nil {
		log.Fatal(err.Error())
	}
}
