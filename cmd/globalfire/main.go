package main

import (
	"os"

	"github.com/rustyeddy/globalfire/cmd/globalfire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
