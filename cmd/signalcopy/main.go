package main

import (
	"os"

	"github.com/rustyeddy/signalcopy/cmd/signalcopy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
