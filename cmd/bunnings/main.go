package main

import (
	"os"

	"github.com/BrianJCal99/project-bunnings/cmd/bunnings/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
