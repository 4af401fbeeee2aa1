package main

import (
	"os"

	"github.com/spigell/interview-reporter/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
