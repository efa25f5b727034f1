package main

import (
	"os"

	"github.com/bridgeskills/bridgeskills/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
