package main

import (
	"fmt"
	"os"

	"pilates-studio/internal/cli"
)

var Version = "dev"

func main() {
	if err := cli.NewRootCommand(Version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
