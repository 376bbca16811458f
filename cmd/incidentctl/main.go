package main

import (
	"fmt"
	"os"

	"github.com/bryanwahyu/incident-lens/internal/cli"
)

var (
	version = "dev" // Overwritten at build time
)

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
