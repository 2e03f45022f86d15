// Package main provides the mapdesc CLI.
package main

import (
	"os"

	"github.com/fmidev/mapdesc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
