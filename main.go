// Package main provides the entry point for the Piper application.
package main

import (
	"os"

	"piper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
