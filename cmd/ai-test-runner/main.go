// Package main is the entry point for the ai-test-runner CLI.
package main

import (
	"os"

	"github.com/ctestkit/aitestrunner/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
