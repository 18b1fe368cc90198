// Command keyip is the command-line client of the KeyIP lifecycle API.
package main

import (
	"os"

	"github.com/turtacn/KeyIP-Lifecycle/internal/interfaces/cli"
)

// Set with -ldflags "-X main.version=...".
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cli.Version, cli.GitCommit, cli.BuildDate = version, commit, buildDate

	// Execute has already printed err.
	os.Exit(cli.ExitCode(cli.Execute()))
}

//Personal.AI order the ending
