package main

import (
	"github.com/willf/downlow/internal/cmd"
)

// Version information set via ldflags during build.
// Example: go build -ldflags="-X main.version=1.0.0 -X main.commit=abc123 -X main.buildDate=2026-08-29"
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)

	if err := cmd.Execute(); err != nil {
		// Commands log their own specific errors; exit with the general
		// failure code.
		cmd.ExitWithCodeStderr(cmd.ExitGeneralError, "Command execution failed", err)
	}
}
