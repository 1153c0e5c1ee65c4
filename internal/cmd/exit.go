package cmd

import (
	"fmt"
	"os"
)

// Semantic exit codes.
const (
	ExitSuccess       = 0
	ExitGeneralError  = 1
	ExitInvalidArgs   = 2
	ExitConfigInvalid = 3
	ExitInputError    = 4
)

// ExitWithCodeStderr writes a fatal message to stderr and exits. Used
// for failures before or outside logger initialization.
func ExitWithCodeStderr(exitCode int, msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "FATAL: %s\n", msg)
	}
	os.Exit(exitCode)
}
