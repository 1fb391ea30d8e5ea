// Command ecoquest tracks the carbon footprint of everyday activities.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/ecoquest/internal/cli"
	"github.com/rshade/ecoquest/pkg/version"
)

func main() {
	os.Exit(exitCode(run()))
}

func run() error {
	root := cli.NewRootCmd(version.Info())
	return root.Execute()
}

// exitCode maps a command error to a process exit code and prints it.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Reason != "" {
			fmt.Fprintln(os.Stderr, exitErr.Reason)
		}
		return exitErr.Code
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
