// ABOUTME: Entry point for pulsectl CLI
// ABOUTME: Command-line dashboard client for the Pulse platform API

package main

import (
	"fmt"
	"os"

	"github.com/pulsekit/pulsectl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
