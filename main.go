// ABOUTME: Entry point for the streamplay binary
// ABOUTME: Hands control to the cobra command tree
package main

import (
	"fmt"
	"os"

	"github.com/Resonate-Protocol/streamplay/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "streamplay: %v\n", err)
		os.Exit(1)
	}
}
