package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/agentsmd/cmd/agentsmd"
	"github.com/arthur-debert/agentsmd/pkg/display"
)

func main() {
	rootCmd := agentsmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// One styled error line on stderr; plain when stderr is a pipe.
		renderer, rerr := display.NewRenderer(display.FormatAuto, os.Stderr)
		if rerr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		} else {
			_ = renderer.RenderError(err)
		}

		os.Exit(1)
	}
}
