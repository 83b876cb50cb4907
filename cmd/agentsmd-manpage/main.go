package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/agentsmd/cmd/agentsmd"
	"github.com/arthur-debert/agentsmd/internal/version"
)

func main() {
	rootCmd := agentsmd.NewRootCmd()

	header := &doc.GenManHeader{
		Title:   "AGENTSMD",
		Section: "1",
		Source:  "agentsmd " + version.Version,
		Manual:  "agentsmd manual",
	}

	err := doc.GenMan(rootCmd, header, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
