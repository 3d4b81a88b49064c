// Package main provides the igactl command-line tool for grading essays
// locally and managing grading configuration files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "igactl",
		Short: "Essay grading toolkit",
		Long: `igactl grades essays against a rubric without the API server and
manages the style, keyword and profile files the server reads.`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newGradeCmd(),
		newStyleCmd(),
		newKeywordsCmd(),
		newTokenCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
