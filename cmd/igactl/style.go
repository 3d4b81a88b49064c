package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"iga/internal/rubric"
)

func newStyleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "style",
		Short: "Inspect style files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [file]",
		Short: "Print a style file, or the built-in default when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := rubric.DefaultStyle()
			if len(args) == 1 {
				var err error
				if st, err = rubric.LoadStyle(args[0]); err != nil {
					return err
				}
			}
			data, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a style file has exactly the expected keys and valid values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := rubric.LoadStyle(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	})

	return cmd
}
