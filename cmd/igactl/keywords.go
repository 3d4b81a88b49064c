package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iga/internal/keyword"
)

func newKeywordsCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "keywords",
		Short: "Manage a keyword file",
	}
	cmd.PersistentFlags().StringVar(&path, "file", "", "Keyword file (required)")
	_ = cmd.MarkPersistentFlagRequired("file")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List keywords",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ix, err := keyword.Load(path)
				if err != nil {
					return err
				}
				for _, w := range ix.Keywords() {
					fmt.Fprintln(cmd.OutOrStdout(), w)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <keyword>...",
			Short: "Add keywords, creating the file if needed",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				ix, err := keyword.Open(path)
				if err != nil {
					return err
				}
				for _, w := range args {
					if err := ix.Add(w); err != nil {
						return fmt.Errorf("adding %q: %w", w, err)
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <keyword>...",
			Short: "Remove keywords",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				ix, err := keyword.Load(path)
				if err != nil {
					return err
				}
				for _, w := range args {
					if err := ix.Remove(w); err != nil {
						return fmt.Errorf("removing %q: %w", w, err)
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every keyword",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				ix, err := keyword.Load(path)
				if err != nil {
					return err
				}
				return ix.Clear()
			},
		},
	)

	return cmd
}
