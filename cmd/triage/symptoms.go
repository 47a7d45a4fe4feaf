package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSymptomsCmd(root *rootOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "symptoms",
		Short: "List recognized symptoms",
		Long: `List every symptom the rule catalog recognizes, sorted.

With --search, list only symptoms resembling the fragment: prefix matches
first, then substring matches, then symptoms sharing a word.

Examples:
  triage symptoms
  triage symptoms --search pain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, root, func(ctx context.Context, a *app) error {
				kb := a.service.KnowledgeBase()
				list := kb.KnownSymptoms()
				if search != "" {
					list = kb.Suggest(search, 0)
					if len(list) == 0 {
						return fmt.Errorf("no symptoms match %q", search)
					}
				}
				for _, s := range list {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "only list symptoms resembling this fragment")
	return cmd
}
