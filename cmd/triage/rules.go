package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
)

func newRulesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the rule catalog",
		Long: `Inspect the rule catalog selected by --rules (or the built-in catalog).

Examples:
  # Report curated rules that can never match
  triage rules lint --rules ./rules.toml --strict

  # Show rule counts
  triage rules stats`,
	}
	cmd.AddCommand(newRulesLintCmd(root), newRulesStatsCmd(root))
	return cmd
}

func newRulesLintCmd(root *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Report shadowed duplicate rules",
		Long: `Report curated rules whose symptom set repeats an earlier rule.

Only the first rule for a symptom set can ever match; later ones are
shadowed. With --strict, any shadowed rule is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithApp(cmd, root, func(ctx context.Context, a *app) error {
				out := cmd.OutOrStdout()
				shadowed := a.service.KnowledgeBase().Shadowed()
				if len(shadowed) == 0 {
					fmt.Fprintf(out, "%s: no shadowed rules\n", a.catalog.Source)
					return nil
				}

				for _, s := range shadowed {
					winner := a.catalog.Rules[s.ShadowedBy]
					fmt.Fprintf(out, "%s: rule %d %q [%s] is shadowed by rule %d %q\n",
						a.catalog.Source, s.Index, s.Definition.Diagnosis,
						strings.Join(s.Definition.Symptoms, ", "),
						s.ShadowedBy, winner.Diagnosis)
				}
				fmt.Fprintf(out, "%d shadowed rule(s)\n", len(shadowed))

				if strict {
					return fmt.Errorf("%d shadowed rule(s) in %s", len(shadowed), a.catalog.Source)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any rule is shadowed")
	return cmd
}

func newRulesStatsCmd(root *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show rule counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			return runWithApp(cmd, root, func(ctx context.Context, a *app) error {
				stats := a.service.KnowledgeBase().Stats()
				out := cmd.OutOrStdout()

				if output == outputJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(struct {
						Source string `json:"source"`
						knowledge.Stats
						Total int `json:"total"`
					}{a.catalog.Source, stats, stats.Total()})
				}

				fmt.Fprintf(out, "source:          %s\n", a.catalog.Source)
				fmt.Fprintf(out, "curated rules:   %d\n", stats.Curated)
				fmt.Fprintf(out, "generated rules: %d\n", stats.Generated)
				fmt.Fprintf(out, "total rules:     %d\n", stats.Total())
				fmt.Fprintf(out, "shadowed rules:  %d\n", stats.Shadowed)
				fmt.Fprintf(out, "known symptoms:  %d\n", stats.KnownSymptoms)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}
