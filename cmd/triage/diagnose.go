package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
)

func newDiagnoseCmd(root *rootOptions) *cobra.Command {
	var (
		symptoms []string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "diagnose [symptom...]",
		Short: "Diagnose a list of symptoms",
		Long: `Diagnose a list of symptoms against the rule catalog.

Symptoms are case-insensitive and may be given as arguments or with
repeated --symptom flags. Unknown symptoms are rejected with suggestions.

Examples:
  # Exact match
  triage diagnose fever cough

  # Multi-word symptoms
  triage diagnose -s "sore throat" -s "runny nose" -s fever -s cough

  # Machine-readable output
  triage diagnose -o json fever rash`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			raw := append(append([]string(nil), args...), symptoms...)

			return runWithApp(cmd, root, func(ctx context.Context, a *app) error {
				d, err := a.service.Diagnose(ctx, raw)
				if err != nil {
					return symptomError(err)
				}
				return writeDiagnosis(cmd.OutOrStdout(), d, output)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&symptoms, "symptom", "s", nil, "symptom to include (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}

// symptomError rewords query validation errors for the terminal.
func symptomError(err error) error {
	var invalid *knowledge.InvalidSymptomError
	switch {
	case errors.As(err, &invalid):
		if len(invalid.Suggestions) == 0 {
			return fmt.Errorf("symptom %q not recognized; run 'triage symptoms' for the list", invalid.Symptom)
		}
		return fmt.Errorf("symptom %q not recognized; did you mean: %s", invalid.Symptom, joinQuoted(invalid.Suggestions))
	case errors.Is(err, knowledge.ErrEmptyQuery):
		return errors.New("no symptoms given")
	default:
		return err
	}
}

func joinQuoted(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = strconv.Quote(s)
	}
	return strings.Join(quoted, ", ")
}
