package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/triage/internal/catalog"
	"github.com/fyrsmithlabs/triage/internal/diagnosis"
	"github.com/fyrsmithlabs/triage/internal/knowledge"
)

const (
	doneWord      = "done"
	exampleCount  = 10
	separatorLine = "─────────────────────────────────────────────"
)

func newInteractiveCmd(root *rootOptions) *cobra.Command {
	var (
		watch  bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Enter symptoms one at a time",
		Long: `Prompt for symptoms one per line, then diagnose them.

Type 'done' (or end input) to finish. Unknown and repeated symptoms are
rejected at the prompt. With --watch, edits to the rule file given by --rules
take effect without restarting.

Examples:
  triage interactive
  triage interactive --rules ./rules.toml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(output); err != nil {
				return err
			}
			return runWithApp(cmd, root, func(ctx context.Context, a *app) error {
				if watch || a.cfg.Rules.Watch {
					stop, err := a.watchRules(ctx)
					if err != nil {
						return err
					}
					defer stop()
				}
				return runInteractive(ctx, a.service, cmd.InOrStdin(), cmd.OutOrStdout(), output)
			})
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "reload the rule file when it changes")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}

// watchRules swaps reloaded knowledge bases into the service until the
// returned stop function is called.
func (a *app) watchRules(ctx context.Context) (func(), error) {
	if a.cfg.Rules.Path == "" {
		return nil, errors.New("--watch requires --rules or rules.path")
	}

	w, err := catalog.NewWatcher(a.cfg.Rules.Path, a.logger,
		catalog.WithDebounce(a.cfg.Rules.Debounce.Duration()),
		catalog.WithWatcherMetrics(a.metrics),
	)
	if err != nil {
		return nil, err
	}
	if err := w.Start(ctx); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for kb := range w.Updates() {
			a.service.Swap(kb)
			a.logger.Debug(ctx, "knowledge base swapped", zap.Int("rules", kb.Len()))
		}
	}()

	return func() {
		w.Stop()
		<-done
	}, nil
}

func runInteractive(ctx context.Context, svc *diagnosis.Service, in io.Reader, out io.Writer, output string) error {
	fmt.Fprintln(out, headerStyle.Render("🩺  MEDICAL DIAGNOSIS AI  🧠"))

	known := svc.KnowledgeBase().KnownSymptoms()
	fmt.Fprintln(out, "\n💬  Enter your symptoms (type 'done' to finish):")
	fmt.Fprintln(out, "🗒  Examples:", strings.Join(known[:min(exampleCount, len(known))], ", "), "…")
	fmt.Fprintln(out, separatorLine)

	symptoms, err := readSymptoms(svc, in, out)
	if err != nil {
		return err
	}
	if len(symptoms) == 0 {
		fmt.Fprintln(out, "\n⚠️  No symptoms entered. Exiting.")
		return nil
	}

	fmt.Fprintln(out, "\n🔍  Evaluating your symptoms…")
	d, err := svc.Diagnose(ctx, symptoms)
	if err != nil {
		return symptomError(err)
	}
	if err := writeDiagnosis(out, d, output); err != nil {
		return err
	}
	if output == outputText {
		fmt.Fprintln(out, "🙏 Thank you for using the system. Stay healthy!")
	}
	return nil
}

// readSymptoms collects known, distinct symptoms until "done" or end of input.
func readSymptoms(svc *diagnosis.Service, in io.Reader, out io.Writer) ([]string, error) {
	var symptoms []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "➡️  Symptom: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}

		s := knowledge.Canonicalize(scanner.Text())
		if s == doneWord {
			break
		}
		if s == "" {
			continue
		}

		// Looked up per line so a rule reload applies mid-session.
		kb := svc.KnowledgeBase()
		switch _, dup := seen[s]; {
		case !kb.IsKnown(s):
			fmt.Fprintln(out, "❌  Not recognized. Try again.")
			if hints := kb.Suggest(s, 3); len(hints) > 0 {
				fmt.Fprintln(out, dimStyle.Render("   Did you mean: "+strings.Join(hints, ", ")))
			}
		case dup:
			fmt.Fprintln(out, "⚠️  Already entered.")
		default:
			seen[s] = struct{}{}
			symptoms = append(symptoms, s)
			fmt.Fprintf(out, "✅ Added: %s\n", s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read symptoms: %w", err)
	}
	return symptoms, nil
}
