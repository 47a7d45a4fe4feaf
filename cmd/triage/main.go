// Package main implements the triage CLI: symptom entry, rule matching and
// rule catalog maintenance.
package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// version information
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags. Non-empty values override the
// config file and TRIAGE_* environment.
type rootOptions struct {
	configPath      string
	rulesPath       string
	logLevel        string
	logFormat       string
	metricsTextfile string
	trace           bool
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "triage",
		Short: "Rule-based symptom triage",
		Long: `triage matches a set of symptoms against a catalog of diagnosis rules and
recommends a specialist.

Exact matches return the rule's diagnosis. Otherwise the rule covering the
largest fraction of its symptoms wins and is marked as a closest match.

This is not a medical device. Always consult a certified doctor.`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/triage/config.yaml)")
	flags.StringVar(&opts.rulesPath, "rules", "", "rule file (.toml, .yaml); default is the built-in catalog")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console or json")
	flags.StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file on exit")
	flags.BoolVar(&opts.trace, "trace", false, "log OpenTelemetry spans to stderr")

	rootCmd.AddCommand(
		newDiagnoseCmd(opts),
		newInteractiveCmd(opts),
		newSymptomsCmd(opts),
		newRulesCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}
