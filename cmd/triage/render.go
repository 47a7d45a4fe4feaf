package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/triage/internal/diagnosis"
)

// Output formats for diagnosis results.
const (
	outputText = "text"
	outputJSON = "json"
)

const disclaimer = "⚠️  This is an AI-based suggestion only.\n📞 Please consult a certified doctor in real life."

// Styles
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	exactStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	partialStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	noneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

func validOutput(format string) error {
	if format != outputText && format != outputJSON {
		return fmt.Errorf("output must be %q or %q, got %q", outputText, outputJSON, format)
	}
	return nil
}

func writeDiagnosis(w io.Writer, d *diagnosis.Diagnosis, format string) error {
	if format == outputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	_, err := fmt.Fprintln(w, renderDiagnosis(d))
	return err
}

// renderDiagnosis formats a diagnosis for the terminal. lipgloss drops colors
// when the output is not a terminal.
func renderDiagnosis(d *diagnosis.Diagnosis) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("📊  Diagnosis Result"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("📋  You entered : "))
	b.WriteString(strings.Join(d.Symptoms, ", "))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("🧬  Diagnosis   : "))
	b.WriteString(valueStyle.Render(d.Label))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("👨‍⚕️  Consult     : "))
	b.WriteString(valueStyle.Render(d.Recommendation))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("🔎  Match       : "))
	b.WriteString(kindStyle(d.Kind).Render(matchSummary(d)))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(disclaimer))
	return containerStyle.Render(b.String())
}

func matchSummary(d *diagnosis.Diagnosis) string {
	switch d.Kind {
	case diagnosis.KindExact:
		return "exact"
	case diagnosis.KindPartial:
		return fmt.Sprintf("closest (%.0f%% of rule matched: %s)", d.Score*100, strings.Join(d.MatchedSymptoms, ", "))
	default:
		return "none"
	}
}

func kindStyle(k diagnosis.Kind) lipgloss.Style {
	switch k {
	case diagnosis.KindExact:
		return exactStyle
	case diagnosis.KindPartial:
		return partialStyle
	default:
		return noneStyle
	}
}
