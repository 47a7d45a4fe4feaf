package knowledge

import (
	"fmt"
	"slices"
	"strings"
)

// Source records where a rule came from.
type Source int

const (
	// SourceCurated marks a hand-authored rule.
	SourceCurated Source = iota

	// SourceGenerated marks a synthesized vocabulary-pair rule.
	SourceGenerated
)

func (s Source) String() string {
	switch s {
	case SourceCurated:
		return "curated"
	case SourceGenerated:
		return "generated"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// keySep joins sorted symptoms into a set key. It cannot appear in a
// canonical symptom.
const keySep = "\x1f"

// Rule associates a symptom set with a diagnosis label and a specialist
// recommendation. Rules are immutable.
type Rule struct {
	symptoms       []string // sorted, unique, canonical
	set            map[string]struct{}
	label          string
	recommendation string
	source         Source
}

func newRule(symptoms []string, label, recommendation string, source Source) *Rule {
	sorted := canonicalSet(symptoms)
	set := make(map[string]struct{}, len(sorted))
	for _, s := range sorted {
		set[s] = struct{}{}
	}
	return &Rule{
		symptoms:       sorted,
		set:            set,
		label:          label,
		recommendation: recommendation,
		source:         source,
	}
}

// Symptoms returns the rule's symptoms in sorted order.
func (r *Rule) Symptoms() []string {
	return slices.Clone(r.symptoms)
}

// Label returns the diagnosis label.
func (r *Rule) Label() string { return r.label }

// Recommendation returns the specialist to consult.
func (r *Rule) Recommendation() string { return r.recommendation }

// Source reports whether the rule was curated or generated.
func (r *Rule) Source() Source { return r.source }

// Size returns the number of distinct symptoms in the rule.
func (r *Rule) Size() int { return len(r.symptoms) }

// Contains reports whether the canonical symptom is part of the rule.
func (r *Rule) Contains(symptom string) bool {
	_, ok := r.set[symptom]
	return ok
}

// Overlap counts the rule's symptoms present in the query.
func (r *Rule) Overlap(q Query) int {
	n := 0
	for _, s := range r.symptoms {
		if q.Contains(s) {
			n++
		}
	}
	return n
}

// Key identifies the rule's symptom set independent of authoring order.
func (r *Rule) Key() string {
	return strings.Join(r.symptoms, keySep)
}

// canonicalSet canonicalizes, de-duplicates and sorts symptoms, dropping
// blanks.
func canonicalSet(symptoms []string) []string {
	out := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		if c := Canonicalize(s); c != "" {
			out = append(out, c)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Canonicalize trims, lowercases and collapses inner whitespace so that
// "  Sore   Throat" and "sore throat" name the same symptom.
func Canonicalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
