// Package diagnosis matches a symptom query against a knowledge base.
//
// Match is the pure core: it reads an immutable knowledge.KnowledgeBase and
// never blocks or performs I/O, so it is safe to call from any number of
// goroutines. Service wraps Match with input validation, structured logging,
// tracing and metrics for interactive callers.
package diagnosis

import (
	"fmt"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
)

const (
	// ClosestMatchPrefix marks a label inferred from a partial match.
	ClosestMatchPrefix = "(AI) Closest match: "

	// FallbackLabel is returned when no rule shares a symptom with the query.
	FallbackLabel = "⚠️ AI could not confidently identify your condition."

	// FallbackRecommendation accompanies FallbackLabel.
	FallbackRecommendation = "👨‍⚕️ General Physician"
)

// Kind classifies how a result was reached.
type Kind int

const (
	// KindNone means no rule overlapped the query; the fallback was returned.
	KindNone Kind = iota

	// KindExact means a rule's symptom set equals the query.
	KindExact

	// KindPartial means the best-scoring overlapping rule was returned.
	KindPartial
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindExact:
		return "exact"
	case KindPartial:
		return "partial"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result is the outcome of matching one query.
type Result struct {
	Kind           Kind
	Label          string
	Recommendation string

	// Score is the fraction of the matched rule's symptoms present in the
	// query: 1 for exact matches, 0 for the fallback.
	Score float64

	// Rule is the matched rule, nil for the fallback.
	Rule *knowledge.Rule
}

// Fallback returns the low-confidence result used when nothing matches.
func Fallback() Result {
	return Result{
		Kind:           KindNone,
		Label:          FallbackLabel,
		Recommendation: FallbackRecommendation,
	}
}

// Match returns the best rule for the query.
//
// Rules are scanned from most to least specific (more symptoms first, ties in
// construction order):
//  1. A rule whose symptom set equals the query is returned verbatim.
//  2. Otherwise each overlapping rule scores overlap / rule size; only a
//     strict improvement replaces the current best, so ties keep the more
//     specific rule. The winner's label gets ClosestMatchPrefix.
//  3. If no rule overlaps the query, the fallback is returned.
//
// A nil knowledge base or an empty query yields the fallback.
func Match(kb *knowledge.KnowledgeBase, q knowledge.Query) Result {
	if kb == nil || q.Len() == 0 {
		return Fallback()
	}

	var (
		best      *knowledge.Rule
		bestScore float64
	)
	for rule := range kb.Candidates() {
		matches := rule.Overlap(q)
		if matches == 0 {
			continue
		}

		if matches == rule.Size() && rule.Size() == q.Len() {
			return Result{
				Kind:           KindExact,
				Label:          rule.Label(),
				Recommendation: rule.Recommendation(),
				Score:          1,
				Rule:           rule,
			}
		}

		score := float64(matches) / float64(rule.Size())
		if score > bestScore {
			best, bestScore = rule, score
		}
	}

	if best == nil {
		return Fallback()
	}
	return Result{
		Kind:           KindPartial,
		Label:          ClosestMatchPrefix + best.Label(),
		Recommendation: best.Recommendation(),
		Score:          bestScore,
		Rule:           best,
	}
}

// Diagnose matches raw symptoms and returns the label and recommendation.
// Symptoms are canonicalized but not validated against the vocabulary;
// unknown symptoms simply never overlap a rule.
func Diagnose(kb *knowledge.KnowledgeBase, symptoms ...string) (label, recommendation string) {
	r := Match(kb, knowledge.NewQuery(symptoms...))
	return r.Label, r.Recommendation
}
