package knowledge

import "slices"

// maxSuggestions caps the suggestions attached to an InvalidSymptomError.
const maxSuggestions = 5

// Query is an immutable set of canonical symptoms submitted for one
// diagnosis.
type Query struct {
	symptoms []string // sorted, unique
	set      map[string]struct{}
}

// NewQuery builds a query from raw symptom strings. Symptoms are
// canonicalized, blanks are dropped and duplicates are folded. No vocabulary
// check is made; see KnowledgeBase.ParseQuery for caller-side validation.
func NewQuery(symptoms ...string) Query {
	sorted := canonicalSet(symptoms)
	set := make(map[string]struct{}, len(sorted))
	for _, s := range sorted {
		set[s] = struct{}{}
	}
	return Query{symptoms: sorted, set: set}
}

// Symptoms returns the query symptoms in sorted order.
func (q Query) Symptoms() []string {
	return slices.Clone(q.symptoms)
}

// Len returns the number of distinct symptoms.
func (q Query) Len() int { return len(q.symptoms) }

// Contains reports whether the canonical symptom is in the query.
func (q Query) Contains(symptom string) bool {
	_, ok := q.set[symptom]
	return ok
}

// ParseQuery validates raw user input against the known symptoms.
//
// Returns ErrEmptyQuery if nothing remains after canonicalization and an
// *InvalidSymptomError for the first unknown symptom, in input order.
func (kb *KnowledgeBase) ParseQuery(raw []string) (Query, error) {
	for _, s := range raw {
		c := Canonicalize(s)
		if c == "" {
			continue
		}
		if !kb.IsKnown(c) {
			return Query{}, &InvalidSymptomError{
				Symptom:     c,
				Suggestions: kb.Suggest(c, maxSuggestions),
			}
		}
	}
	q := NewQuery(raw...)
	if q.Len() == 0 {
		return Query{}, ErrEmptyQuery
	}
	return q, nil
}
