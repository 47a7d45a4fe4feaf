// Package knowledge holds the symptom rule model and the knowledge base the
// matcher reads from.
//
// # Overview
//
// A knowledge base is built once from curated rule definitions and a base
// symptom vocabulary:
//
//	kb, err := knowledge.Build(defs, vocabulary)
//	if err != nil {
//	    return err
//	}
//
// Build canonicalizes every symptom (trimmed, lowercased), drops curated
// definitions whose symptom set was already defined earlier (reported through
// Shadowed), and appends one generated two-symptom rule for every vocabulary
// pair that no curated rule covers. Pairs are enumerated by vocabulary
// position, so the same input always yields the same rule order.
//
// # Queries
//
// Callers validate raw user input against the known symptoms before matching:
//
//	q, err := kb.ParseQuery([]string{"Fever", " cough "})
//	var invalid *knowledge.InvalidSymptomError
//	if errors.As(err, &invalid) {
//	    fmt.Println("did you mean:", invalid.Suggestions)
//	}
//
// # Concurrency Safety
//
// A KnowledgeBase and its Rules are immutable after Build returns. Accessors
// return copies, so a single instance may be shared by any number of
// goroutines without locking.
package knowledge
