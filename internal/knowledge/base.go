package knowledge

import (
	"cmp"
	"fmt"
	"iter"
	"slices"
	"strings"
)

const (
	// GeneratedRecommendation is the specialist attached to generated pair rules.
	GeneratedRecommendation = "👨‍⚕️ General Physician"
)

// GeneratedPairLabel returns the label of the synthesized rule for a
// vocabulary pair.
func GeneratedPairLabel(a, b string) string {
	return fmt.Sprintf("Combination of %s + %s – further evaluation 🩺", a, b)
}

// Shadowed describes a curated definition that Build dropped because an
// earlier definition had the same symptom set. Shadowed definitions can never
// be returned by the matcher.
type Shadowed struct {
	Index      int // position of the dropped definition in the curated input
	Definition Definition
	ShadowedBy int // position of the definition that won
}

// Stats summarizes a knowledge base.
type Stats struct {
	Curated       int `json:"curated"`
	Generated     int `json:"generated"`
	Shadowed      int `json:"shadowed"`
	KnownSymptoms int `json:"known_symptoms"`
}

// Total returns the number of rules in the knowledge base.
func (s Stats) Total() int { return s.Curated + s.Generated }

// KnowledgeBase is the immutable, ordered rule set the matcher reads.
// Curated rules come first in authoring order, followed by generated pair
// rules in vocabulary order.
type KnowledgeBase struct {
	rules         []*Rule
	bySpecificity []*Rule
	known         []string
	knownSet      map[string]struct{}
	shadowed      []Shadowed
	curated       int
}

// Build constructs a knowledge base from curated definitions and a base
// vocabulary. It is deterministic: the same input always produces the same
// rule sequence.
func Build(curated []Definition, vocabulary []string) (*KnowledgeBase, error) {
	vocab, err := canonicalVocabulary(vocabulary)
	if err != nil {
		return nil, err
	}

	kb := &KnowledgeBase{}

	// Curated rules, first definition of a symptom set wins.
	firstSeen := make(map[string]int, len(curated))
	pairs := make(map[string]struct{})
	for i := range curated {
		def := curated[i]
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%w: rule %d (%s): %v", ErrInvalidDefinition, i, strings.TrimSpace(def.Diagnosis), err)
		}
		rule := newRule(def.Symptoms, def.Diagnosis, def.Consult, SourceCurated)
		key := rule.Key()
		if winner, ok := firstSeen[key]; ok {
			kb.shadowed = append(kb.shadowed, Shadowed{
				Index:      i,
				Definition: cloneDefinition(def),
				ShadowedBy: winner,
			})
			continue
		}
		firstSeen[key] = i
		if rule.Size() == 2 {
			pairs[key] = struct{}{}
		}
		kb.rules = append(kb.rules, rule)
	}
	kb.curated = len(kb.rules)

	// Generated pair rules for every vocabulary pair not already curated.
	for i := 0; i < len(vocab); i++ {
		for j := i + 1; j < len(vocab); j++ {
			a, b := vocab[i], vocab[j]
			rule := newRule([]string{a, b}, GeneratedPairLabel(a, b), GeneratedRecommendation, SourceGenerated)
			if _, ok := pairs[rule.Key()]; ok {
				continue
			}
			kb.rules = append(kb.rules, rule)
		}
	}

	kb.bySpecificity = slices.Clone(kb.rules)
	slices.SortStableFunc(kb.bySpecificity, func(a, b *Rule) int {
		return cmp.Compare(b.Size(), a.Size())
	})

	kb.knownSet = make(map[string]struct{})
	for _, r := range kb.rules {
		for _, s := range r.symptoms {
			kb.knownSet[s] = struct{}{}
		}
	}
	kb.known = make([]string, 0, len(kb.knownSet))
	for s := range kb.knownSet {
		kb.known = append(kb.known, s)
	}
	slices.Sort(kb.known)

	return kb, nil
}

// canonicalVocabulary canonicalizes vocabulary entries and drops repeats,
// keeping each term at its first position.
func canonicalVocabulary(vocabulary []string) ([]string, error) {
	out := make([]string, 0, len(vocabulary))
	seen := make(map[string]struct{}, len(vocabulary))
	for i, term := range vocabulary {
		c := Canonicalize(term)
		if c == "" {
			return nil, fmt.Errorf("%w: entry %d is blank", ErrInvalidVocabulary, i)
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func cloneDefinition(d Definition) Definition {
	d.Symptoms = slices.Clone(d.Symptoms)
	return d
}

// Rules returns all rules in construction order.
func (kb *KnowledgeBase) Rules() []*Rule {
	return slices.Clone(kb.rules)
}

// BySpecificity returns all rules ordered by descending symptom count. Rules
// of equal size keep their construction order.
func (kb *KnowledgeBase) BySpecificity() []*Rule {
	return slices.Clone(kb.bySpecificity)
}

// Candidates yields rules in specificity order without copying.
func (kb *KnowledgeBase) Candidates() iter.Seq[*Rule] {
	return slices.Values(kb.bySpecificity)
}

// Len returns the number of rules.
func (kb *KnowledgeBase) Len() int { return len(kb.rules) }

// KnownSymptoms returns every symptom used by any rule, sorted.
func (kb *KnowledgeBase) KnownSymptoms() []string {
	return slices.Clone(kb.known)
}

// IsKnown reports whether the canonical symptom appears in any rule.
func (kb *KnowledgeBase) IsKnown(symptom string) bool {
	_, ok := kb.knownSet[symptom]
	return ok
}

// Shadowed returns the curated definitions that were dropped as duplicates.
func (kb *KnowledgeBase) Shadowed() []Shadowed {
	out := make([]Shadowed, len(kb.shadowed))
	for i, s := range kb.shadowed {
		s.Definition = cloneDefinition(s.Definition)
		out[i] = s
	}
	return out
}

// Stats returns rule counts for the knowledge base.
func (kb *KnowledgeBase) Stats() Stats {
	return Stats{
		Curated:       kb.curated,
		Generated:     len(kb.rules) - kb.curated,
		Shadowed:      len(kb.shadowed),
		KnownSymptoms: len(kb.known),
	}
}

// Suggest returns up to limit known symptoms resembling fragment: prefix
// matches first, then substring matches, then symptoms sharing a word.
// A limit <= 0 means no limit.
func (kb *KnowledgeBase) Suggest(fragment string, limit int) []string {
	frag := Canonicalize(fragment)
	if frag == "" {
		return nil
	}
	words := strings.Fields(frag)

	var prefix, contains, related []string
	for _, s := range kb.known {
		switch {
		case strings.HasPrefix(s, frag):
			prefix = append(prefix, s)
		case strings.Contains(s, frag):
			contains = append(contains, s)
		case sharesWord(s, words):
			related = append(related, s)
		}
	}

	out := append(append(prefix, contains...), related...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func sharesWord(symptom string, words []string) bool {
	for _, w := range strings.Fields(symptom) {
		if slices.Contains(words, w) {
			return true
		}
	}
	return false
}
