package knowledge

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyQuery indicates no symptoms remained after canonicalization.
	ErrEmptyQuery = errors.New("at least one symptom is required")

	// ErrInvalidSymptom indicates a symptom outside the known vocabulary.
	ErrInvalidSymptom = errors.New("symptom not recognized")

	// ErrInvalidDefinition indicates a malformed curated rule definition.
	ErrInvalidDefinition = errors.New("invalid rule definition")

	// ErrInvalidVocabulary indicates a malformed base vocabulary entry.
	ErrInvalidVocabulary = errors.New("invalid vocabulary")
)

// InvalidSymptomError reports a submitted symptom that no rule knows about.
type InvalidSymptomError struct {
	Symptom     string
	Suggestions []string
}

func (e *InvalidSymptomError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%v: %q", ErrInvalidSymptom, e.Symptom)
	}
	return fmt.Sprintf("%v: %q (did you mean: %s)", ErrInvalidSymptom, e.Symptom, strings.Join(e.Suggestions, ", "))
}

// Unwrap lets errors.Is match ErrInvalidSymptom.
func (e *InvalidSymptomError) Unwrap() error {
	return ErrInvalidSymptom
}
