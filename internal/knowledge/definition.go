package knowledge

import (
	"errors"
	"fmt"
	"strings"
)

// Definition is an authored rule as it appears in a rule file or the
// built-in catalog. Build turns definitions into immutable Rules.
type Definition struct {
	Symptoms  []string `json:"symptoms" yaml:"symptoms" toml:"symptoms" koanf:"symptoms"`
	Diagnosis string   `json:"diagnosis" yaml:"diagnosis" toml:"diagnosis" koanf:"diagnosis"`
	Consult   string   `json:"consult" yaml:"consult" toml:"consult" koanf:"consult"`
}

// Validate validates a definition.
func (d *Definition) Validate() error {
	if len(d.Symptoms) == 0 {
		return errors.New("at least one symptom is required")
	}
	for i, s := range d.Symptoms {
		if Canonicalize(s) == "" {
			return fmt.Errorf("symptom %d is blank", i)
		}
	}
	if strings.TrimSpace(d.Diagnosis) == "" {
		return errors.New("diagnosis is required")
	}
	if strings.TrimSpace(d.Consult) == "" {
		return errors.New("consult is required")
	}
	return nil
}
