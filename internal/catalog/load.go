package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
)

// MaxFileSize is the largest rule file LoadFile accepts.
const MaxFileSize = 1 << 20

// Vocabulary modes accepted in a rule file.
const (
	// VocabularyFile uses only the vocabulary listed in the file. An empty
	// list means no generated pair rules. This is the default.
	VocabularyFile = "file"

	// VocabularyDefault uses the reference vocabulary followed by any terms
	// the file lists.
	VocabularyDefault = "default"
)

var (
	// ErrUnsupportedFormat indicates a rule file extension LoadFile cannot parse.
	ErrUnsupportedFormat = errors.New("unsupported rule file format")

	// ErrFileTooLarge indicates a rule file above MaxFileSize.
	ErrFileTooLarge = errors.New("rule file too large")

	// ErrInvalidRuleFile indicates a rule file that parsed but is malformed.
	ErrInvalidRuleFile = errors.New("invalid rule file")
)

// ruleFile is the on-disk layout shared by the TOML and YAML formats.
type ruleFile struct {
	VocabularyMode string     `toml:"vocabulary_mode" koanf:"vocabulary_mode"`
	Vocabulary     []string   `toml:"vocabulary" koanf:"vocabulary"`
	Rules          []fileRule `toml:"rules" koanf:"rules"`
}

// fileRule accepts the legacy doctor_to_consult key next to consult.
type fileRule struct {
	Symptoms        []string `toml:"symptoms" koanf:"symptoms"`
	Diagnosis       string   `toml:"diagnosis" koanf:"diagnosis"`
	Consult         string   `toml:"consult" koanf:"consult"`
	DoctorToConsult string   `toml:"doctor_to_consult" koanf:"doctor_to_consult"`
}

// Load returns the catalog at path, or the built-in catalog when path is
// empty.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a rule catalog from a .toml, .yaml or .yml file. Unknown keys
// are rejected so typos do not silently drop rules.
func LoadFile(path string) (Catalog, error) {
	data, err := readFile(path)
	if err != nil {
		return Catalog{}, err
	}

	var rf ruleFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = decodeTOML(data, &rf)
	case ".yaml", ".yml":
		err = decodeYAML(data, &rf)
	default:
		return Catalog{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: %s: %v", ErrInvalidRuleFile, path, err)
	}

	c, err := rf.catalog()
	if err != nil {
		return Catalog{}, fmt.Errorf("%w: %s: %v", ErrInvalidRuleFile, path, err)
	}
	c.Source = path
	return c, nil
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open rule file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat rule file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, info.Size(), MaxFileSize)
	}

	// The file may grow between Stat and read.
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, MaxFileSize)
	}
	return data, nil
}

func decodeTOML(data []byte, rf *ruleFile) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(rf)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeYAML(data []byte, rf *ruleFile) error {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return err
	}
	return k.UnmarshalWithConf("", rf, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:     "koanf",
			Result:      rf,
			ErrorUnused: true,
		},
	})
}

func (rf ruleFile) catalog() (Catalog, error) {
	var c Catalog

	switch rf.VocabularyMode {
	case "", VocabularyFile:
		c.Vocabulary = slices.Clone(rf.Vocabulary)
	case VocabularyDefault:
		c.Vocabulary = append(DefaultVocabulary(), rf.Vocabulary...)
	default:
		return Catalog{}, fmt.Errorf("vocabulary_mode must be %q or %q, got %q", VocabularyFile, VocabularyDefault, rf.VocabularyMode)
	}

	c.Rules = make([]knowledge.Definition, 0, len(rf.Rules))
	for i, r := range rf.Rules {
		consult := r.Consult
		if r.DoctorToConsult != "" {
			if consult != "" && consult != r.DoctorToConsult {
				return Catalog{}, fmt.Errorf("rule %d: consult and doctor_to_consult disagree", i)
			}
			consult = r.DoctorToConsult
		}
		c.Rules = append(c.Rules, knowledge.Definition{
			Symptoms:  slices.Clone(r.Symptoms),
			Diagnosis: r.Diagnosis,
			Consult:   consult,
		})
	}

	if len(c.Rules) == 0 && len(c.Vocabulary) == 0 {
		return Catalog{}, errors.New("no rules and no vocabulary")
	}
	return c, nil
}
