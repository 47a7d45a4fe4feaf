package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/triage/internal/knowledge"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const tomlRules = `
vocabulary = ["fever", "cough", "headache"]

[[rules]]
symptoms = ["fever", "cough"]
diagnosis = "Viral Infection"
consult = "General Physician"

[[rules]]
symptoms = ["Headache", " nausea "]
diagnosis = "Migraine"
doctor_to_consult = "Neurologist"
`

const yamlRules = `
vocabulary_mode: default
vocabulary:
  - hiccups
rules:
  - symptoms: [fever, cough]
    diagnosis: Viral Infection
    consult: General Physician
  - symptoms: [headache, nausea]
    diagnosis: Migraine
    doctor_to_consult: Neurologist
`

func TestLoadFile_TOML(t *testing.T) {
	path := writeFile(t, "rules.toml", tomlRules)

	c, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, path, c.Source)
	assert.Equal(t, []string{"fever", "cough", "headache"}, c.Vocabulary)
	require.Len(t, c.Rules, 2)
	assert.Equal(t, knowledge.Definition{
		Symptoms:  []string{"Headache", " nausea "},
		Diagnosis: "Migraine",
		Consult:   "Neurologist",
	}, c.Rules[1])

	kb, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, 2, kb.Stats().Curated)
	// fever+cough is curated, leaving fever+headache and cough+headache.
	assert.Equal(t, 2, kb.Stats().Generated)
	assert.True(t, kb.IsKnown("nausea"))
}

func TestLoadFile_YAML(t *testing.T) {
	for _, name := range []string{"rules.yaml", "rules.YML"} {
		t.Run(name, func(t *testing.T) {
			c, err := LoadFile(writeFile(t, name, yamlRules))
			require.NoError(t, err)

			assert.Len(t, c.Vocabulary, 31)
			assert.Equal(t, "abdominal pain", c.Vocabulary[0])
			assert.Equal(t, "hiccups", c.Vocabulary[30])
			require.Len(t, c.Rules, 2)
			assert.Equal(t, "Neurologist", c.Rules[1].Consult)
			assert.Equal(t, []string{"fever", "cough"}, c.Rules[0].Symptoms)
		})
	}
}

func TestLoadFile_EmptyVocabularyMeansNoPairs(t *testing.T) {
	path := writeFile(t, "rules.toml", `
[[rules]]
symptoms = ["fever"]
diagnosis = "Isolated Fever"
consult = "General Physician"
`)
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Empty(t, c.Vocabulary)

	kb, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, 0, kb.Stats().Generated)
	assert.Equal(t, 1, kb.Len())
}

func TestLoadFile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantIs  error
		wantMsg string
	}{
		{
			name:    "unsupported extension",
			file:    "rules.json",
			content: `{}`,
			wantIs:  ErrUnsupportedFormat,
		},
		{
			name:    "malformed toml",
			file:    "rules.toml",
			content: `vocabulary = [`,
			wantIs:  ErrInvalidRuleFile,
		},
		{
			name:    "unknown toml key",
			file:    "rules.toml",
			content: "vocabulary = [\"fever\"]\n[[rules]]\nsymptom = [\"fever\"]\ndiagnosis = \"x\"\nconsult = \"y\"\n",
			wantIs:  ErrInvalidRuleFile,
			wantMsg: "rules.symptom",
		},
		{
			name:    "unknown yaml key",
			file:    "rules.yaml",
			content: "vocabulary: [fever]\nrulez: []\n",
			wantIs:  ErrInvalidRuleFile,
			wantMsg: "rulez",
		},
		{
			name:    "bad vocabulary mode",
			file:    "rules.toml",
			content: "vocabulary_mode = \"all\"\nvocabulary = [\"fever\"]\n",
			wantIs:  ErrInvalidRuleFile,
			wantMsg: "vocabulary_mode",
		},
		{
			name:    "conflicting consult alias",
			file:    "rules.toml",
			content: "[[rules]]\nsymptoms = [\"fever\"]\ndiagnosis = \"x\"\nconsult = \"A\"\ndoctor_to_consult = \"B\"\n",
			wantIs:  ErrInvalidRuleFile,
			wantMsg: "disagree",
		},
		{
			name:    "empty file",
			file:    "rules.toml",
			content: "",
			wantIs:  ErrInvalidRuleFile,
			wantMsg: "no rules",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantIs), "got %v", err)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoadFile_MatchingAliasAccepted(t *testing.T) {
	path := writeFile(t, "rules.toml", "[[rules]]\nsymptoms = [\"fever\"]\ndiagnosis = \"x\"\nconsult = \"A\"\ndoctor_to_consult = \"A\"\n")
	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A", c.Rules[0].Consult)
}

func TestLoadFile_TooLarge(t *testing.T) {
	path := writeFile(t, "rules.toml", "# "+strings.Repeat("x", MaxFileSize))
	_, err := LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileTooLarge))
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadFile_InvalidDefinitionFailsBuild(t *testing.T) {
	path := writeFile(t, "rules.toml", "[[rules]]\nsymptoms = [\"fever\"]\ndiagnosis = \"x\"\n")
	c, err := LoadFile(path)
	require.NoError(t, err)

	_, err = c.Build()
	require.Error(t, err)
	assert.True(t, errors.Is(err, knowledge.ErrInvalidDefinition))
}

func TestLoad(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BuiltinSource, c.Source)

	path := writeFile(t, "rules.toml", tomlRules)
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, c.Source)
}
