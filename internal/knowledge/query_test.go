package knowledge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuery(t *testing.T) {
	q := NewQuery(" Fever", "cough", "fever", "", "  ")

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, []string{"cough", "fever"}, q.Symptoms())
	assert.True(t, q.Contains("fever"))
	assert.False(t, q.Contains("Fever"))

	assert.Equal(t, 0, NewQuery().Len())
}

func TestKnowledgeBase_ParseQuery(t *testing.T) {
	kb, err := Build(testDefinitions(), testVocabulary())
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		q, err := kb.ParseQuery([]string{"Fever", " sore throat", "fever"})
		require.NoError(t, err)
		assert.Equal(t, []string{"fever", "sore throat"}, q.Symptoms())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := kb.ParseQuery(nil)
		assert.ErrorIs(t, err, ErrEmptyQuery)

		_, err = kb.ParseQuery([]string{" ", ""})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("unknown symptom", func(t *testing.T) {
		_, err := kb.ParseQuery([]string{"fever", "Coughing", "dizziness"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidSymptom)

		var invalid *InvalidSymptomError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "coughing", invalid.Symptom)
		assert.Contains(t, err.Error(), `"coughing"`)
	})

	t.Run("suggestions", func(t *testing.T) {
		_, err := kb.ParseQuery([]string{"sore"})

		var invalid *InvalidSymptomError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, []string{"sore throat"}, invalid.Suggestions)
		assert.Contains(t, err.Error(), "did you mean: sore throat")
	})
}
