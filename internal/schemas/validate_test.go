package schemas

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		schema    Name
		doc       any
		wantField string
	}{
		{
			name:   "valid weights",
			schema: MatchingWeights,
			doc:    map[string]any{"skills": 0.5, "experience": 0.3, "custom": 0.2},
		},
		{
			name:      "weight above one",
			schema:    MatchingWeights,
			doc:       map[string]any{"skills": 1.5},
			wantField: "skills",
		},
		{
			name:      "weight not a number",
			schema:    MatchingWeights,
			doc:       map[string]any{"custom": "high"},
			wantField: "custom",
		},
		{
			name:   "valid communication",
			schema: CommunicationRequirements,
			doc:    map[string]any{"min_overall_score": 80, "languages": []any{"en"}},
		},
		{
			name:      "communication score out of range",
			schema:    CommunicationRequirements,
			doc:       map[string]any{"min_fluency_score": -5},
			wantField: "min_fluency_score",
		},
		{
			name:      "unknown education level",
			schema:    RequiredEducation,
			doc:       map[string]any{"level": "wizard"},
			wantField: "level",
		},
		{
			name:   "experience years",
			schema: RequiredExperience,
			doc:    map[string]any{"min_years": 3},
		},
		{
			name:      "not an object",
			schema:    RequiredExperience,
			doc:       []any{1, 2},
			wantField: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Validate(tt.schema, tt.doc)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			require.NotEmpty(t, vErr.Errors)
			assert.Equal(t, tt.wantField, vErr.Errors[0].Field)
			assert.Contains(t, err.Error(), string(tt.schema)+" is invalid")
		})
	}
}

func TestValidateUnknownSchema(t *testing.T) {
	t.Parallel()

	var loadErr *SchemaLoadError
	require.True(t, errors.As(Validate("nope", map[string]any{}), &loadErr))
}

func TestLoadObject(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "weights.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"skills": 0.6, "location": 0.4}`), 0o600))

	obj, err := LoadObject(MatchingWeights, good)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"skills": 0.6, "location": 0.4}, obj)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"skills": 2}`), 0o600))
	_, err = LoadObject(MatchingWeights, bad)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	broken := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{`), 0o600))
	_, err = LoadObject(MatchingWeights, broken)
	require.ErrorContains(t, err, "parse matching_weights")

	_, err = LoadObject(MatchingWeights, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
