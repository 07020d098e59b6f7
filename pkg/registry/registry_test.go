// pkg/registry/registry_test.go
package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: "2026-01-15T10:00:00Z",
		Activities: []Activity{
			{
				ID:          "calculate-profile-score",
				DisplayName: "Calculate Profile Score",
				Category:    "manufacturer",
				TaskType:    "calculate-profile-score",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"manufacturerId"},
					"properties": map[string]interface{}{
						"manufacturerId": map[string]interface{}{"type": "string"},
					},
				},
			},
			{
				ID:          "find-similar-manufacturers",
				DisplayName: "Find Similar Manufacturers",
				Category:    "manufacturer",
				TaskType:    "find-similar-manufacturers",
			},
		},
	}
}

func TestSaveAndLoadRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity-registry.json")

	require.NoError(t, SaveRegistry(sampleRegistry(), path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", loaded.Version)
	assert.Len(t, loaded.Activities, 2)
	assert.Equal(t, "calculate-profile-score", loaded.Activities[0].TaskType)
}

func TestLoadRegistry_MissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFindByTaskType(t *testing.T) {
	reg := sampleRegistry()

	activity, err := reg.FindByTaskType("find-similar-manufacturers")
	require.NoError(t, err)
	assert.Equal(t, "Find Similar Manufacturers", activity.DisplayName)

	_, err = reg.FindByTaskType("unknown-task")
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestValidateInput(t *testing.T) {
	reg := sampleRegistry()
	scored, err := reg.FindByTaskType("calculate-profile-score")
	require.NoError(t, err)

	assert.NoError(t, scored.ValidateInput([]byte(`{"manufacturerId": "mfg-123"}`)))

	err = scored.ValidateInput([]byte(`{"businessId": "biz-1"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manufacturerId")
}

func TestValidateInput_NoSchemaAcceptsAnything(t *testing.T) {
	reg := sampleRegistry()
	activity, err := reg.FindByTaskType("find-similar-manufacturers")
	require.NoError(t, err)

	assert.NoError(t, activity.ValidateInput([]byte(`{"whatever": true}`)))
}
