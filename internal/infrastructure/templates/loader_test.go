package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/KeyIP-Lifecycle/internal/domain/lifecycle"
	"github.com/turtacn/KeyIP-Lifecycle/pkg/errors"
)

const sample = `
version: 1
stages:
  - id: S1
    name: Invention Disclosure
    default_poc: IP Team
    is_mandatory: true
    sla_days: 7
    description: Initial submission.
  - id: S2
    name: Novelty Search
    default_poc: Arctic
    is_mandatory: true
    sla_days: 14
  - id: S3
    name: Patentability Report
    default_poc: Arctic
    sla_days: 5
`

func TestParse(t *testing.T) {
	t.Parallel()

	list, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "S1", list[0].ID)
	assert.Equal(t, "IP Team", list[0].DefaultPOC)
	assert.True(t, list[0].IsMandatory)
	assert.Equal(t, 14, list[1].SLADays)
	assert.False(t, list[2].IsMandatory)
	assert.Equal(t, "Initial submission.", list[0].Description)
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
		check   func(error) bool
	}{
		{"empty", "   \n", errors.IsValidation},
		{"no stages", "version: 1\nstages: []\n", errors.IsValidation},
		{"negative sla", "stages:\n  - id: S1\n    name: A\n    sla_days: -1\n", errors.IsValidation},
		{"missing name", "stages:\n  - id: S1\n", errors.IsValidation},
		{"duplicate id", "stages:\n  - {id: S1, name: A}\n  - {id: S1, name: B}\n", errors.IsValidation},
		{"future version", "version: 2\nstages:\n  - {id: S1, name: A}\n", errors.IsValidation},
		{"unknown field", "stages:\n  - {id: S1, name: A, owner: x}\n", func(err error) bool {
			return errors.IsCode(err, errors.ErrCodeSerialization)
		}},
		{"bad yaml", "stages: [", func(err error) bool {
			return errors.IsCode(err, errors.ErrCodeSerialization)
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestLoadFileAndNewRegistry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "stage_templates.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	list, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	reg, err := NewRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, "S4", reg.NextID())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")

	def, err := NewRegistry("")
	require.NoError(t, err)
	assert.Equal(t, len(lifecycle.DefaultTemplates()), def.Len())
}

func TestMarshal_RoundTripsDefaults(t *testing.T) {
	t.Parallel()

	out, err := Marshal(lifecycle.DefaultTemplates())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "version: 1\n"))

	back, err := LoadReader(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, lifecycle.DefaultTemplates(), back)
}

func TestShippedTemplateFile(t *testing.T) {
	t.Parallel()

	list, err := LoadFile(filepath.Join("..", "..", "..", "configs", "stage_templates.yaml"))
	require.NoError(t, err)
	assert.Equal(t, lifecycle.DefaultTemplates(), list)
}

//Personal.AI order the ending
