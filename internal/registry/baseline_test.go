package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sds-assess/internal/model"
)

func TestDefaultSource_LoadsAllDomains(t *testing.T) {
	t.Parallel()

	set, err := NewDefaultSource().Load()
	require.NoError(t, err)
	assert.Empty(t, set.Missing())

	require.NotNil(t, set.Hazards.Severity)
	assert.True(t, set.Hazards.Severity.Address.IsList())
	require.NotNil(t, set.Storage.SpecialStorageDescribe)
	require.NotNil(t, set.Hazards.UseLocalExhaustVentilation)
	require.NotNil(t, set.Hazards.HazardStatements)
	require.NotNil(t, set.Hazards.SeriousHealthHazard)
	assert.Equal(t, model.Address{"COSHH Assessment!I16"}, set.Hazards.SeriousHealthHazard.Address)

	for _, g := range set.Groups() {
		for _, nc := range g.Cells() {
			assert.NotEmpty(t, nc.Cell.Label, "%s.%s has no label", g.Domain(), nc.Key)
			assert.Empty(t, nc.Cell.Value)
		}
	}
}

func TestDefaultSource_FreshPerLoad(t *testing.T) {
	t.Parallel()

	src := NewDefaultSource()
	first, err := src.Load()
	require.NoError(t, err)
	first.Hazards.HazardGroup.Set("A", "A")

	second, err := src.Load()
	require.NoError(t, err)
	assert.Empty(t, second.Hazards.HazardGroup.Value)
}

func TestDirSource_MissingDomainIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hazards.yaml"), []byte("hazard_group:\n  label: HG\n"), 0o644))

	_, err := NewDirSource(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no baseline file")
}

func TestDirSource_AllDomains(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, d := range model.AllDomains() {
		body := "chemical_name:\n  label: Chemical\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, string(d)+".yaml"), []byte(body), 0o644))
	}

	set, err := NewDirSource(dir).Load()
	require.NoError(t, err)
	assert.Len(t, model.CellsNamed(model.KeyChemicalName, set.Groups()...), 6)
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "embedded", NewSource("").(*FSSource).name)
	assert.Equal(t, "/tmp/x", NewSource("/tmp/x").(*FSSource).name)
}
