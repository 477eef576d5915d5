package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestAddress_UnmarshalYAML(t *testing.T) {
	t.Parallel()

	src := `
single:
  label: Severity
  address: "COSHH Assessment!F12"
multi:
  label: Likelihood
  address: ["F14", "F30"]
none:
  label: Notes
`
	var cells map[string]FieldCell
	require.NoError(t, yaml.Unmarshal([]byte(src), &cells))

	assert.Equal(t, Address{"COSHH Assessment!F12"}, cells["single"].Address)
	assert.False(t, cells["single"].Address.IsList())
	assert.Equal(t, Address{"F14", "F30"}, cells["multi"].Address)
	assert.True(t, cells["multi"].Address.IsList())
	assert.True(t, cells["none"].Address.Empty())
}

func TestAddress_UnmarshalYAML_RejectsMapping(t *testing.T) {
	t.Parallel()

	var c FieldCell
	err := yaml.Unmarshal([]byte("address: {sheet: x}"), &c)
	require.Error(t, err)
}

func TestAddress_JSON(t *testing.T) {
	t.Parallel()

	var c FieldCell
	require.NoError(t, json.Unmarshal([]byte(`{"label":"x","address":"B4"}`), &c))
	assert.Equal(t, Address{"B4"}, c.Address)

	require.NoError(t, json.Unmarshal([]byte(`{"label":"x","address":["B4","C4"]}`), &c))
	assert.Equal(t, Address{"B4", "C4"}, c.Address)

	require.NoError(t, json.Unmarshal([]byte(`{"label":"x","address":""}`), &c))
	assert.True(t, c.Address.Empty())

	out, err := json.Marshal(Address{"B4"})
	require.NoError(t, err)
	assert.JSONEq(t, `"B4"`, string(out))

	out, err = json.Marshal(Address{"B4", "C4"})
	require.NoError(t, err)
	assert.JSONEq(t, `["B4","C4"]`, string(out))
}

func TestAddress_EmptyIgnoresBlankEntries(t *testing.T) {
	t.Parallel()
	assert.True(t, Address{" ", ""}.Empty())
	assert.False(t, Address{"", "A1"}.Empty())
}

func TestFieldCell_Projectable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cell *FieldCell
		want bool
	}{
		{"nil", nil, false},
		{"no address", &FieldCell{Value: "X"}, false},
		{"no value", &FieldCell{Address: Address{"A1"}}, false},
		{"both", &FieldCell{Address: Address{"A1"}, Value: "X"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cell.Projectable())
		})
	}
}

func TestFieldCell_SetAndClear(t *testing.T) {
	t.Parallel()

	c := &FieldCell{Label: "Severity", Address: Address{"F12"}}
	c.Set("Severe", "Severe")
	assert.Equal(t, "Severe", c.Narrative)
	assert.Equal(t, "Severe", c.Value)

	c.Clear()
	assert.Empty(t, c.Narrative)
	assert.Empty(t, c.Value)
	assert.Equal(t, "Severity", c.Label)
	assert.Equal(t, Address{"F12"}, c.Address)
}
