package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMarks(t *testing.T) {
	keys := PPESpec().Keys()
	text := "- wear_full_face_visor:\n* box_goggles_must_be_worn: X\n• protective_gloves_must_be_worn:  X \nunknown_field: X\nno_open_flames: x\n"

	marks, err := DecodeMarks(text, keys)
	require.NoError(t, err)
	assert.True(t, marks["box_goggles_must_be_worn"])
	assert.True(t, marks["protective_gloves_must_be_worn"])
	assert.False(t, marks["wear_full_face_visor"])
	assert.False(t, marks["no_open_flames"], "only an upper-case X marks a field")
	assert.False(t, marks["laboratory_coats_must_be_worn"], "missing lines are false")
	assert.NotContains(t, marks, "unknown_field")
	assert.Equal(t, []string{"box_goggles_must_be_worn", "protective_gloves_must_be_worn"}, marks.Active(keys))
}

func TestDecodeMarks_NothingParses(t *testing.T) {
	keys := StorageSpec().Keys()
	marks, err := DecodeMarks("I cannot help with that.", keys)
	assert.ErrorIs(t, err, ErrNoMarks)
	assert.Len(t, marks, len(keys))
	assert.Empty(t, marks.Active(keys))
}

func TestDecodeResidual(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		value     string
		narrative string
		wantErr   bool
	}{
		{
			name:      "plain object",
			in:        `{"list": [" wash hands ", "", "no eating"], "paragraph": " Wash hands after use. "}`,
			value:     "wash hands; no eating",
			narrative: "Wash hands after use.",
		},
		{
			name:      "trailing object after prose",
			in:        "Here is the result:\n{\"list\": [\"keep locked up\"], \"paragraph\": \"\"}\n",
			value:     "keep locked up",
			narrative: "keep locked up",
		},
		{
			name:      "wrong member types",
			in:        `{"list": "keep locked up", "paragraph": 7}`,
			value:     "",
			narrative: "",
		},
		{
			name:      "non-string items dropped",
			in:        `{"list": ["a", 1, null, "b"], "paragraph": "p"}`,
			value:     "a; b",
			narrative: "p",
		},
		{
			name:    "not json",
			in:      "nothing else applies",
			wantErr: true,
		},
		{
			name:    "json array",
			in:      `["a"]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeResidual(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, Residual{}, r)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, r.Value())
			assert.Equal(t, tt.narrative, r.Narrative())
		})
	}
}

func TestFindEvidence(t *testing.T) {
	summary := "\n- Use chemical goggles.\n  * Wear NITRILE gloves at all times.\n"
	gloves, _ := PPESpec().Field("protective_gloves_must_be_worn")
	goggles, _ := PPESpec().Field("box_goggles_must_be_worn")
	visor, _ := PPESpec().Field("wear_full_face_visor")

	assert.Equal(t, "Wear NITRILE gloves at all times.", FindEvidence(summary, gloves.Patterns))
	assert.Equal(t, "Use chemical goggles.", FindEvidence(summary, goggles.Patterns))
	assert.Empty(t, FindEvidence(summary, visor.Patterns))
}

func TestFindEvidence_UpperCasePatterns(t *testing.T) {
	lev, _ := PPESpec().Field("use_local_exhaust_ventilation")
	assert.Equal(t, "Provide LEV at source.", FindEvidence("Provide LEV at source.", lev.Patterns))

	cold, _ := StorageSpec().Field("cold_storage")
	assert.Equal(t, "Store below 8 °C.", FindEvidence("Store below 8 °C.", cold.Patterns))
}

func TestSpecs_ResidualNotAField(t *testing.T) {
	for _, s := range []Spec{PPESpec(), StorageSpec(), PictogramSpec()} {
		if s.ResidualKey != "" {
			_, ok := s.Field(s.ResidualKey)
			assert.False(t, ok, s.Topic)
		}
		if s.SummaryKey != "" {
			_, ok := s.Field(s.SummaryKey)
			assert.False(t, ok, s.Topic)
		}
		for _, f := range s.Fields {
			assert.NotEmpty(t, f.Patterns, f.Key)
		}
	}
}
