package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/sds-assess/internal/llm"
	"github.com/sells-group/sds-assess/internal/model"
)

const twoIngredientSDS = `SECTION 1: Identification
Product name: Bench Cleaner

SECTION 3: Composition
Ingredient: acetone, 40-60%
Substance name: propan-2-ol, 10-20%

SECTION 4: First aid measures
Ingredient: should not be captured
`

func countingCompleter(resp string, err error, calls *int) llm.Completer {
	return llm.CompleterFunc(func(context.Context, string) (string, error) {
		*calls++
		return resp, err
	})
}

func TestHarvest_WindowAndPatterns(t *testing.T) {
	got := Harvest(twoIngredientSDS)
	assert.Equal(t, []string{"Acetone", "Propan-2-Ol"}, got)
}

func TestHarvest_NoCompositionSection(t *testing.T) {
	assert.Nil(t, Harvest("Ingredient: acetone"))
}

func TestResolve_RegexOnlyIsDeterministic(t *testing.T) {
	calls := 0
	r := NewResolver(countingCompleter(`{"chemical_names": ["Water"]}`, nil, &calls))
	doc := model.Document{ID: "doc.md", Text: twoIngredientSDS}

	first := r.Resolve(context.Background(), doc)
	second := r.Resolve(context.Background(), doc)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
	assert.Zero(t, calls, "two regex names must not trigger the fallback")
}

func TestResolve_FallbackMerges(t *testing.T) {
	text := "Section 3 - Composition\nIngredient: acetone.\nSection 4"
	calls := 0
	r := NewResolver(countingCompleter("```json\n{\"chemical_names\": [\"ACETONE\", \" ethanol \", \"Acetone\"]}\n```", nil, &calls))

	got := r.Resolve(context.Background(), model.Document{ID: "d", Text: text})
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"Acetone", "Ethanol"}, got)
}

func TestResolve_FallbackErrorKeepsRegex(t *testing.T) {
	text := "Section 3 Composition\nComponent: toluene\n"
	calls := 0
	r := NewResolver(countingCompleter("", errors.New("service down"), &calls))

	got := r.Resolve(context.Background(), model.Document{ID: "d", Text: text})
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"Toluene"}, got)
}

func TestResolve_FallbackUndecodable(t *testing.T) {
	calls := 0
	r := NewResolver(countingCompleter("I could not find any ingredients.", nil, &calls))

	got := r.Resolve(context.Background(), model.Document{ID: "d", Text: "no composition here"})
	assert.Equal(t, 1, calls)
	assert.Empty(t, got)
}

func TestResolve_NilCompleter(t *testing.T) {
	got := NewResolver(nil).Resolve(context.Background(), model.Document{ID: "d", Text: "nothing"})
	assert.Empty(t, got)
}
