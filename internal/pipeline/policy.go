package pipeline

import (
	"strings"

	"github.com/sells-group/sds-assess/internal/document"
	"github.com/sells-group/sds-assess/internal/model"
)

// Fixed risk-rating values written to every record carrying the field.
const (
	DefaultSeverity         = "Severe"
	DefaultLikelihoodBefore = "Possible"
	DefaultLikelihoodAfter  = "Unlikely"
)

var policyValues = []struct {
	key   string
	value string
}{
	{model.KeySeverity, DefaultSeverity},
	{model.KeyLikelihoodBefore, DefaultLikelihoodBefore},
	{model.KeyLikelihoodAfter, DefaultLikelihoodAfter},
}

// PolicyKeys returns the keys PolicyDefaults writes.
func PolicyKeys() []string {
	keys := make([]string, len(policyValues))
	for i, pv := range policyValues {
		keys[i] = pv.key
	}
	return keys
}

// PolicyDefaults sets severity and both likelihood ratings on every record
// that carries them.
func PolicyDefaults(records ...model.Record) {
	for _, pv := range policyValues {
		for _, cell := range model.CellsNamed(pv.key, records...) {
			cell.Set(pv.value, pv.value)
		}
	}
}

// ChemicalLabel formats the chemical_name value: "<product>: a, b" when the
// document ID carries a product name, otherwise "a, b".
func ChemicalLabel(docID string, names []string) string {
	joined := strings.Join(names, ", ")
	if product := document.ProductName(docID); product != "" {
		return product + ": " + joined
	}
	return joined
}

// PropagateIdentity writes the chemical label and the SDS reference into
// every record of rs carrying those fields.
func PropagateIdentity(rs *model.RecordSet, docID string, names []string) {
	groups := rs.Groups()

	label := ChemicalLabel(docID, names)
	for _, cell := range model.CellsNamed(model.KeyChemicalName, groups...) {
		cell.Set(label, label)
	}

	ref := document.ReferenceID(docID)
	for _, cell := range model.CellsNamed(model.KeySDSReference, groups...) {
		cell.Set(ref, ref)
	}
}
