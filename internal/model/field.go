package model

import (
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// NotAvailable is the canonical value written when a narrative field has no
// usable summary.
const NotAvailable = "N/A"

// Address is the template location of a field: empty, a single coordinate, or
// a list of coordinates that all receive the same value. Coordinates use the
// "Sheet!A1" form; a bare "A1" targets the projector's default sheet.
type Address []string

// Empty reports whether the address has no usable coordinate.
func (a Address) Empty() bool {
	for _, c := range a {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// IsList reports whether the address fans out to more than one coordinate.
func (a Address) IsList() bool {
	return len(a) > 1
}

// UnmarshalYAML accepts either a scalar coordinate or a sequence of them.
func (a *Address) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return eris.Wrap(err, "address: decode scalar")
		}
		*a = fromScalar(s)
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return eris.Wrap(err, "address: decode sequence")
		}
		*a = list
		return nil
	default:
		return eris.Errorf("address: unsupported yaml node kind %d", node.Kind)
	}
}

// UnmarshalJSON accepts either a string coordinate or an array of them.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = fromScalar(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return eris.Wrap(err, "address: expected string or array")
	}
	*a = list
	return nil
}

// MarshalJSON writes single coordinates as a plain string.
func (a Address) MarshalJSON() ([]byte, error) {
	switch len(a) {
	case 0:
		return []byte(`""`), nil
	case 1:
		return json.Marshal(a[0])
	default:
		return json.Marshal([]string(a))
	}
}

func fromScalar(s string) Address {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return Address{s}
}

// FieldCell is one addressed field of a record group.
type FieldCell struct {
	Label     string  `json:"label" yaml:"label"`
	Address   Address `json:"address,omitempty" yaml:"address,omitempty"`
	Narrative string  `json:"narrative" yaml:"narrative"`
	Value     string  `json:"value" yaml:"value"`
}

// Set writes both the narrative and the canonical value.
func (c *FieldCell) Set(narrative, value string) {
	c.Narrative = narrative
	c.Value = value
}

// Clear empties the extracted content, keeping label and address.
func (c *FieldCell) Clear() {
	c.Narrative = ""
	c.Value = ""
}

// Projectable reports whether the cell will be written to the template.
func (c *FieldCell) Projectable() bool {
	return c != nil && c.Value != "" && !c.Address.Empty()
}

// NamedCell pairs a field key with its cell.
type NamedCell struct {
	Key  string
	Cell *FieldCell
}
