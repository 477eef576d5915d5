package model

import "github.com/rotisserie/eris"

// IdentityKeys are the field keys written by identity propagation.
func IdentityKeys() []string {
	return []string{KeyChemicalName, KeySDSReference}
}

// ValidateDisjoint checks that no field key is targeted by two writers.
// Each entry of owners names a writer and the keys it sets.
func ValidateDisjoint(owners map[string][]string) error {
	seen := make(map[string]string)
	for owner, keys := range owners {
		for _, k := range keys {
			if prev, ok := seen[k]; ok && prev != owner {
				return eris.Errorf("model: field %q written by both %s and %s", k, prev, owner)
			}
			seen[k] = owner
		}
	}
	return nil
}
