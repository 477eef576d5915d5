// Package hazard resolves a severity letter from the H-codes found in a
// document and broadcasts it onto hazard_group cells.
package hazard

import (
	"slices"

	"github.com/rotisserie/eris"
)

// Severity letters, most severe first.
const (
	LetterA = "A"
	LetterB = "B"
	LetterC = "C"
	LetterD = "D"
	LetterE = "E"
	LetterN = "N"
)

// DefaultUnmapped is the letter assigned to codes missing from the table.
// Pending domain-owner confirmation.
const DefaultUnmapped = LetterE

// Table maps severity letters to hazard codes under a total priority order.
// A Table is immutable once built; accessors return copies.
type Table struct {
	priority []string
	codes    map[string][]string
	inverse  map[string]string
}

// NewTable builds a table. priority lists every letter from most to least
// severe; a code listed under several letters resolves to the one listed
// last in priority order.
func NewTable(priority []string, codes map[string][]string) (*Table, error) {
	if len(priority) == 0 {
		return nil, eris.New("hazard: empty priority order")
	}

	t := &Table{
		priority: slices.Clone(priority),
		codes:    make(map[string][]string, len(codes)),
		inverse:  make(map[string]string),
	}
	for letter, cs := range codes {
		if !slices.Contains(priority, letter) {
			return nil, eris.Errorf("hazard: letter %q not in priority order", letter)
		}
		t.codes[letter] = slices.Clone(cs)
	}

	// Later letters overwrite earlier ones.
	for _, letter := range priority {
		for _, code := range t.codes[letter] {
			t.inverse[code] = letter
		}
	}
	return t, nil
}

// DefaultTable returns the standard COSHH grouping. H318 is listed under
// both B and E and resolves to E.
func DefaultTable() *Table {
	t, err := NewTable(
		[]string{LetterA, LetterB, LetterC, LetterD, LetterE, LetterN},
		map[string][]string{
			LetterA: {"H300", "H310", "H330", "H340", "H350", "H360", "H370", "H372"},
			LetterB: {"H301", "H304", "H311", "H331", "H334", "H314", "H318"},
			LetterC: {"H341", "H351", "H361", "H362", "H371", "H373", "H317", "H335", "H336"},
			LetterD: {"H302", "H312", "H332", "H315", "H319"},
			LetterE: {"H303", "H305", "H313", "H316", "H318", "H320", "H333"},
			LetterN: {},
		},
	)
	if err != nil {
		panic(err)
	}
	return t
}

// Priority returns the letters from most to least severe.
func (t *Table) Priority() []string {
	return slices.Clone(t.priority)
}

// Codes returns the codes listed under letter.
func (t *Table) Codes(letter string) []string {
	return slices.Clone(t.codes[letter])
}

// Letter returns the letter for code and whether the table lists it.
func (t *Table) Letter(code string) (string, bool) {
	l, ok := t.inverse[code]
	return l, ok
}

// rank returns the priority index of letter; unknown letters rank last.
func (t *Table) rank(letter string) int {
	if i := slices.Index(t.priority, letter); i >= 0 {
		return i
	}
	return len(t.priority)
}
