package hazard

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/model"
)

var hCodeRe = regexp.MustCompile(`H\s*\d{3}`)

// Classifier resolves documents to a severity letter using an injected table.
type Classifier struct {
	table *Table
}

// NewClassifier creates a classifier over table. A nil table selects
// DefaultTable.
func NewClassifier(table *Table) *Classifier {
	if table == nil {
		table = DefaultTable()
	}
	return &Classifier{table: table}
}

// Table returns the classifier's table.
func (c *Classifier) Table() *Table { return c.table }

// Codes extracts the distinct H-codes in text, in order of first appearance.
// Matching is case-insensitive and tolerates whitespace between the H and
// the digits.
func (c *Classifier) Codes(text string) []string {
	matches := hCodeRe.FindAllString(strings.ToUpper(text), -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		code := strings.Join(strings.Fields(m), "")
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// Resolve returns the highest-priority letter among codes. Codes absent
// from the table count as DefaultUnmapped; an empty set yields N.
func (c *Classifier) Resolve(codes []string) string {
	if len(codes) == 0 {
		return LetterN
	}
	best := ""
	for _, code := range codes {
		letter, ok := c.table.Letter(code)
		if !ok {
			letter = DefaultUnmapped
		}
		if best == "" || c.table.rank(letter) < c.table.rank(best) {
			best = letter
		}
	}
	return best
}

// Classify extracts the codes in text and resolves them to one letter.
func (c *Classifier) Classify(text string) string {
	codes := c.Codes(text)
	letter := c.Resolve(codes)
	zap.L().Debug("hazard: classified",
		zap.Strings("codes", codes),
		zap.String("letter", letter),
	)
	return letter
}

// Broadcast writes letter into the narrative and value of every hazard_group
// cell of the given records. It returns the number of cells written.
func Broadcast(letter string, records ...model.Record) int {
	cells := model.CellsNamed(model.KeyHazardGroup, records...)
	for _, cell := range cells {
		cell.Set(letter, letter)
	}
	return len(cells)
}
