package checklist

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/sds-assess/internal/llm"
)

// ErrNoMarks is returned by DecodeMarks when no line names a known field.
// Callers still treat every field as unmarked.
var ErrNoMarks = eris.New("checklist: no field lines in response")

// Marks records which checklist fields the classifier marked true.
type Marks map[string]bool

// Active returns the marked keys in the order of keys.
func (m Marks) Active(keys []string) []string {
	var out []string
	for _, k := range keys {
		if m[k] {
			out = append(out, k)
		}
	}
	return out
}

var bulletRe = regexp.MustCompile(`^[-*•]+\s*`)

// DecodeMarks parses "field_name: X" / "field_name:" lines. Leading list
// markers and surrounding whitespace are ignored, unknown names are skipped
// and any key without an "X" line is false.
func DecodeMarks(text string, keys []string) (Marks, error) {
	known := make(map[string]bool, len(keys))
	for _, k := range keys {
		known[k] = true
	}

	marks := make(Marks, len(keys))
	for _, k := range keys {
		marks[k] = false
	}

	parsed := 0
	for _, line := range strings.Split(text, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(bulletRe.ReplaceAllString(strings.TrimSpace(name), ""))
		if !known[name] {
			continue
		}
		parsed++
		if strings.TrimSpace(value) == Mark {
			marks[name] = true
		}
	}

	if parsed == 0 {
		return marks, ErrNoMarks
	}
	return marks, nil
}

// Residual is the catch-all extraction: short items plus the verbatim
// source paragraph.
type Residual struct {
	List      []string `json:"list"`
	Paragraph string   `json:"paragraph"`
}

// Value joins the non-blank items with "; ".
func (r Residual) Value() string {
	items := make([]string, 0, len(r.List))
	for _, it := range r.List {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	return strings.Join(items, "; ")
}

// Narrative prefers the paragraph and falls back to the joined list.
func (r Residual) Narrative() string {
	if p := strings.TrimSpace(r.Paragraph); p != "" {
		return p
	}
	return r.Value()
}

// DecodeResidual parses a {"list": [...], "paragraph": "..."} response,
// recovering a trailing object from surrounding prose. A non-string
// paragraph or non-array list decodes as empty; non-string list items are
// dropped. On failure it returns the empty residual and an error.
func DecodeResidual(text string) (Residual, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(llm.TrailingObject(text)), &raw); err != nil {
		return Residual{}, eris.Wrap(err, "checklist: decode residual")
	}
	if raw == nil {
		return Residual{}, eris.New("checklist: residual is not an object")
	}

	var res Residual
	var items []any
	if err := json.Unmarshal(raw["list"], &items); err == nil {
		for _, it := range items {
			if s, ok := it.(string); ok {
				res.List = append(res.List, s)
			}
		}
	}
	var paragraph string
	if err := json.Unmarshal(raw["paragraph"], &paragraph); err == nil {
		res.Paragraph = paragraph
	}
	return res, nil
}

// FindEvidence returns the first summary line, stripped of list markers,
// matching any pattern, or "" when none does.
func FindEvidence(summary string, pats []*regexp.Regexp) string {
	for _, line := range candidateLines(summary) {
		for _, p := range pats {
			if p.MatchString(line) {
				return line
			}
		}
	}
	return ""
}

func candidateLines(text string) []string {
	var out []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		out = append(out, strings.TrimSpace(bulletRe.ReplaceAllString(line, "")))
	}
	return out
}
