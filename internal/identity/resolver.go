// Package identity resolves the chemical ingredient names of a safety data
// sheet from its composition section, asking the semantic service when the
// section yields too few names.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/llm"
	"github.com/sells-group/sds-assess/internal/metrics"
	"github.com/sells-group/sds-assess/internal/model"
)

// minRegexNames is the harvest size below which the service is consulted.
const minRegexNames = 2

var (
	compositionRe = regexp.MustCompile(`(?is)(section\s*3.*?composition.*?)(section\s*\d+|$)`)

	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)ingredients?:?\s*([\p{L}\p{N}_\s\-\(\)/]+)`),
		regexp.MustCompile(`(?i)components?:?\s*([\p{L}\p{N}_\s\-\(\)/]+)`),
		regexp.MustCompile(`(?i)substance\s*name:?\s*([\p{L}\p{N}_\s\-\(\)/]+)`),
	}
)

const namesPrompt = `You are an expert assistant for analyzing chemical safety data sheets (SDS / MSDS).

Task: Extract only the chemical ingredient names from the following document.

Strict rules:
- Focus on Section 3 (Composition / Information on Ingredients)
- Ignore the general product name
- Extract only individual chemical names
- Do not include percentages, CAS numbers, regulatory phrases, or comments
- Always return valid JSON in this schema:

{"chemical_names": ["Name1", "Name2", "Name3"]}

Document:
---
%s
---`

// Resolver extracts chemical names from document text.
type Resolver struct {
	llm llm.Completer
}

// NewResolver creates a resolver. A nil completer restricts resolution to
// the pattern pass.
func NewResolver(c llm.Completer) *Resolver {
	return &Resolver{llm: c}
}

// Resolve returns the ordered, deduplicated, title-cased chemical names of
// doc. Service failures are logged and leave the pattern result in place.
func (r *Resolver) Resolve(ctx context.Context, doc model.Document) []string {
	names := CleanCandidates(Harvest(doc.Text))

	if len(names) < minRegexNames && r.llm != nil {
		extra, err := r.ask(ctx, doc.Text)
		if err != nil {
			metrics.DegradedFields.WithLabelValues("identity").Inc()
			zap.L().Warn("identity: semantic fallback failed",
				zap.String("document", doc.ID),
				zap.String("stage", "identity"),
				zap.String("field", model.KeyChemicalName),
				zap.Error(err),
			)
		}
		for _, n := range extra {
			names = appendUnique(names, titleCase(strings.TrimSpace(n)))
		}
	}

	names = FinalPass(names)
	zap.L().Debug("identity: resolved",
		zap.String("document", doc.ID),
		zap.Strings("names", names),
	)
	return names
}

// Harvest applies the label-anchored patterns to the composition section
// and returns every capture, trimmed and title-cased, in order and without
// duplicates. It returns nil when the document has no composition section.
func Harvest(text string) []string {
	m := compositionRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	window := m[1]

	var out []string
	for _, re := range namePatterns {
		for _, sub := range re.FindAllStringSubmatch(window, -1) {
			out = appendUnique(out, titleCase(strings.TrimSpace(sub[1])))
		}
	}
	return out
}

type namesResponse struct {
	ChemicalNames []string `json:"chemical_names"`
}

func (r *Resolver) ask(ctx context.Context, text string) ([]string, error) {
	ctx = llm.WithPhase(ctx, "identity")
	raw, err := r.llm.Complete(ctx, fmt.Sprintf(namesPrompt, text))
	if err != nil {
		return nil, eris.Wrap(err, "identity: complete")
	}

	var resp namesResponse
	if err := json.Unmarshal([]byte(llm.StripFences(raw)), &resp); err != nil {
		return nil, eris.Wrapf(err, "identity: decode names response %q", truncate(raw, 200))
	}
	return resp.ChemicalNames, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
