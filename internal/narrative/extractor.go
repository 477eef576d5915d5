// Package narrative answers per-field questions against a safety data sheet
// in two passes: a section-focused context selection, then an answer ending
// in a single EXCEL_SUMMARY line that becomes the cell value.
package narrative

import (
	"context"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/llm"
	"github.com/sells-group/sds-assess/internal/metrics"
	"github.com/sells-group/sds-assess/internal/model"
)

// maxValueRunes caps the projected summary.
const maxValueRunes = 300

var summaryRe = regexp.MustCompile(`(?im)EXCEL_SUMMARY:\s*(.+)$`)

var noInformation = map[string]bool{
	"no information":           true,
	"not available":            true,
	"no information available": true,
}

// ParseSummary returns the cell value carried by the first EXCEL_SUMMARY
// line of answer, or model.NotAvailable when the line is missing or states
// there is no information.
func ParseSummary(answer string) string {
	m := summaryRe.FindStringSubmatch(answer)
	if m == nil {
		return model.NotAvailable
	}
	summary := strings.TrimSpace(m[1])
	if noInformation[strings.ToLower(summary)] {
		return model.NotAvailable
	}
	if r := []rune(summary); len(r) > maxValueRunes {
		summary = string(r[:maxValueRunes])
	}
	return strings.TrimRight(summary, " \t\r\n")
}

// Extractor runs the two-pass extraction.
type Extractor struct {
	llm llm.Completer
}

// NewExtractor creates an extractor backed by c.
func NewExtractor(c llm.Completer) *Extractor {
	return &Extractor{llm: c}
}

// Extract answers question from text, narrowed to section, with the general
// prompts. It returns the full answer and the parsed cell value. An empty
// question makes no calls.
func (e *Extractor) Extract(ctx context.Context, question, section, text string) (narrative, value string) {
	narrative, value, _ = e.extract(ctx, GeneralPrompts, question, section, text)
	return narrative, value
}

// extract also reports whether either pass failed.
func (e *Extractor) extract(ctx context.Context, p Prompts, question, section, text string) (string, string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", model.NotAvailable, nil
	}

	var failed error
	selected, err := e.llm.Complete(ctx, p.selector(section, text))
	if err != nil {
		failed = eris.Wrap(err, "narrative: select context")
		selected = ""
	}

	answer, err := e.llm.Complete(ctx, p.answer(question, strings.TrimSpace(selected)))
	if err != nil {
		if failed == nil {
			failed = eris.Wrap(err, "narrative: answer")
		}
		answer = ""
	}

	answer = strings.TrimSpace(answer)
	return answer, ParseSummary(answer), failed
}

// GroupResult counts the outcome of one ExtractGroup call.
type GroupResult struct {
	Fields   int
	Degraded int
}

// ExtractGroup fills every field of g present in rec. A failed pass degrades
// only its field; a cancelled context stops the group and is returned.
func (e *Extractor) ExtractGroup(ctx context.Context, g Group, rec model.Record, docID, text string) (GroupResult, error) {
	ctx = llm.WithPhase(ctx, "narrative")
	prompts := g.Prompts
	if prompts.Selector == "" {
		prompts = GeneralPrompts
	}

	var res GroupResult
	for _, key := range g.Fields {
		cell := model.Cell(rec, key)
		if cell == nil {
			continue
		}

		narrative, value, err := e.extract(ctx, prompts, g.question(key, cell), g.Section, text)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, eris.Wrapf(ctxErr, "narrative: extract %s", key)
		}
		cell.Set(narrative, value)
		res.Fields++

		if err != nil {
			res.Degraded++
			metrics.DegradedFields.WithLabelValues("narrative").Inc()
			zap.L().Warn("narrative: field degraded",
				zap.String("document", docID),
				zap.String("stage", "narrative"),
				zap.String("field", key),
				zap.Error(err),
			)
		}
	}
	return res, nil
}
