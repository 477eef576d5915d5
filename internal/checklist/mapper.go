package checklist

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/llm"
	"github.com/sells-group/sds-assess/internal/metrics"
	"github.com/sells-group/sds-assess/internal/model"
)

const basePrompt = `Answer STRICTLY using only the content retrieved from the provided context. ` +
	`Do not invent or add external information. ` +
	`If the context contains no information relevant to the question, state explicitly that the information is not available.`

const summaryPrompt = `Answer the question based only on these instructions: ` + basePrompt + `

Context: %s

Question: %s? %s`

const classifyPrompt = `Context: %s

Question: Based on the context above, determine which of the following %s apply.
For each field, write the field name followed by ": X" if the context explicitly mentions it, or ":" if not.
Use each field name exactly as written, one per line, with no other text.

Fields:
%s`

const residualPrompt = `You are an assistant extracting %s from a safety data sheet.

Context: %s

Return any %s mentioned in the context that do NOT belong to the following categories:
%s

Also IGNORE any of these already-identified items:
%s

Return ONLY a JSON object with exactly two keys:
{"list": ["short item", "..."], "paragraph": "the verbatim sentences from the context that mention these items"}
If nothing remains, return {"list": [], "paragraph": ""}.`

// Result summarizes one Map call.
type Result struct {
	Summary  string
	Marked   []string
	Residual Residual
	// Degraded is true when any call failed or was undecodable.
	Degraded bool
}

// Mapper runs the summarize, classify and residual passes.
type Mapper struct {
	llm llm.Completer
}

// NewMapper creates a mapper backed by c.
func NewMapper(c llm.Completer) *Mapper {
	return &Mapper{llm: c}
}

// Map writes the checklist fields of spec into rec. Every owned cell is reset
// first, so a field never marked ends up with an empty value. The classifier
// and the catch-all both read the summary, never the raw text. Service
// failures degrade the affected fields and are not returned as errors; only
// a cancelled context is.
func (m *Mapper) Map(ctx context.Context, text string, spec Spec, rec model.Record) (Result, error) {
	ctx = llm.WithPhase(ctx, spec.Topic)
	log := zap.L().With(zap.String("stage", spec.Topic))

	for _, k := range spec.Owned() {
		if c := model.Cell(rec, k); c != nil {
			c.Clear()
		}
	}

	var res Result
	degrade := func(field string, err error) {
		res.Degraded = true
		metrics.DegradedFields.WithLabelValues(spec.Topic).Inc()
		log.Warn("checklist: stage degraded", zap.String("field", field), zap.Error(err))
	}

	summary, err := m.llm.Complete(ctx, fmt.Sprintf(summaryPrompt, text, spec.Question, spec.instruction()))
	if err != nil {
		if ctx.Err() != nil {
			return res, eris.Wrap(ctx.Err(), "checklist: summarize")
		}
		degrade("summary", err)
		summary = ""
	}
	res.Summary = summary
	statements := stripEmphasis(summary)
	if spec.SummaryKey != "" {
		if c := model.Cell(rec, spec.SummaryKey); c != nil {
			c.Set(statements, statements)
		}
	}

	marks, err := m.classify(ctx, summary, spec)
	if err != nil {
		if ctx.Err() != nil {
			return res, eris.Wrap(ctx.Err(), "checklist: classify")
		}
		degrade("classification", err)
	}

	for _, f := range spec.Fields {
		if !marks[f.Key] {
			continue
		}
		res.Marked = append(res.Marked, f.Key)
		if c := model.Cell(rec, f.Key); c != nil {
			c.Set(FindEvidence(statements, f.Patterns), Mark)
		}
	}

	if spec.ResidualKey != "" {
		residual, err := m.residual(ctx, summary, spec, res.Marked)
		if err != nil {
			if ctx.Err() != nil {
				return res, eris.Wrap(ctx.Err(), "checklist: residual")
			}
			degrade(spec.ResidualKey, err)
		}
		res.Residual = residual
		if c := model.Cell(rec, spec.ResidualKey); c != nil {
			c.Set(residual.Narrative(), residual.Value())
		}
	}

	log.Debug("checklist: mapped",
		zap.Strings("marked", res.Marked),
		zap.Int("residual_items", len(res.Residual.List)),
	)
	return res, nil
}

var emphasis = strings.NewReplacer("*", "", "#", "")

func stripEmphasis(s string) string {
	return strings.TrimSpace(emphasis.Replace(s))
}

func (m *Mapper) classify(ctx context.Context, summary string, spec Spec) (Marks, error) {
	var fields strings.Builder
	for _, f := range spec.Fields {
		fmt.Fprintf(&fields, "%s: (%s)\n", f.Key, f.Hint)
	}

	raw, err := m.llm.Complete(ctx, fmt.Sprintf(classifyPrompt, summary, spec.Requirement, fields.String()))
	if err != nil {
		return Marks{}, eris.Wrap(err, "checklist: complete classification")
	}
	return DecodeMarks(raw, spec.Keys())
}

func (m *Mapper) residual(ctx context.Context, summary string, spec Spec, marked []string) (Residual, error) {
	var categories strings.Builder
	for _, f := range spec.Fields {
		fmt.Fprintf(&categories, "- %s\n", f.Category)
	}

	ignored := "- (none)"
	if len(marked) > 0 {
		labels := make([]string, len(marked))
		for i, k := range marked {
			f, _ := spec.Field(k)
			labels[i] = "- " + f.Category
		}
		ignored = strings.Join(labels, "\n")
	}

	raw, err := m.llm.Complete(ctx, fmt.Sprintf(residualPrompt,
		spec.ResidualNoun, summary, spec.ResidualNoun, categories.String(), ignored))
	if err != nil {
		return Residual{}, eris.Wrap(err, "checklist: complete residual")
	}
	return DecodeResidual(raw)
}
