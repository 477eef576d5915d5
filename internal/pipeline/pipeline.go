package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/checklist"
	"github.com/sells-group/sds-assess/internal/hazard"
	"github.com/sells-group/sds-assess/internal/identity"
	"github.com/sells-group/sds-assess/internal/llm"
	"github.com/sells-group/sds-assess/internal/metrics"
	"github.com/sells-group/sds-assess/internal/model"
	"github.com/sells-group/sds-assess/internal/narrative"
	"github.com/sells-group/sds-assess/internal/registry"
	"github.com/sells-group/sds-assess/internal/store"
	"github.com/sells-group/sds-assess/internal/template"
)

// ErrBaseline marks a run that could not load its baseline records.
var ErrBaseline = eris.New("pipeline: baseline unavailable")

// Projector writes finished records to an artifact.
type Projector interface {
	Project(records []model.Record, docID string, now time.Time) (string, error)
}

var _ Projector = (*template.Projector)(nil)

// Pipeline turns one document into a filled assessment artifact.
type Pipeline struct {
	baseline   registry.Source
	resolver   *identity.Resolver
	classifier *hazard.Classifier
	mapper     *checklist.Mapper
	extractor  *narrative.Extractor
	projector  Projector
	store      store.Store
	now        func() time.Time
}

// New creates a Pipeline. A nil classifier selects the default table and a
// nil store disables the run ledger. It fails when two stages would write
// the same field.
func New(
	baseline registry.Source,
	completer llm.Completer,
	classifier *hazard.Classifier,
	projector Projector,
	st store.Store,
) (*Pipeline, error) {
	if err := model.ValidateDisjoint(Owners()); err != nil {
		return nil, eris.Wrap(err, "pipeline: stage ownership")
	}
	if classifier == nil {
		classifier = hazard.NewClassifier(nil)
	}
	return &Pipeline{
		baseline:   baseline,
		resolver:   identity.NewResolver(completer),
		classifier: classifier,
		mapper:     checklist.NewMapper(completer),
		extractor:  narrative.NewExtractor(completer),
		projector:  projector,
		store:      st,
		now:        time.Now,
	}, nil
}

// Owners maps each writing stage to the field keys it sets.
func Owners() map[string][]string {
	return map[string][]string{
		"identity":       model.IdentityKeys(),
		"ppe":            checklist.PPESpec().Owned(),
		"pictograms":     checklist.PictogramSpec().Owned(),
		"storage":        checklist.StorageSpec().Owned(),
		"classification": {model.KeyHazardGroup},
		"policy":         PolicyKeys(),
		"narrative":      narrative.Keys(),
	}
}

// Run executes every stage for doc in order and projects the result.
// Field-level failures degrade single cells; only a missing baseline, a
// cancelled context or a projection failure is returned.
func (p *Pipeline) Run(ctx context.Context, doc model.Document) (*model.Assessment, error) {
	log := zap.L().With(zap.String("document", doc.ID))
	log.Info("pipeline: starting assessment")

	result := &model.Assessment{Document: doc}

	runID := p.createRun(ctx, doc.ID, log)
	result.RunID = runID
	setStatus := func(status model.RunStatus) {
		if p.store == nil || runID == "" {
			return
		}
		if err := p.store.UpdateRunStatus(ctx, runID, status); err != nil {
			log.Warn("pipeline: failed to update status", zap.Error(err))
		}
	}
	fail := func(err error) (*model.Assessment, error) {
		metrics.Runs.WithLabelValues(string(model.RunStatusFailed)).Inc()
		log.Error("pipeline: assessment failed", zap.Error(err))
		if p.store != nil && runID != "" {
			if ferr := p.store.FailRun(context.WithoutCancel(ctx), runID, err); ferr != nil {
				log.Warn("pipeline: failed to record failure", zap.Error(ferr))
			}
		}
		return result, err
	}

	trackStage := func(name string, fn func() (int, error)) error {
		start := time.Now()
		degraded, err := fn()
		elapsed := time.Since(start)

		metrics.StageDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		result.Stages = append(result.Stages, model.StageResult{
			Name:     name,
			Duration: elapsed.Milliseconds(),
			Degraded: degraded,
		})
		if err != nil {
			log.Error("pipeline: stage failed",
				zap.String("stage", name),
				zap.Int64("duration_ms", elapsed.Milliseconds()),
				zap.Error(err),
			)
			return err
		}
		log.Info("pipeline: stage complete",
			zap.String("stage", name),
			zap.Int64("duration_ms", elapsed.Milliseconds()),
			zap.Int("degraded", degraded),
		)
		return nil
	}

	setStatus(model.RunStatusExtracting)

	var records *model.RecordSet
	if err := trackStage("baseline", func() (int, error) {
		rs, err := p.baseline.Load()
		if err != nil {
			return 0, eris.Wrapf(ErrBaseline, "%v", err)
		}
		if missing := rs.Missing(); len(missing) > 0 {
			return 0, eris.Wrapf(ErrBaseline, "missing domains %v", missing)
		}
		records = rs
		return 0, nil
	}); err != nil {
		return fail(err)
	}
	result.Records = records

	_ = trackStage("identity", func() (int, error) {
		result.ChemicalNames = p.resolver.Resolve(ctx, doc)
		PropagateIdentity(records, doc.ID, result.ChemicalNames)
		return 0, nil
	})

	for _, stage := range []struct {
		spec checklist.Spec
		rec  model.Record
	}{
		{checklist.PPESpec(), records.Hazards},
		{checklist.PictogramSpec(), records.Hazards},
		{checklist.StorageSpec(), records.Storage},
	} {
		if err := trackStage(stage.spec.Topic, func() (int, error) {
			res, err := p.mapper.Map(ctx, doc.Text, stage.spec, stage.rec)
			if res.Degraded {
				return 1, err
			}
			return 0, err
		}); err != nil {
			return fail(err)
		}
	}

	_ = trackStage("classification", func() (int, error) {
		result.HazardCodes = p.classifier.Codes(doc.Text)
		result.HazardLetter = p.classifier.Resolve(result.HazardCodes)
		metrics.HazardLetters.WithLabelValues(result.HazardLetter).Inc()
		hazard.Broadcast(result.HazardLetter, records.Hazards, records.WasteDisposal, records.Storage)
		return 0, nil
	})

	_ = trackStage("policy", func() (int, error) {
		PolicyDefaults(records.Groups()...)
		return 0, nil
	})

	if err := trackStage("narrative", func() (int, error) {
		degraded := 0
		for _, g := range narrative.Groups() {
			res, err := p.extractor.ExtractGroup(ctx, g, records.Get(g.Domain), doc.ID, doc.Text)
			degraded += res.Degraded
			if err != nil {
				return degraded, err
			}
		}
		return degraded, nil
	}); err != nil {
		return fail(err)
	}

	setStatus(model.RunStatusProjecting)

	if err := trackStage("projection", func() (int, error) {
		path, err := p.projector.Project(records.Groups(), doc.ID, p.now())
		if err != nil {
			return 0, err
		}
		if path == "" {
			return 0, eris.Wrap(template.ErrTemplate, "pipeline: projector returned no artifact")
		}
		result.ArtifactPath = path
		return 0, nil
	}); err != nil {
		return fail(err)
	}

	if p.store != nil && runID != "" {
		if err := p.store.CompleteRun(ctx, runID, result.ArtifactPath, result.HazardLetter); err != nil {
			log.Warn("pipeline: failed to complete run", zap.Error(err))
		}
	}
	metrics.Runs.WithLabelValues(string(model.RunStatusComplete)).Inc()
	log.Info("pipeline: assessment complete",
		zap.String("artifact", result.ArtifactPath),
		zap.String("hazard_letter", result.HazardLetter),
		zap.Strings("chemical_names", result.ChemicalNames),
	)
	return result, nil
}

func (p *Pipeline) createRun(ctx context.Context, docID string, log *zap.Logger) string {
	if p.store == nil {
		return ""
	}
	run, err := p.store.CreateRun(ctx, docID)
	if err != nil {
		log.Warn("pipeline: failed to create run", zap.Error(err))
		return ""
	}
	return run.ID
}
