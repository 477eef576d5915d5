package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/hazard"
	"github.com/sells-group/sds-assess/internal/llm"
	"github.com/sells-group/sds-assess/internal/pipeline"
	"github.com/sells-group/sds-assess/internal/registry"
	"github.com/sells-group/sds-assess/internal/resilience"
	"github.com/sells-group/sds-assess/internal/store"
	"github.com/sells-group/sds-assess/internal/template"
	"github.com/sells-group/sds-assess/pkg/anthropic"
)

// pipelineEnv holds the pipeline and the run ledger used by the process,
// batch and serve commands.
type pipelineEnv struct {
	Store    store.Store // nil when the ledger is disabled
	Pipeline *pipeline.Pipeline
}

// Close releases resources held by the pipeline environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline validates the config for mode, opens the ledger and builds
// the Pipeline. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	p, err := pipeline.New(
		registry.NewSource(cfg.Baseline.Dir),
		newCompleter(),
		hazard.NewClassifier(nil),
		template.NewProjector(cfg.Template.Path, cfg.Output.Dir, cfg.Template.Sheet),
		st,
	)
	if err != nil {
		if st != nil {
			_ = st.Close()
		}
		return nil, eris.Wrap(err, "build pipeline")
	}

	zap.L().Info("pipeline ready",
		zap.String("model", cfg.Anthropic.Model),
		zap.String("template", cfg.Template.Path),
		zap.String("store", cfg.Store.Driver),
	)
	return &pipelineEnv{Store: st, Pipeline: p}, nil
}

// initStore opens the configured run ledger. A nil store means the ledger
// is disabled.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

func newCompleter() llm.Completer {
	return llm.NewAnthropicCompleter(anthropic.NewClient(cfg.Anthropic.Key), llm.Options{
		Model:             cfg.Anthropic.Model,
		MaxTokens:         cfg.Anthropic.MaxTokens,
		RequestsPerSecond: cfg.Anthropic.RequestsPerSecond,
		Retry:             resilience.DefaultPolicy().WithAttempts(cfg.Anthropic.MaxAttempts),
	})
}
