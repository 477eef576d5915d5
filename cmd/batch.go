package main

import (
	"context"
	"os/signal"
	"sort"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/sds-assess/internal/document"
	"github.com/sells-group/sds-assess/internal/model"
)

var (
	batchGlob  string
	batchLimit int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Assess every safety data sheet matching a glob",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		paths, err := expandGlob(batchGlob)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx, "process")
		if err != nil {
			return err
		}
		defer env.Close()

		_, err = processBatch(ctx, paths, batchLimit, func(ctx context.Context, doc model.Document) (*model.Assessment, error) {
			return env.Pipeline.Run(ctx, doc)
		})
		return err
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchGlob, "glob", "", `documents to process, e.g. "sds/**/*.md"`)
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 for all)")
	_ = batchCmd.MarkFlagRequired("glob")
	rootCmd.AddCommand(batchCmd)
}

// assessFunc runs one document through the pipeline.
type assessFunc func(ctx context.Context, doc model.Document) (*model.Assessment, error)

// batchResult counts the outcome of a batch.
type batchResult struct {
	Succeeded int
	Failed    int
}

// expandGlob returns the supported documents matching pattern in lexical
// order.
func expandGlob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, eris.Errorf("batch: invalid glob %q", pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, eris.Wrapf(err, "batch: expand %q", pattern)
	}
	var out []string
	for _, m := range matches {
		if document.Supported(m) {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// processBatch applies limit, then runs each document in turn. A failed
// document is logged and the batch continues; only cancellation stops it.
func processBatch(ctx context.Context, paths []string, limit int, assess assessFunc) (batchResult, error) {
	var res batchResult
	if len(paths) == 0 {
		zap.L().Info("batch: no documents matched")
		return res, nil
	}

	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	zap.L().Info("batch: processing", zap.Int("documents", len(paths)))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, eris.Wrap(err, "batch processing")
		}
		log := zap.L().With(zap.String("path", path))

		doc, err := document.Load(path)
		if err != nil {
			res.Failed++
			log.Error("batch: load failed", zap.Error(err))
			continue
		}

		result, err := assess(ctx, doc)
		if err != nil {
			res.Failed++
			log.Error("batch: assessment failed", zap.Error(err))
			continue
		}

		res.Succeeded++
		log.Info("batch: assessment complete",
			zap.String("artifact", result.ArtifactPath),
			zap.String("hazard_letter", result.HazardLetter),
		)
	}

	zap.L().Info("batch: complete",
		zap.Int("succeeded", res.Succeeded),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}
