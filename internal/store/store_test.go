package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/sds-assess/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateAndGetRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, "CO-028296-HS-2 Acetone.md")
		require.NoError(t, err)
		assert.NotEmpty(t, run.ID)
		assert.Equal(t, model.RunStatusQueued, run.Status)

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, "CO-028296-HS-2 Acetone.md", got.DocumentID)
		assert.Equal(t, model.RunStatusQueued, got.Status)
		assert.Empty(t, got.ArtifactPath)
	})

	t.Run("Lifecycle", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, "doc.md")
		require.NoError(t, err)

		require.NoError(t, s.UpdateRunStatus(ctx, run.ID, model.RunStatusExtracting))
		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusExtracting, got.Status)

		require.NoError(t, s.CompleteRun(ctx, run.ID, "out/doc.md_2026-01-01_1200.xlsx", "B"))
		got, err = s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusComplete, got.Status)
		assert.Equal(t, "out/doc.md_2026-01-01_1200.xlsx", got.ArtifactPath)
		assert.Equal(t, "B", got.HazardLetter)
		assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
	})

	t.Run("FailRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run, err := s.CreateRun(ctx, "broken.md")
		require.NoError(t, err)
		require.NoError(t, s.FailRun(ctx, run.ID, errors.New("template: sheet missing")))

		got, err := s.GetRun(ctx, run.ID)
		require.NoError(t, err)
		assert.Equal(t, model.RunStatusFailed, got.Status)
		assert.Equal(t, "template: sheet missing", got.Error)
	})

	t.Run("UnknownRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.GetRun(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.UpdateRunStatus(ctx, "missing", model.RunStatusFailed), ErrNotFound)
		assert.ErrorIs(t, s.CompleteRun(ctx, "missing", "p", "A"), ErrNotFound)
		assert.ErrorIs(t, s.FailRun(ctx, "missing", nil), ErrNotFound)
	})

	t.Run("ListRunsFilter", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a, err := s.CreateRun(ctx, "a.md")
		require.NoError(t, err)
		_, err = s.CreateRun(ctx, "b.md")
		require.NoError(t, err)
		_, err = s.CreateRun(ctx, "a.md")
		require.NoError(t, err)
		require.NoError(t, s.CompleteRun(ctx, a.ID, "a.xlsx", "D"))

		all, err := s.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		byDoc, err := s.ListRuns(ctx, RunFilter{DocumentID: "a.md"})
		require.NoError(t, err)
		assert.Len(t, byDoc, 2)

		complete, err := s.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
		require.NoError(t, err)
		require.Len(t, complete, 1)
		assert.Equal(t, a.ID, complete[0].ID)

		page, err := s.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, DriverNone, "")
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = Open(ctx, "SQLite", filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	require.NotNil(t, s)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	_, err = s.CreateRun(ctx, "doc.md")
	assert.NoError(t, err)

	_, err = Open(ctx, "mysql", "")
	assert.Error(t, err)
}
