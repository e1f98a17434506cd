package repository

import (
	"errors"
	"testing"
	"time"

	"databinding-hunter/internal/config"
	"databinding-hunter/internal/database"
	"databinding-hunter/internal/model"
	"databinding-hunter/test/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRunDB(t *testing.T) database.DatabaseManager {
	t.Helper()
	dbConfig := config.DefaultDatabaseConfig()
	dbConfig.DataDir = t.TempDir()
	dbConfig.DatabaseName = "test-run.db"

	dbManager := database.NewSQLiteManager(dbConfig, mocks.NewMockLogger())
	require.NoError(t, dbManager.Initialize())
	t.Cleanup(func() { dbManager.Close() })
	return dbManager
}

func newRun(id string, startedAt time.Time) *model.Run {
	return &model.Run{
		ID:          id,
		ProjectPath: "/work/app",
		Layouts:     3,
		Units:       10,
		Changed:     2,
		Sites:       4,
		Rewritten:   3,
		StartedAt:   startedAt,
		FinishedAt:  startedAt.Add(2 * time.Second),
	}
}

func TestRunRepository(t *testing.T) {
	repo := NewRunRepository(setupTestRunDB(t), mocks.NewMockLogger())
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	t.Run("CreateAndGet", func(t *testing.T) {
		run := newRun("run-1", base)
		run.Failures = []*model.RunFailure{
			{FilePath: "app/src/main/java/A.java", Line: 12, Call: "DataBindingUtil.bind(a,b)", Message: "arity mismatch"},
			{FilePath: "app/src/main/java/B.java", Message: "panic: boom", Frames: "a.go:1\nb.go:2"},
		}
		require.NoError(t, repo.CreateRun(run))
		assert.NotZero(t, run.Failures[0].ID)
		assert.Equal(t, "run-1", run.Failures[1].RunID)

		got, err := repo.GetRun("run-1")
		require.NoError(t, err)
		assert.Equal(t, "/work/app", got.ProjectPath)
		assert.Equal(t, 2, got.Changed)
		assert.Equal(t, 3, got.Rewritten)
		assert.True(t, got.StartedAt.Equal(base))
		assert.Equal(t, 2*time.Second, got.Duration())
		require.Len(t, got.Failures, 2)
		assert.Equal(t, 12, got.Failures[0].Line)
		assert.Equal(t, "DataBindingUtil.bind(a,b)", got.Failures[0].Call)
		assert.Equal(t, "a.go:1\nb.go:2", got.Failures[1].Frames)
	})

	t.Run("DuplicateIDRollsBack", func(t *testing.T) {
		run := newRun("run-1", base)
		run.Failures = []*model.RunFailure{{FilePath: "C.java", Message: "x"}}
		assert.Error(t, repo.CreateRun(run))

		got, err := repo.GetRun("run-1")
		require.NoError(t, err)
		assert.Len(t, got.Failures, 2)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := repo.GetRun("absent")
		assert.True(t, errors.Is(err, ErrRunNotFound))
	})

	t.Run("ListRuns", func(t *testing.T) {
		require.NoError(t, repo.CreateRun(newRun("run-2", base.Add(time.Minute))))
		dry := newRun("run-3", base.Add(2*time.Minute))
		dry.DryRun = true
		require.NoError(t, repo.CreateRun(dry))

		runs, err := repo.ListRuns(10)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, []string{"run-3", "run-2", "run-1"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
		assert.True(t, runs[0].DryRun)

		limited, err := repo.ListRuns(1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("LatestRunSkipsDryRunAndUndone", func(t *testing.T) {
		latest, err := repo.LatestRun()
		require.NoError(t, err)
		assert.Equal(t, "run-2", latest.ID)

		require.NoError(t, repo.MarkUndone("run-2"))
		latest, err = repo.LatestRun()
		require.NoError(t, err)
		assert.Equal(t, "run-1", latest.ID)

		require.NoError(t, repo.MarkUndone("run-1"))
		_, err = repo.LatestRun()
		assert.True(t, errors.Is(err, ErrRunNotFound))
	})

	t.Run("MarkUndoneMissing", func(t *testing.T) {
		err := repo.MarkUndone("absent")
		assert.True(t, errors.Is(err, ErrRunNotFound))
	})
}
