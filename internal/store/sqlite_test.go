package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/objective-board/internal/model"
)

func setupSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_Create(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	t.Run("returns backend-assigned record", func(t *testing.T) {
		task, err := s.Create(ctx, "  Buy milk ", model.PeriodDaily)
		require.NoError(t, err)

		assert.NotZero(t, task.ID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, model.PeriodDaily, task.Period)
		assert.False(t, task.Completed)
		assert.False(t, task.CreatedAt.IsZero())
	})

	t.Run("blank title rejected locally", func(t *testing.T) {
		_, err := s.Create(ctx, "   ", model.PeriodDaily)
		assert.ErrorIs(t, err, ErrValidation)
		assert.False(t, IsStoreError(err))
	})

	t.Run("unknown period rejected locally", func(t *testing.T) {
		_, err := s.Create(ctx, "Task", model.Period("yearly"))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestSQLiteStore_List(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	empty, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := s.Create(ctx, "first", model.PeriodDaily)
	require.NoError(t, err)
	second, err := s.Create(ctx, "second", model.PeriodWeekly)
	require.NoError(t, err)
	third, err := s.Create(ctx, "third", model.PeriodMonthly)
	require.NoError(t, err)

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	// самые новые первыми
	assert.Equal(t, third.ID, tasks[0].ID)
	assert.Equal(t, second.ID, tasks[1].ID)
	assert.Equal(t, first.ID, tasks[2].ID)
}

func TestSQLiteStore_Update(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Original", model.PeriodWeekly)
	require.NoError(t, err)

	t.Run("title patch", func(t *testing.T) {
		updated, err := s.Update(ctx, created.ID, model.TitlePatch("  Renamed  "))
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.False(t, updated.Completed)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	})

	t.Run("completed patch keeps title", func(t *testing.T) {
		updated, err := s.Update(ctx, created.ID, model.CompletedPatch(true))
		require.NoError(t, err)
		assert.True(t, updated.Completed)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, model.PeriodWeekly, updated.Period)
	})

	t.Run("missing id is not found", func(t *testing.T) {
		_, err := s.Update(ctx, 99999, model.CompletedPatch(true))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsStoreError(err))
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		_, err := s.Update(ctx, created.ID, model.TaskPatch{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := s.Update(ctx, created.ID, model.TitlePatch(" "))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestSQLiteStore_Delete(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "To delete", model.PeriodDaily)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	tasks, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// повторное удаление - не ошибка
	assert.NoError(t, s.Delete(ctx, created.ID))
}
