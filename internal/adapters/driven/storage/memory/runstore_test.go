package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daisytext/internal/core/domain"
)

func testRun(id string, started time.Time, segments ...string) *domain.RunResult {
	return &domain.RunResult{
		Run: domain.Run{
			ID:           id,
			Source:       "input/book.pdf",
			Strategy:     domain.StrategySentence,
			UnicodeForm:  domain.UnicodeFormNFC,
			SegmentCount: len(segments),
			StartedAt:    started,
			FinishedAt:   started.Add(time.Second),
		},
		CleanText: "clean",
		Segments:  segments,
	}
}

func TestRunStore_SaveAndGet(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.SaveRun(ctx, testRun("run-1", now, "Một câu.", "Hai câu.")))

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "input/book.pdf", got.Run.Source)
	assert.Equal(t, []string{"Một câu.", "Hai câu."}, got.Segments)
	assert.Equal(t, "clean", got.CleanText)
}

func TestRunStore_SaveCopiesSegments(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	result := testRun("run-1", time.Now(), "a", "b")

	require.NoError(t, store.SaveRun(ctx, result))
	result.Segments[0] = "changed"

	got, err := store.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "a", got.Segments[0])
}

func TestRunStore_SaveInvalid(t *testing.T) {
	store := NewRunStore()

	assert.ErrorIs(t, store.SaveRun(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.SaveRun(context.Background(), &domain.RunResult{}), domain.ErrInvalidInput)
}

func TestRunStore_GetNotFound(t *testing.T) {
	_, err := NewRunStore().GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_ListMostRecentFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveRun(ctx, testRun("old", base)))
	require.NoError(t, store.SaveRun(ctx, testRun("new", base.Add(time.Hour))))
	require.NoError(t, store.SaveRun(ctx, testRun("mid", base.Add(time.Minute))))

	runs, err := store.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "new", runs[0].ID)
	assert.Equal(t, "mid", runs[1].ID)
	assert.Equal(t, "old", runs[2].ID)
}

func TestRunStore_Delete(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, testRun("run-1", time.Now())))

	require.NoError(t, store.DeleteRun(ctx, "run-1"))
	assert.ErrorIs(t, store.DeleteRun(ctx, "run-1"), domain.ErrNotFound)

	_, err := store.GetRun(ctx, "run-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
