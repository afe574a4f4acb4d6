package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"surface-inspector/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreates(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	user.SetState(entity.StateAwaitingPhoto)
	require.NoError(t, repo.Save(ctx, user))

	again, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, again.State)
}

func TestMemoryInspectionRepository_SaveAndList(t *testing.T) {
	repo := NewMemoryInspectionRepository()
	ctx := context.Background()

	for i, status := range []entity.Status{entity.StatusPass, entity.StatusFail, entity.StatusPass} {
		err := repo.Save(ctx, &entity.InspectionRecord{
			ID:          string(rune('a' + i)),
			CreatedAt:   time.Now().UTC(),
			Status:      status,
			HealthScore: float64(90 - i),
		})
		require.NoError(t, err)
	}

	recs, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Новые первыми.
	require.Equal(t, "c", recs[0].ID)
	require.Equal(t, "b", recs[1].ID)
}

func TestSQLiteInspectionRepository(t *testing.T) {
	repo, err := NewSQLiteInspectionRepository(filepath.Join(t.TempDir(), "inspections.db"))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	rec := &entity.InspectionRecord{
		ID:          "11111111-1111-1111-1111-111111111111",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Inspector:   "Edge Inspector",
		Batch:       "BATCH-001",
		Status:      entity.StatusFail,
		HealthScore: 37.5,
		DefectCount: 8,
	}
	require.NoError(t, repo.Save(ctx, rec))

	later := &entity.InspectionRecord{
		ID:        "22222222-2222-2222-2222-222222222222",
		CreatedAt: time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		Inspector: "Edge Inspector",
		Batch:     "BATCH-001",
		Status:    entity.StatusPass,
	}
	require.NoError(t, repo.Save(ctx, later))

	recs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	require.Equal(t, later.ID, recs[0].ID)
	require.Equal(t, rec.ID, recs[1].ID)
	require.Equal(t, entity.StatusFail, recs[1].Status)
	require.InDelta(t, 37.5, recs[1].HealthScore, 1e-9)
	require.Equal(t, 8, recs[1].DefectCount)
	require.True(t, rec.CreatedAt.Equal(recs[1].CreatedAt))
}

func TestFileReportStore(t *testing.T) {
	store, err := NewFileReportStore(filepath.Join(t.TempDir(), "reports"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "abc", []byte(`{"ok":true}`)))

	data, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	require.JSONEq(t, `{"ok":true}`, string(data))

	_, err = store.Load(ctx, "missing")
	require.Error(t, err)
}
