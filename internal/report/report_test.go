package report

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/infrastructure/storage"
)

func sampleRecord() (*entity.Verdict, *entity.InspectionRecord) {
	verdict := &entity.Verdict{
		Status:      entity.StatusFail,
		Explanation: entity.ExplanationDefectsFound,
		Scores: entity.ScoreResult{
			GatekeeperScore: 0.92,
			HasGatekeeper:   true,
			DefectScore:     0.61,
			HealthScore:     31.2,
		},
	}
	rec := &entity.InspectionRecord{
		ID:          "a1b2c3",
		CreatedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Inspector:   "AI System",
		Batch:       "BATCH-001",
		Status:      entity.StatusFail,
		HealthScore: 31.2,
		DefectCount: 7,
	}
	return verdict, rec
}

func TestBuild(t *testing.T) {
	verdict, rec := sampleRecord()
	rep := Build(verdict, rec)

	require.Equal(t, "a1b2c3", rep.ID)
	require.Equal(t, "2026-03-14T09:30:00Z", rep.CreatedAt)
	require.Equal(t, "FAIL", rep.Status)
	require.Equal(t, "不合格", rep.StatusLocal)
	require.Equal(t, 7, rep.DefectCount)
	require.True(t, rep.HasGatekeeper)
	require.NotEmpty(t, rep.Explanation.Japanese)
	require.NotEmpty(t, rep.Explanation.English)
}

func TestBuild_ExplanationPerKey(t *testing.T) {
	verdict, rec := sampleRecord()
	for _, key := range []entity.ExplanationKey{
		entity.ExplanationSurfaceClean,
		entity.ExplanationDefectsFound,
		entity.ExplanationSurfaceUnclear,
		entity.ExplanationNotInspectable,
	} {
		verdict.Explanation = key
		rep := Build(verdict, rec)
		require.NotEmpty(t, rep.Explanation.English, "key %s", key)
		require.NotEmpty(t, rep.Explanation.Japanese, "key %s", key)
	}
}

func TestService_GenerateAndLoad(t *testing.T) {
	store, err := storage.NewFileReportStore(t.TempDir())
	require.NoError(t, err)

	svc := NewService(store)
	verdict, rec := sampleRecord()

	require.NoError(t, svc.Generate(context.Background(), verdict, rec))

	rep, err := svc.Load(context.Background(), rec.ID)
	require.NoError(t, err)
	require.Equal(t, "FAIL", rep.Status)
	require.InDelta(t, 31.2, rep.HealthScore, 1e-9)
	require.Equal(t, "Surface Inspector", rep.SystemName)
}

func TestService_Load_Missing(t *testing.T) {
	store, err := storage.NewFileReportStore(t.TempDir())
	require.NoError(t, err)

	_, err = NewService(store).Load(context.Background(), "no-such-id")
	require.Error(t, err)
}

func TestPDF(t *testing.T) {
	verdict, rec := sampleRecord()
	data, err := PDF(Build(verdict, rec))
	require.NoError(t, err)
	require.True(t, len(data) > 500)
	require.Equal(t, "%PDF", string(data[:4]))
}
