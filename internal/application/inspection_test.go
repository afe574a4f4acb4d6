package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"surface-inspector/internal/decision"
	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
	"surface-inspector/internal/infrastructure/classifier"
	"surface-inspector/internal/infrastructure/storage"
	"surface-inspector/internal/infrastructure/vision"
	"surface-inspector/internal/scoring"
)

// texturedPNG рисует светлый квадрат на тёмном фоне: снимок не плоский,
// конвейер признаков проходит без ошибок.
func texturedPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 30, B: 30, A: 255})
		}
	}
	for y := 24; y < 40; y++ {
		for x := 24; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 220, G: 220, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func flatPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func geometricParams() InspectionParams {
	return InspectionParams{
		Decoder:   vision.NewDecoder(1024),
		Extractor: vision.NewExtractor(vision.DefaultExtractorConfig()),
		Analyzer:  vision.NewAnalyzer(10),
		Strategy:  scoring.NewGeometric(scoring.DefaultGeometricConfig()),
		Policy:    decision.NewPolicy(decision.DefaultConfig()),
	}
}

func TestInspect_Geometric_SingleRegionPasses(t *testing.T) {
	svc, err := NewInspectionService(geometricParams())
	require.NoError(t, err)

	verdict, err := svc.Inspect(context.Background(), texturedPNG(t))
	require.NoError(t, err)

	// Одна область не превышает порога по числу дефектов.
	require.Equal(t, entity.StatusPass, verdict.Status)
	require.Equal(t, entity.ExplanationSurfaceClean, verdict.Explanation)
	require.False(t, verdict.Scores.HasGatekeeper)
}

func TestInspect_Deterministic(t *testing.T) {
	svc, err := NewInspectionService(geometricParams())
	require.NoError(t, err)

	data := texturedPNG(t)
	first, err := svc.Inspect(context.Background(), data)
	require.NoError(t, err)
	second, err := svc.Inspect(context.Background(), data)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestInspect_GatekeeperBand(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  entity.Status
	}{
		{"band low edge", 0.45, entity.StatusUncertain},
		{"band high edge", 0.55, entity.StatusUncertain},
		{"below band", 0.3, entity.StatusInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := geometricParams()
			p.Gatekeeper = &classifier.Static{P: tt.score}
			svc, err := NewInspectionService(p)
			require.NoError(t, err)

			verdict, err := svc.Inspect(context.Background(), texturedPNG(t))
			require.NoError(t, err)
			require.Equal(t, tt.want, verdict.Status)
			require.True(t, verdict.Scores.HasGatekeeper)
			require.InDelta(t, tt.score, verdict.Scores.GatekeeperScore, 1e-9)
		})
	}
}

func TestInspect_GatekeeperAboveBandProceeds(t *testing.T) {
	p := geometricParams()
	p.Gatekeeper = &classifier.Static{P: 0.551}
	svc, err := NewInspectionService(p)
	require.NoError(t, err)

	verdict, err := svc.Inspect(context.Background(), texturedPNG(t))
	require.NoError(t, err)
	require.Equal(t, entity.StatusPass, verdict.Status)
}

func TestInspect_GatekeeperShortCircuitsDefectModel(t *testing.T) {
	p := geometricParams()
	p.Strategy = scoring.NewClassifier()
	p.Gatekeeper = &classifier.Static{P: 0.5}
	// Модель дефектов падает; на неоднозначном снимке её вызывать нельзя.
	p.DefectModel = &classifier.Static{Err: errors.New("must not be called")}

	svc, err := NewInspectionService(p)
	require.NoError(t, err)

	verdict, err := svc.Inspect(context.Background(), texturedPNG(t))
	require.NoError(t, err)
	require.Equal(t, entity.StatusUncertain, verdict.Status)
}

func TestInspect_ClassifierMode(t *testing.T) {
	p := geometricParams()
	p.Strategy = scoring.NewClassifier()
	p.Gatekeeper = &classifier.Static{P: 0.9}
	p.DefectModel = &classifier.Static{P: 0.7}

	svc, err := NewInspectionService(p)
	require.NoError(t, err)

	verdict, err := svc.Inspect(context.Background(), texturedPNG(t))
	require.NoError(t, err)
	require.Equal(t, entity.StatusFail, verdict.Status)
	require.InDelta(t, 24.0, verdict.Scores.HealthScore, 1e-9)
	require.InDelta(t, 0.7, verdict.Scores.DefectScore, 1e-9)
}

func TestInspect_ClassifierFailurePropagates(t *testing.T) {
	p := geometricParams()
	p.Strategy = scoring.NewClassifier()
	p.DefectModel = &classifier.Static{Err: port.ErrClassifier}

	svc, err := NewInspectionService(p)
	require.NoError(t, err)

	_, err = svc.Inspect(context.Background(), texturedPNG(t))
	require.ErrorIs(t, err, port.ErrClassifier)
}

func TestInspect_FlatImage(t *testing.T) {
	svc, err := NewInspectionService(geometricParams())
	require.NoError(t, err)

	_, err = svc.Inspect(context.Background(), flatPNG(t))
	require.ErrorIs(t, err, vision.ErrFeatureExtraction)
}

func TestInspect_GarbageInput(t *testing.T) {
	svc, err := NewInspectionService(geometricParams())
	require.NoError(t, err)

	_, err = svc.Inspect(context.Background(), []byte("not an image"))
	require.ErrorIs(t, err, vision.ErrDecode)
}

func TestProcessPhoto_PersistsRecord(t *testing.T) {
	repo := storage.NewMemoryInspectionRepository()
	p := geometricParams()
	p.Repo = repo
	p.Inspector = "AI System"
	p.Batch = "BATCH-042"

	svc, err := NewInspectionService(p)
	require.NoError(t, err)

	out, err := svc.ProcessPhoto(context.Background(), texturedPNG(t))
	require.NoError(t, err)
	require.NotEmpty(t, out.InspectionID)

	recs, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, out.InspectionID, recs[0].ID)
	require.Equal(t, entity.StatusPass, recs[0].Status)
	require.Equal(t, "BATCH-042", recs[0].Batch)
}

func TestProcessPhoto_UncertainNotPersisted(t *testing.T) {
	repo := storage.NewMemoryInspectionRepository()
	p := geometricParams()
	p.Repo = repo
	p.Gatekeeper = &classifier.Static{P: 0.5}

	svc, err := NewInspectionService(p)
	require.NoError(t, err)

	out, err := svc.ProcessPhoto(context.Background(), texturedPNG(t))
	require.NoError(t, err)
	require.Equal(t, entity.StatusUncertain, out.Verdict.Status)
	require.Empty(t, out.InspectionID)

	recs, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestNewInspectionService_Validation(t *testing.T) {
	_, err := NewInspectionService(InspectionParams{})
	require.Error(t, err)

	p := geometricParams()
	p.Strategy = scoring.NewClassifier()
	_, err = NewInspectionService(p)
	require.Error(t, err)

	p = geometricParams()
	p.Extractor = nil
	_, err = NewInspectionService(p)
	require.Error(t, err)
}
