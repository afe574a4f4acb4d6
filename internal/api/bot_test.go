package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	app "surface-inspector/internal/application"
	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
	"surface-inspector/internal/infrastructure/vision"
)

func TestVerdictText(t *testing.T) {
	out := &app.InspectionOutput{
		Verdict: &entity.Verdict{
			Status:      entity.StatusFail,
			Explanation: entity.ExplanationDefectsFound,
			Scores: entity.ScoreResult{
				HealthScore:     42.5,
				GatekeeperScore: 0.9,
				HasGatekeeper:   true,
			},
		},
		Regions: entity.RegionSet{
			{Area: 20}, {Area: 30},
		},
		InspectionID: "abc-123",
	}

	text := verdictText(out)
	require.Contains(t, text, "БРАК")
	require.Contains(t, text, "42.5/100")
	require.Contains(t, text, "Найдено областей: 2")
	require.Contains(t, text, "90%")
	require.Contains(t, text, "abc-123")
}

func TestVerdictText_Uncertain(t *testing.T) {
	out := &app.InspectionOutput{
		Verdict: &entity.Verdict{
			Status:      entity.StatusUncertain,
			Explanation: entity.ExplanationSurfaceUnclear,
			Scores:      entity.ScoreResult{GatekeeperScore: 0.5, HasGatekeeper: true},
		},
	}

	text := verdictText(out)
	require.Contains(t, text, "Неоднозначный снимок")
	// Оценка состояния не выводится для недосчитанной инспекции.
	require.NotContains(t, text, "/100")
}

func TestInspectionErrorText(t *testing.T) {
	require.Equal(t, msgBadImage, inspectionErrorText(vision.ErrDecode))
	require.Equal(t, msgUnclearImage, inspectionErrorText(fmt.Errorf("wrapped: %w", vision.ErrFeatureExtraction)))
	require.Equal(t, msgModelDown, inspectionErrorText(port.ErrClassifier))
	require.Equal(t, msgProcessingError, inspectionErrorText(errors.New("other")))
}
