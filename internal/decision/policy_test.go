package decision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/scoring"
)

func TestPolicy_Gate_Boundaries(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	cases := []struct {
		name   string
		score  float64
		status entity.Status
		done   bool
	}{
		{"lower bound inclusive", 0.45, entity.StatusUncertain, true},
		{"upper bound inclusive", 0.55, entity.StatusUncertain, true},
		{"middle of band", 0.5, entity.StatusUncertain, true},
		{"just below band", 0.449, entity.StatusInvalidInput, true},
		{"far below band", 0.1, entity.StatusInvalidInput, true},
		{"just above band", 0.551, "", false},
		{"confident surface", 0.95, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, done := p.Gate(Gatekeeper{Score: tc.score, Present: true})
			require.Equal(t, tc.done, done)
			require.Equal(t, tc.status, status)
		})
	}
}

func TestPolicy_Gate_AbsentGatekeeper(t *testing.T) {
	p := NewPolicy(DefaultConfig())
	_, done := p.Gate(Gatekeeper{})
	require.False(t, done)
}

func TestPolicy_Decide_GeometricConjunctive(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	cases := []struct {
		name   string
		health float64
		count  int
		status entity.Status
	}{
		{"low health and many defects", 85, 7, entity.StatusFail},
		{"low health but few defects", 85, 3, entity.StatusPass},
		{"many defects but high health", 95, 7, entity.StatusPass},
		{"healthy and clean", 99, 0, entity.StatusPass},
		{"count at limit is allowed", 85, 5, entity.StatusPass},
		{"health at threshold passes", 90, 7, entity.StatusPass},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := p.Decide(Gatekeeper{}, entity.ScoreResult{HealthScore: tc.health}, tc.count, scoring.ModeGeometric)
			require.Equal(t, tc.status, v.Status)
		})
	}
}

func TestPolicy_Decide_ClassifierMode(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	v := p.Decide(Gatekeeper{}, entity.ScoreResult{DefectScore: 0.5, HealthScore: 90}, 0, scoring.ModeClassifier)
	require.Equal(t, entity.StatusPass, v.Status)
	require.Equal(t, entity.ExplanationSurfaceClean, v.Explanation)

	v = p.Decide(Gatekeeper{}, entity.ScoreResult{DefectScore: 0.50001, HealthScore: 39.9992}, 0, scoring.ModeClassifier)
	require.Equal(t, entity.StatusFail, v.Status)
	require.Equal(t, entity.ExplanationDefectsFound, v.Explanation)
}

func TestPolicy_Decide_UncertainShortCircuits(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	// Даже с катастрофическими оценками дефектов полоса неопределённости
	// перекрывает всё: вердикт UNCERTAIN с нулевыми оценками дефектов.
	v := p.Decide(
		Gatekeeper{Score: 0.5, Present: true},
		entity.ScoreResult{DefectScore: 1, HealthScore: 0},
		100,
		scoring.ModeGeometric,
	)
	require.Equal(t, entity.StatusUncertain, v.Status)
	require.Equal(t, entity.ExplanationSurfaceUnclear, v.Explanation)
	require.Equal(t, 0.0, v.Scores.DefectScore)
	require.Equal(t, 0.0, v.Scores.HealthScore)
	require.True(t, v.Scores.HasGatekeeper)
	require.Equal(t, 0.5, v.Scores.GatekeeperScore)
}

func TestPolicy_Decide_InvalidInput(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	v := p.Decide(Gatekeeper{Score: 0.2, Present: true}, entity.ScoreResult{}, 0, scoring.ModeGeometric)
	require.Equal(t, entity.StatusInvalidInput, v.Status)
	require.Equal(t, entity.ExplanationNotInspectable, v.Explanation)
}

func TestPolicy_Decide_GatekeeperAboveBandProceeds(t *testing.T) {
	p := NewPolicy(DefaultConfig())

	v := p.Decide(
		Gatekeeper{Score: 0.551, Present: true},
		entity.ScoreResult{HealthScore: 95},
		2,
		scoring.ModeGeometric,
	)
	require.Equal(t, entity.StatusPass, v.Status)
	require.Equal(t, 0.551, v.Scores.GatekeeperScore)
	require.True(t, v.Scores.HasGatekeeper)
}
