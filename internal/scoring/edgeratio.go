package scoring

import (
	"fmt"

	"surface-inspector/internal/domain/entity"
)

// EdgeRatioConfig — параметры стратегии по доле краевых пикселей.
type EdgeRatioConfig struct {
	ImpactMultiplier float64 // вес процента краевых пикселей (по умолчанию 1.5)
	HealthFloor      float64 // нижняя граница здоровья (по умолчанию 10)
	HealthCeiling    float64 // верхняя граница здоровья (по умолчанию 99)
}

// DefaultEdgeRatioConfig возвращает параметры по умолчанию.
func DefaultEdgeRatioConfig() EdgeRatioConfig {
	return EdgeRatioConfig{ImpactMultiplier: 1.5, HealthFloor: 10, HealthCeiling: 99}
}

// EdgeRatio оценивает здоровье по проценту краевых пикселей. Пол диапазона
// не даёт одному шумному кадру отчитаться почти нулевым здоровьем, которое
// бизнес-слой трактует как катастрофу.
type EdgeRatio struct {
	cfg EdgeRatioConfig
}

// NewEdgeRatio создаёт стратегию по доле краевых пикселей.
func NewEdgeRatio(cfg EdgeRatioConfig) *EdgeRatio {
	if cfg.ImpactMultiplier <= 0 {
		cfg.ImpactMultiplier = 1.5
	}
	if cfg.HealthCeiling <= 0 || cfg.HealthCeiling > 100 {
		cfg.HealthCeiling = 99
	}
	if cfg.HealthFloor < 0 || cfg.HealthFloor >= cfg.HealthCeiling {
		cfg.HealthFloor = 10
	}
	return &EdgeRatio{cfg: cfg}
}

// Mode возвращает имя стратегии.
func (e *EdgeRatio) Mode() Mode {
	return ModeEdgeRatio
}

// Score считает здоровье от доли краевых пикселей и зажимает его
// в настроенную полосу [HealthFloor, HealthCeiling].
func (e *EdgeRatio) Score(in Input) (entity.ScoreResult, error) {
	if in.ImageArea <= 0 {
		return entity.ScoreResult{}, fmt.Errorf("image area must be positive, got %d", in.ImageArea)
	}

	edgePercent := float64(in.EdgePixels) / float64(in.ImageArea) * 100
	health := 100 - edgePercent*e.cfg.ImpactMultiplier
	defect := edgePercent * e.cfg.ImpactMultiplier / 100

	return entity.ScoreResult{
		DefectScore: clamp01(defect),
		HealthScore: clamp(health, e.cfg.HealthFloor, e.cfg.HealthCeiling),
	}, nil
}

var _ Strategy = (*EdgeRatio)(nil)
