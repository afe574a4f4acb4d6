package scoring

import (
	"fmt"
	"math"

	"surface-inspector/internal/domain/entity"
)

// GeometricConfig — параметры геометрической стратегии.
type GeometricConfig struct {
	// MaxDefectFraction — доля площади снимка, считающаяся максимальным
	// повреждением (по умолчанию 0.1, т.е. 10%).
	MaxDefectFraction float64
}

// DefaultGeometricConfig возвращает параметры по умолчанию.
func DefaultGeometricConfig() GeometricConfig {
	return GeometricConfig{MaxDefectFraction: 0.1}
}

// Geometric оценивает тяжесть дефектов по суммарной площади значимых
// областей относительно потолка MaxDefectFraction.
type Geometric struct {
	cfg GeometricConfig
}

// NewGeometric создаёт геометрическую стратегию.
func NewGeometric(cfg GeometricConfig) *Geometric {
	if cfg.MaxDefectFraction <= 0 {
		cfg.MaxDefectFraction = 0.1
	}
	return &Geometric{cfg: cfg}
}

// Mode возвращает имя стратегии.
func (g *Geometric) Mode() Mode {
	return ModeGeometric
}

// Score считает оценку дефектов и зеркальную оценку здоровья.
func (g *Geometric) Score(in Input) (entity.ScoreResult, error) {
	if in.ImageArea <= 0 {
		return entity.ScoreResult{}, fmt.Errorf("image area must be positive, got %d", in.ImageArea)
	}

	maxArea := float64(in.ImageArea) * g.cfg.MaxDefectFraction
	defect := math.Min(in.Regions.SignificantArea()/maxArea*100, 100) / 100
	health := 100 - defect*100

	return entity.ScoreResult{
		DefectScore: clamp01(defect),
		HealthScore: clamp(health, 0, 100),
	}, nil
}

var _ Strategy = (*Geometric)(nil)
