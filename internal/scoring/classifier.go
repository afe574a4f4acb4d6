package scoring

import (
	"errors"

	"surface-inspector/internal/domain/entity"
)

// Classifier переводит вероятность дефекта от внешней модели в оценки.
type Classifier struct{}

// NewClassifier создаёт классификаторную стратегию.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Mode возвращает имя стратегии.
func (c *Classifier) Mode() Mode {
	return ModeClassifier
}

// Score применяет кусочно-линейное отображение вероятности в здоровье:
// p ≤ 0.5 даёт здоровье в [90,100], p > 0.5 — в [0,40). Асимметрия
// намеренная: здоровье проходного снимка численно не пересекается со
// здоровьем бракованного даже у границы.
func (c *Classifier) Score(in Input) (entity.ScoreResult, error) {
	if !in.HasProbability {
		return entity.ScoreResult{}, errors.New("classifier probability is required")
	}

	p := clamp01(in.Probability)
	var health float64
	if p <= 0.5 {
		health = 100 - p*20
	} else {
		health = (1 - p) * 80
	}

	return entity.ScoreResult{
		DefectScore: p,
		HealthScore: clamp(health, 0, 100),
	}, nil
}

var _ Strategy = (*Classifier)(nil)
