package scoring

import (
	"surface-inspector/internal/domain/entity"
)

// Mode — имя стратегии оценки.
type Mode string

const (
	ModeGeometric  Mode = "geometric"  // по площади областей-дефектов
	ModeEdgeRatio  Mode = "edge_ratio" // по доле краевых пикселей
	ModeClassifier Mode = "classifier" // по вероятности внешней модели
)

// Input — исходные данные одной инспекции для стратегии оценки.
// Каждая стратегия берёт из него только своё.
type Input struct {
	Regions        entity.RegionSet // значимые области
	ImageArea      int              // площадь изображения в пикселях
	EdgePixels     int              // пиксели переднего плана маски краёв
	Probability    float64          // вероятность дефекта от внешней модели
	HasProbability bool
}

// Strategy превращает исходные данные анализа в нормализованные оценки.
// Все поля результата зажимаются в свои диапазоны безусловно, даже если
// уже в диапазоне: за пределы движка неограниченные значения не выходят.
type Strategy interface {
	Score(in Input) (entity.ScoreResult, error)
	Mode() Mode
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
