package entity

// Status — итоговый статус инспекции.
type Status string

const (
	StatusPass         Status = "PASS"          // дефектов в пределах нормы
	StatusFail         Status = "FAIL"          // дефекты превышают допустимый предел
	StatusUncertain    Status = "UNCERTAIN"     // привратник не уверен, нужна пересъёмка
	StatusInvalidInput Status = "INVALID_INPUT" // снимок не похож на инспектируемую поверхность
)

// ExplanationKey — ключ пояснения вердикта. Текст по ключу подбирает
// внешний слой (отчёты, бот), ядро свободным текстом не оперирует.
type ExplanationKey string

const (
	ExplanationSurfaceClean   ExplanationKey = "surface_clean"
	ExplanationDefectsFound   ExplanationKey = "defects_over_limit"
	ExplanationSurfaceUnclear ExplanationKey = "surface_unclear"
	ExplanationNotInspectable ExplanationKey = "not_inspectable_surface"
)

// ScoreResult — нормализованные оценки одной инспекции.
// Все поля зажаты в свои диапазоны до выхода из движка оценок.
type ScoreResult struct {
	GatekeeperScore float64 // вероятность инспектируемой поверхности, [0,1]
	HasGatekeeper   bool    // false, если привратник не настроен
	DefectScore     float64 // нормализованная тяжесть дефектов, [0,1]
	HealthScore     float64 // оценка здоровья поверхности, [0,100]
}

// Verdict — вердикт одной инспекции. Создаётся один раз и далее не меняется.
type Verdict struct {
	Status      Status
	Explanation ExplanationKey
	Scores      ScoreResult
}
