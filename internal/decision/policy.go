package decision

import (
	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/scoring"
)

// Gatekeeper — оценка модели-привратника. Present=false означает, что
// привратник не настроен, а не нулевую оценку.
type Gatekeeper struct {
	Score   float64
	Present bool
}

// Config — пороги политики принятия решений.
type Config struct {
	UncertainLow  float64 // нижняя граница полосы неопределённости (по умолчанию 0.45)
	UncertainHigh float64 // верхняя граница полосы неопределённости (по умолчанию 0.55)
	PassHealth    float64 // порог здоровья для геометрического режима (по умолчанию 90)
	MaxDefects    int     // допустимое число дефектов (по умолчанию 5)
}

// DefaultConfig возвращает пороги по умолчанию.
func DefaultConfig() Config {
	return Config{
		UncertainLow:  0.45,
		UncertainHigh: 0.55,
		PassHealth:    90,
		MaxDefects:    5,
	}
}

// Policy выносит один вердикт на инспекцию из четырёх терминальных
// статусов, промежуточных состояний нет.
type Policy struct {
	cfg Config
}

// NewPolicy создаёт политику с заданными порогами.
func NewPolicy(cfg Config) *Policy {
	if cfg.UncertainHigh < cfg.UncertainLow {
		cfg.UncertainLow, cfg.UncertainHigh = cfg.UncertainHigh, cfg.UncertainLow
	}
	return &Policy{cfg: cfg}
}

// Gate проверяет привратника до анализа дефектов. Возвращает статус и true,
// если инспекция завершается досрочно: оценка в полосе [UncertainLow,
// UncertainHigh] включительно даёт UNCERTAIN (второй, более дорогой анализ
// на неоднозначном снимке не запускается), оценка ниже полосы — INVALID_INPUT.
func (p *Policy) Gate(gk Gatekeeper) (entity.Status, bool) {
	if !gk.Present {
		return "", false
	}
	if gk.Score >= p.cfg.UncertainLow && gk.Score <= p.cfg.UncertainHigh {
		return entity.StatusUncertain, true
	}
	if gk.Score < p.cfg.UncertainLow {
		return entity.StatusInvalidInput, true
	}
	return "", false
}

// Decide выносит вердикт по оценкам. В геометрическом режиме FAIL требует
// одновременно здоровья ниже порога И числа дефектов выше допустимого:
// асимметричные сочетания разрешаются в пользу PASS. В классификаторном
// режиме FAIL — это просто оценка дефекта строго выше 0.5.
func (p *Policy) Decide(gk Gatekeeper, scores entity.ScoreResult, defectCount int, mode scoring.Mode) entity.Verdict {
	if status, done := p.Gate(gk); done {
		return gateVerdict(status, gk)
	}

	scores.GatekeeperScore = gk.Score
	scores.HasGatekeeper = gk.Present

	var failed bool
	if mode == scoring.ModeClassifier {
		failed = scores.DefectScore > 0.5
	} else {
		failed = scores.HealthScore < p.cfg.PassHealth && defectCount > p.cfg.MaxDefects
	}

	if failed {
		return entity.Verdict{
			Status:      entity.StatusFail,
			Explanation: entity.ExplanationDefectsFound,
			Scores:      scores,
		}
	}
	return entity.Verdict{
		Status:      entity.StatusPass,
		Explanation: entity.ExplanationSurfaceClean,
		Scores:      scores,
	}
}

// gateVerdict строит досрочный вердикт привратника: оценки дефектов
// не считались и остаются нулевыми.
func gateVerdict(status entity.Status, gk Gatekeeper) entity.Verdict {
	explanation := entity.ExplanationSurfaceUnclear
	if status == entity.StatusInvalidInput {
		explanation = entity.ExplanationNotInspectable
	}
	return entity.Verdict{
		Status:      status,
		Explanation: explanation,
		Scores: entity.ScoreResult{
			GatekeeperScore: gk.Score,
			HasGatekeeper:   gk.Present,
		},
	}
}
