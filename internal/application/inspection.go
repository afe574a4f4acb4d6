package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"surface-inspector/internal/decision"
	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
	"surface-inspector/internal/infrastructure/vision"
	"surface-inspector/internal/scoring"
)

// FeatureExtractor — этап построения карты признаков и маски краёв.
type FeatureExtractor interface {
	Extract(grid *entity.PixelGrid) (*vision.FeatureMap, *vision.BinaryMask, error)
}

// Reporter генерирует и сохраняет отчёт об инспекции.
type Reporter interface {
	Generate(ctx context.Context, verdict *entity.Verdict, rec *entity.InspectionRecord) error
}

// InspectionParams — зависимости сервиса инспекций. Привратник и журнал
// необязательны: их отсутствие — явное состояние, а не скрытый nil-узел
// внутри конвейера.
type InspectionParams struct {
	Decoder     *vision.Decoder
	Extractor   FeatureExtractor
	Analyzer    *vision.Analyzer
	Strategy    scoring.Strategy
	Policy      *decision.Policy
	Gatekeeper  port.Classifier // nil — привратник не настроен
	DefectModel port.Classifier // обязателен в классификаторном режиме
	Repo        port.InspectionRepository
	Reporter    Reporter
	Inspector   string
	Batch       string
}

// InspectionService управляет конвейером инспекции: декодирование,
// привратник, анализ дефектов, вердикт, журнал и отчёт.
type InspectionService struct {
	p InspectionParams
}

// InspectionOutput содержит вердикт, найденные области и картинку с подсветкой.
type InspectionOutput struct {
	Verdict      *entity.Verdict
	Regions      entity.RegionSet
	InspectionID string // пустой, если запись журнала не создавалась
	Highlighted  []byte // nil, если подсветка не строилась
}

// NewInspectionService создаёт сервис инспекций.
func NewInspectionService(p InspectionParams) (*InspectionService, error) {
	if p.Decoder == nil || p.Strategy == nil || p.Policy == nil {
		return nil, errors.New("decoder, strategy and policy are required")
	}
	if p.Strategy.Mode() == scoring.ModeClassifier {
		if p.DefectModel == nil {
			return nil, errors.New("defect classifier is required in classifier mode")
		}
	} else if p.Extractor == nil || p.Analyzer == nil {
		return nil, errors.New("extractor and analyzer are required in geometric mode")
	}
	return &InspectionService{p: p}, nil
}

// Inspect выполняет одну инспекцию и возвращает вердикт.
// Детерминирован: одинаковые байты с одинаковой конфигурацией дают
// одинаковый вердикт.
func (s *InspectionService) Inspect(ctx context.Context, imageData []byte) (*entity.Verdict, error) {
	out, err := s.run(ctx, imageData, false)
	if err != nil {
		return nil, err
	}
	return out.Verdict, nil
}

// ProcessPhoto запускает инспекцию и строит подсветку найденных областей.
func (s *InspectionService) ProcessPhoto(ctx context.Context, photo []byte) (*InspectionOutput, error) {
	return s.run(ctx, photo, true)
}

func (s *InspectionService) run(ctx context.Context, imageData []byte, highlight bool) (*InspectionOutput, error) {
	grid, err := s.p.Decoder.Decode(imageData)
	if err != nil {
		return nil, err
	}

	gk := decision.Gatekeeper{}
	if s.p.Gatekeeper != nil {
		prob, err := s.p.Gatekeeper.Probability(ctx, grid)
		if err != nil {
			return nil, fmt.Errorf("gatekeeper: %w", err)
		}
		gk = decision.Gatekeeper{Score: clamp01(prob), Present: true}

		// Полоса неопределённости и отбраковка входа решаются до анализа
		// дефектов: на неоднозначном снимке второй анализ не запускается.
		if _, done := s.p.Policy.Gate(gk); done {
			verdict := s.p.Policy.Decide(gk, entity.ScoreResult{}, 0, s.p.Strategy.Mode())
			return &InspectionOutput{Verdict: &verdict}, nil
		}
	}

	in := scoring.Input{ImageArea: grid.Area()}
	var regions entity.RegionSet

	if s.p.Strategy.Mode() == scoring.ModeClassifier {
		prob, err := s.p.DefectModel.Probability(ctx, grid)
		if err != nil {
			return nil, fmt.Errorf("defect classifier: %w", err)
		}
		in.Probability, in.HasProbability = prob, true
	} else {
		_, mask, err := s.p.Extractor.Extract(grid)
		if err != nil {
			return nil, err
		}
		regions = s.p.Analyzer.Analyze(mask)
		in.Regions = regions
		in.EdgePixels = mask.CountForeground()
	}

	scores, err := s.p.Strategy.Score(in)
	if err != nil {
		return nil, err
	}

	verdict := s.p.Policy.Decide(gk, scores, regions.Count(), s.p.Strategy.Mode())
	out := &InspectionOutput{Verdict: &verdict, Regions: regions}

	if highlight && verdict.Status == entity.StatusFail && regions.Count() > 0 {
		if data, err := vision.HighlightRegions(grid, regions); err == nil {
			out.Highlighted = data
		} else {
			log.Printf("Error highlighting regions: %v", err)
		}
	}

	s.persist(ctx, out)
	return out, nil
}

// persist сохраняет запись журнала и отчёт для вердиктов PASS/FAIL.
// Сбои внешних слоёв логируются, но вынесенный вердикт не отменяют.
func (s *InspectionService) persist(ctx context.Context, out *InspectionOutput) {
	v := out.Verdict
	if v.Status != entity.StatusPass && v.Status != entity.StatusFail {
		return
	}

	rec := &entity.InspectionRecord{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		Inspector:   s.p.Inspector,
		Batch:       s.p.Batch,
		Status:      v.Status,
		HealthScore: v.Scores.HealthScore,
		DefectCount: out.Regions.Count(),
	}
	out.InspectionID = rec.ID

	if s.p.Repo != nil {
		if err := s.p.Repo.Save(ctx, rec); err != nil {
			log.Printf("Error saving inspection record: %v", err)
		}
	}
	if s.p.Reporter != nil {
		if err := s.p.Reporter.Generate(ctx, v, rec); err != nil {
			log.Printf("Error generating report: %v", err)
		}
	}
	if v.Status == entity.StatusFail {
		// Оповещение о браке; пока только запись в журнал процесса.
		log.Printf("Inspection %s failed: health=%.2f defects=%d", rec.ID, rec.HealthScore, rec.DefectCount)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
