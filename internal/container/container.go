package container

import (
	"fmt"

	"surface-inspector/config"
	app "surface-inspector/internal/application"
	"surface-inspector/internal/decision"
	"surface-inspector/internal/domain/port"
	"surface-inspector/internal/infrastructure/classifier"
	"surface-inspector/internal/infrastructure/vision"
	"surface-inspector/internal/report"
	"surface-inspector/internal/scoring"
)

// Container собирает сервисы приложения из конфигурации и адаптеров хранения.
type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	ReportService     *report.Service
}

// New строит граф зависимостей. Журнал и хранилище отчётов необязательны.
func New(cfg *config.Config, userRepo port.UserRepository, inspectionRepo port.InspectionRepository, reportStore port.ReportStore) (*Container, error) {
	strategy, err := buildStrategy(cfg)
	if err != nil {
		return nil, err
	}

	extractorCfg := vision.ExtractorConfig{
		BlurKernel: cfg.BlurKernel,
		CLAHE:      cfg.UseCLAHE,
	}
	var extractor app.FeatureExtractor = vision.NewExtractor(extractorCfg)
	if cfg.UseGoCV {
		extractor = vision.NewGoCVExtractor(extractorCfg)
	}

	var gatekeeper, defectModel port.Classifier
	if cfg.GatekeeperURL != "" {
		gatekeeper = classifier.NewRemote(cfg.GatekeeperURL, cfg.ModelInputSize)
	}
	if cfg.ClassifierURL != "" {
		defectModel = classifier.NewRemote(cfg.ClassifierURL, cfg.ModelInputSize)
	}

	var reporter *report.Service
	if reportStore != nil {
		reporter = report.NewService(reportStore)
	}

	policy := decision.NewPolicy(decision.Config{
		UncertainLow:  cfg.UncertainLow,
		UncertainHigh: cfg.UncertainHigh,
		PassHealth:    cfg.PassHealth,
		MaxDefects:    cfg.MaxDefects,
	})

	params := app.InspectionParams{
		Decoder:     vision.NewDecoder(cfg.MaxSide),
		Extractor:   extractor,
		Analyzer:    vision.NewAnalyzer(cfg.MinArea),
		Strategy:    strategy,
		Policy:      policy,
		Gatekeeper:  gatekeeper,
		DefectModel: defectModel,
		Repo:        inspectionRepo,
		Inspector:   cfg.Inspector,
		Batch:       cfg.Batch,
	}
	if reporter != nil {
		params.Reporter = reporter
	}

	inspectionService, err := app.NewInspectionService(params)
	if err != nil {
		return nil, err
	}

	return &Container{
		UserService:       app.NewUserService(userRepo),
		InspectionService: inspectionService,
		ReportService:     reporter,
	}, nil
}

func buildStrategy(cfg *config.Config) (scoring.Strategy, error) {
	switch scoring.Mode(cfg.ScoringMode) {
	case scoring.ModeGeometric:
		return scoring.NewGeometric(scoring.GeometricConfig{
			MaxDefectFraction: cfg.MaxDefectFraction,
		}), nil
	case scoring.ModeEdgeRatio:
		return scoring.NewEdgeRatio(scoring.EdgeRatioConfig{
			ImpactMultiplier: cfg.ImpactMultiplier,
			HealthFloor:      cfg.HealthFloor,
			HealthCeiling:    cfg.HealthCeiling,
		}), nil
	case scoring.ModeClassifier:
		return scoring.NewClassifier(), nil
	default:
		return nil, fmt.Errorf("unknown scoring mode %q", cfg.ScoringMode)
	}
}
