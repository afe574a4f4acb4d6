package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

// Explanation — двуязычный текст пояснения вердикта для отчёта.
type Explanation struct {
	Japanese string `json:"japanese"`
	English  string `json:"english"`
}

// Тексты подбираются по ключу пояснения; ядро свободным текстом не оперирует.
var explanations = map[entity.ExplanationKey]Explanation{
	entity.ExplanationSurfaceClean: {
		Japanese: "表面に重大な欠陥は確認されておらず、基準内の状態であると判断されました。",
		English:  "No significant surface defects were detected.",
	},
	entity.ExplanationDefectsFound: {
		Japanese: "許容基準を超える欠陥傾向が検出されました。品質基準を満たしていません。",
		English:  "Defect patterns exceed acceptable limits.",
	},
	entity.ExplanationSurfaceUnclear: {
		Japanese: "画像状態が不明瞭なため、再撮影または担当者確認を推奨します。",
		English:  "Image clarity insufficient. Retake recommended.",
	},
	entity.ExplanationNotInspectable: {
		Japanese: "産業用金属表面の検査可能な画像ではありません。",
		English:  "Image does not resemble an inspectable industrial metal surface.",
	},
}

var statusLocal = map[entity.Status]string{
	entity.StatusPass:         "合格",
	entity.StatusFail:         "不合格",
	entity.StatusUncertain:    "判定保留",
	entity.StatusInvalidInput: "無効",
}

// Report — канонический JSON-отчёт об инспекции.
type Report struct {
	ID              string      `json:"inspection_id"`
	CreatedAt       string      `json:"inspection_datetime"`
	Inspector       string      `json:"inspector"`
	Batch           string      `json:"batch_id"`
	Status          string      `json:"status"`
	StatusLocal     string      `json:"status_local"`
	HealthScore     float64     `json:"health_score"`
	GatekeeperScore float64     `json:"surface_validation_score"`
	HasGatekeeper   bool        `json:"surface_validation_used"`
	DefectScore     float64     `json:"defect_risk_indicator"`
	DefectCount     int         `json:"number_of_defects"`
	Explanation     Explanation `json:"explanation"`
	SystemName      string      `json:"system_name"`
	ReportVersion   string      `json:"report_version"`
}

// Build собирает структуру отчёта без сохранения.
func Build(verdict *entity.Verdict, rec *entity.InspectionRecord) *Report {
	return &Report{
		ID:              rec.ID,
		CreatedAt:       rec.CreatedAt.UTC().Format(time.RFC3339),
		Inspector:       rec.Inspector,
		Batch:           rec.Batch,
		Status:          string(verdict.Status),
		StatusLocal:     statusLocal[verdict.Status],
		HealthScore:     verdict.Scores.HealthScore,
		GatekeeperScore: verdict.Scores.GatekeeperScore,
		HasGatekeeper:   verdict.Scores.HasGatekeeper,
		DefectScore:     verdict.Scores.DefectScore,
		DefectCount:     rec.DefectCount,
		Explanation:     explanations[verdict.Explanation],
		SystemName:      "Surface Inspector",
		ReportVersion:   "1.0",
	}
}

// Service строит отчёты и сохраняет их в хранилище.
type Service struct {
	store port.ReportStore
}

// NewService создаёт сервис отчётов.
func NewService(store port.ReportStore) *Service {
	return &Service{store: store}
}

// Generate строит отчёт и сохраняет его под идентификатором записи журнала.
func (s *Service) Generate(ctx context.Context, verdict *entity.Verdict, rec *entity.InspectionRecord) error {
	data, err := json.MarshalIndent(Build(verdict, rec), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return s.store.Save(ctx, rec.ID, data)
}

// Load возвращает ранее сохранённый отчёт.
func (s *Service) Load(ctx context.Context, id string) (*Report, error) {
	data, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	var rep Report
	if err := json.Unmarshal(data, &rep); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	return &rep, nil
}
