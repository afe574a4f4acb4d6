package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	app "surface-inspector/internal/application"
	"surface-inspector/internal/domain/port"
	"surface-inspector/internal/infrastructure/vision"
	"surface-inspector/internal/report"
)

// maxUploadBytes ограничивает размер принимаемого снимка.
const maxUploadBytes = 10 << 20

// Server — HTTP-интерфейс инспекции: приём снимков, журнал и отчёты.
type Server struct {
	inspections *app.InspectionService
	reports     *report.Service
	repo        port.InspectionRepository
	srv         *http.Server
}

// New создаёт HTTP-сервер на заданном адресе.
func New(addr string, inspections *app.InspectionService, reports *report.Service, repo port.InspectionRepository) *Server {
	s := &Server{
		inspections: inspections,
		reports:     reports,
		repo:        repo,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /inspections", s.handleInspections)
	mux.HandleFunc("GET /report/{id}", s.handleReport)
	mux.HandleFunc("GET /report/{id}/pdf", s.handleReportPDF)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler возвращает корневой обработчик; используется в тестах.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Run запускает сервер и блокируется до его остановки.
func (s *Server) Run() error {
	log.Printf("HTTP server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// predictResponse — ответ на POST /predict.
type predictResponse struct {
	Status               string  `json:"status"`
	HealthScore          float64 `json:"health_score"`
	MetalValidationScore float64 `json:"metal_validation_score"`
	DefectScore          float64 `json:"defect_score"`
	Explanation          string  `json:"explanation"`
	InspectionID         string  `json:"inspection_id,omitempty"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	imageData, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.inspections.ProcessPhoto(r.Context(), imageData)
	if err != nil {
		switch {
		case errors.Is(err, vision.ErrDecode):
			writeError(w, http.StatusBadRequest, "image could not be decoded")
		case errors.Is(err, vision.ErrFeatureExtraction):
			writeError(w, http.StatusUnprocessableEntity, "image could not be analyzed")
		case errors.Is(err, port.ErrClassifier):
			writeError(w, http.StatusBadGateway, "model backend unavailable")
		default:
			log.Printf("Error processing inspection: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	v := out.Verdict
	writeJSON(w, http.StatusOK, predictResponse{
		Status:               string(v.Status),
		HealthScore:          v.Scores.HealthScore,
		MetalValidationScore: v.Scores.GatekeeperScore,
		DefectScore:          v.Scores.DefectScore,
		Explanation:          string(v.Explanation),
		InspectionID:         out.InspectionID,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInspections(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		writeError(w, http.StatusNotFound, "inspection log is not configured")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be in 1..500")
			return
		}
		limit = n
	}

	recs, err := s.repo.List(r.Context(), limit)
	if err != nil {
		log.Printf("Error listing inspections: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items := make([]inspectionItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, inspectionItem{
			ID:          rec.ID,
			CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
			Inspector:   rec.Inspector,
			Batch:       rec.Batch,
			Status:      string(rec.Status),
			HealthScore: rec.HealthScore,
			DefectCount: rec.DefectCount,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

// inspectionItem — элемент ответа GET /inspections.
type inspectionItem struct {
	ID          string  `json:"inspection_id"`
	CreatedAt   string  `json:"created_at"`
	Inspector   string  `json:"inspector"`
	Batch       string  `json:"batch_id"`
	Status      string  `json:"status"`
	HealthScore float64 `json:"health_score"`
	DefectCount int     `json:"defect_count"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.loadReport(w, r)
	if !ok {
		return
	}

	data, err := report.PDF(rep)
	if err != nil {
		log.Printf("Error rendering PDF: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "inspection_"+rep.ID+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) loadReport(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	if s.reports == nil {
		writeError(w, http.StatusNotFound, "reports are not configured")
		return nil, false
	}

	id := r.PathValue("id")
	rep, err := s.reports.Load(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "report not found")
		return nil, false
	}
	return rep, true
}

// readUpload принимает снимок из multipart-поля file либо из тела запроса.
func readUpload(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, fmt.Errorf("parse form: %w", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("form field file is required")
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty request body")
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
