package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"surface-inspector/internal/domain/port"
)

// FileReportStore хранит отчёты файлами в каталоге отчётов.
type FileReportStore struct {
	dir string
}

// NewFileReportStore создаёт хранилище, при необходимости создавая каталог.
func NewFileReportStore(dir string) (*FileReportStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	return &FileReportStore{dir: dir}, nil
}

// Save сохраняет сериализованный отчёт по идентификатору инспекции
func (s *FileReportStore) Save(ctx context.Context, id string, data []byte) error {
	path := filepath.Join(s.dir, id+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Load возвращает отчёт по идентификатору
func (s *FileReportStore) Load(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}
	return data, nil
}

// Проверка реализации интерфейса
var _ port.ReportStore = (*FileReportStore)(nil)
