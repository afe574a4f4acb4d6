package storage

import (
	"context"
	"sync"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

// MemoryInspectionRepository in-memory журнал инспекций для тестов и
// запуска без базы.
type MemoryInspectionRepository struct {
	mu      sync.RWMutex
	records []*entity.InspectionRecord
}

// NewMemoryInspectionRepository создаёт новый in-memory журнал
func NewMemoryInspectionRepository() *MemoryInspectionRepository {
	return &MemoryInspectionRepository{}
}

// Save сохраняет запись об инспекции
func (r *MemoryInspectionRepository) Save(ctx context.Context, rec *entity.InspectionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	saved := *rec
	r.records = append(r.records, &saved)
	return nil
}

// List возвращает последние записи, новые первыми
func (r *MemoryInspectionRepository) List(ctx context.Context, limit int) ([]*entity.InspectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.InspectionRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		rec := *r.records[i]
		out = append(out, &rec)
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.InspectionRepository = (*MemoryInspectionRepository)(nil)
