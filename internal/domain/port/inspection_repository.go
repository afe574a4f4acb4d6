package port

import (
	"context"

	"surface-inspector/internal/domain/entity"
)

// InspectionRepository интерфейс журнала инспекций
type InspectionRepository interface {
	// Save сохраняет запись об инспекции
	Save(ctx context.Context, rec *entity.InspectionRecord) error

	// List возвращает последние записи журнала, новые первыми
	List(ctx context.Context, limit int) ([]*entity.InspectionRecord, error)
}
