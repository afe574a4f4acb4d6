package port

import "context"

// ReportStore интерфейс хранилища отчётов об инспекциях
type ReportStore interface {
	// Save сохраняет сериализованный отчёт по идентификатору инспекции
	Save(ctx context.Context, id string, data []byte) error

	// Load возвращает отчёт по идентификатору; ошибка, если отчёта нет
	Load(ctx context.Context, id string) ([]byte, error)
}
