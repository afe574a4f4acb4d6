package classifier

import (
	"context"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

// Static возвращает заранее заданную вероятность. Используется в тестах
// и в сценариях без внешней модели.
type Static struct {
	P   float64
	Err error
}

// Probability возвращает заданную вероятность или ошибку.
func (s *Static) Probability(ctx context.Context, grid *entity.PixelGrid) (float64, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.P, nil
}

// Проверка реализации интерфейса
var _ port.Classifier = (*Static)(nil)
