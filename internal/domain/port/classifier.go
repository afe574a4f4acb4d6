package port

import (
	"context"
	"errors"

	"surface-inspector/internal/domain/entity"
)

// ErrClassifier — отказ внешнего классификатора. Пробрасывается вызывающему
// как есть: подмена оценки значением по умолчанию исказила бы вердикт.
var ErrClassifier = errors.New("classifier failure")

// Classifier интерфейс внешней модели-классификатора
type Classifier interface {
	// Probability возвращает вероятность в [0,1] для подготовленного изображения
	Probability(ctx context.Context, grid *entity.PixelGrid) (float64, error)
}
