package vision

import "errors"

// Типизированные отказы конвейера. Проверяются через errors.Is.
var (
	// ErrDecode — байты не разбираются как поддерживаемый растровый формат
	// либо дают изображение нулевой площади.
	ErrDecode = errors.New("decode image")

	// ErrFeatureExtraction — вырожденное изображение (однотонная заливка,
	// нулевой максимум градиента), карта признаков не строится.
	ErrFeatureExtraction = errors.New("feature extraction")
)
