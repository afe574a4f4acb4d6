//go:build !gocv
// +build !gocv

package vision

import (
	"errors"

	"surface-inspector/internal/domain/entity"
)

// GoCVExtractor — заглушка при сборке без OpenCV.
type GoCVExtractor struct {
	cfg ExtractorConfig
}

// NewGoCVExtractor создаёт экстрактор-заглушку (без OpenCV).
func NewGoCVExtractor(cfg ExtractorConfig) *GoCVExtractor {
	return &GoCVExtractor{cfg: cfg}
}

// Extract возвращает ошибку, если сборка без тега gocv.
func (e *GoCVExtractor) Extract(grid *entity.PixelGrid) (*FeatureMap, *BinaryMask, error) {
	_ = grid
	return nil, nil, errors.New("gocv build tag is not enabled")
}
