//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"surface-inspector/internal/domain/entity"
)

// GoCVExtractor — вариант экстрактора поверх OpenCV. Семантика этапов
// совпадает с чистой Go-реализацией, числовые значения могут отличаться
// в младших разрядах.
type GoCVExtractor struct {
	cfg ExtractorConfig
}

// NewGoCVExtractor создаёт экстрактор поверх OpenCV.
func NewGoCVExtractor(cfg ExtractorConfig) *GoCVExtractor {
	if cfg.BlurKernel < 3 {
		cfg.BlurKernel = 5
	}
	if cfg.BlurKernel%2 == 0 {
		cfg.BlurKernel++
	}
	if cfg.CLAHETiles <= 0 {
		cfg.CLAHETiles = 8
	}
	if cfg.CLAHEClipLimit <= 0 {
		cfg.CLAHEClipLimit = 2.0
	}
	return &GoCVExtractor{cfg: cfg}
}

// Extract строит карту признаков и маску краёв средствами OpenCV.
func (e *GoCVExtractor) Extract(grid *entity.PixelGrid) (*FeatureMap, *BinaryMask, error) {
	if err := grid.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFeatureExtraction, err)
	}

	var gray gocv.Mat
	if grid.Channels == 3 {
		src, err := gocv.NewMatFromBytes(grid.Height, grid.Width, gocv.MatTypeCV8UC3, grid.Pix)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrFeatureExtraction, err)
		}
		defer src.Close()
		gray = gocv.NewMat()
		gocv.CvtColor(src, &gray, gocv.ColorRGBToGray)
	} else {
		var err error
		gray, err = gocv.NewMatFromBytes(grid.Height, grid.Width, gocv.MatTypeCV8UC1, grid.Pix)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrFeatureExtraction, err)
		}
	}
	defer gray.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := e.cfg.BlurKernel
	gocv.GaussianBlur(gray, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)

	if e.cfg.CLAHE {
		clahe := gocv.NewCLAHEWithParams(e.cfg.CLAHEClipLimit, image.Pt(e.cfg.CLAHETiles, e.cfg.CLAHETiles))
		defer clahe.Close()
		equalized := gocv.NewMat()
		clahe.Apply(blurred, &equalized)
		blurred.Close()
		blurred = equalized
	}

	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(blurred, &gx, gocv.MatTypeCV64F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(blurred, &gy, gocv.MatTypeCV64F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	mag := gocv.NewMat()
	defer mag.Close()
	gocv.Magnitude(gx, gy, &mag)

	_, maxMag, _, _ := gocv.MinMaxIdx(mag)
	if maxMag <= 0 {
		return nil, nil, fmt.Errorf("%w: zero gradient magnitude", ErrFeatureExtraction)
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	mag.ConvertToWithParams(&scaled, gocv.MatTypeCV8U, float32(255.0/maxMag), 0)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(scaled, &binary, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(binary, &closed, gocv.MorphClose, kernel)

	w, h := grid.Width, grid.Height
	feature := &FeatureMap{Width: w, Height: h, Pix: make([]uint8, w*h)}
	copy(feature.Pix, scaled.ToBytes())

	mask := &BinaryMask{Width: w, Height: h, Bits: make([]uint8, w*h)}
	for i, v := range closed.ToBytes() {
		if v != 0 {
			mask.Bits[i] = 1
		}
	}

	return feature, mask, nil
}
