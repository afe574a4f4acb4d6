package vision

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"surface-inspector/internal/domain/entity"
)

// FeatureMap — карта величин градиента, растянутая в диапазон 0–255.
type FeatureMap struct {
	Width  int
	Height int
	Pix    []uint8
}

// BinaryMask — бинарная маска краёв со значениями {0,1}.
type BinaryMask struct {
	Width  int
	Height int
	Bits   []uint8
}

// CountForeground возвращает число пикселей переднего плана.
func (m *BinaryMask) CountForeground() int {
	n := 0
	for _, b := range m.Bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// ExtractorConfig — параметры извлечения признаков.
type ExtractorConfig struct {
	BlurKernel     int     // размер ядра сглаживания, нечётный (по умолчанию 5)
	CLAHE          bool    // локальная нормализация контраста перед градиентами
	CLAHETiles     int     // сетка плиток выравнивания (по умолчанию 8)
	CLAHEClipLimit float64 // предел отсечения гистограммы (по умолчанию 2.0)
}

// DefaultExtractorConfig возвращает параметры по умолчанию.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{BlurKernel: 5, CLAHETiles: 8, CLAHEClipLimit: 2.0}
}

// Extractor строит карту признаков и маску краёв из пиксельной сетки.
type Extractor struct {
	cfg ExtractorConfig
}

// NewExtractor создаёт экстрактор, нормализуя параметры.
func NewExtractor(cfg ExtractorConfig) *Extractor {
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
	return &Extractor{cfg: cfg}
}

// Extract прогоняет сетку через этапы конвейера: яркость, сглаживание,
// выравнивание контраста, градиенты, адаптивный порог и замыкание.
// Сглаживание всегда идёт до градиентов: в обратном порядке оно размыло бы
// настоящие края.
func (e *Extractor) Extract(grid *entity.PixelGrid) (*FeatureMap, *BinaryMask, error) {
	if err := grid.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFeatureExtraction, err)
	}
	w, h := grid.Width, grid.Height

	lum := luminance(grid)
	if stat.Variance(lum, nil) == 0 {
		return nil, nil, fmt.Errorf("%w: uniform image, zero gradient", ErrFeatureExtraction)
	}

	smoothed := gaussianBlur(lum, w, h, e.cfg.BlurKernel)
	if e.cfg.CLAHE {
		smoothed = equalizeTiles(smoothed, w, h, e.cfg.CLAHETiles, e.cfg.CLAHEClipLimit)
	}

	mag := sobelMagnitude(smoothed, w, h)
	maxMag := floats.Max(mag)
	if maxMag <= 0 {
		return nil, nil, fmt.Errorf("%w: zero gradient magnitude", ErrFeatureExtraction)
	}

	// Растягиваем так, чтобы максимум стал 255: оценки всегда относительны
	// градиентной энергии самого снимка, а не абсолютной экспозиции.
	feature := &FeatureMap{Width: w, Height: h, Pix: make([]uint8, w*h)}
	scale := 255.0 / maxMag
	for i, v := range mag {
		feature.Pix[i] = uint8(v*scale + 0.5)
	}

	thr := otsuThreshold(feature.Pix)
	mask := &BinaryMask{Width: w, Height: h, Bits: make([]uint8, w*h)}
	for i, v := range feature.Pix {
		if int(v) > thr {
			mask.Bits[i] = 1
		}
	}

	// Одно замыкание 3×3 склеивает близкие фрагменты краёв в единые области.
	mask.Bits = erode3(dilate3(mask.Bits, w, h), w, h)

	return feature, mask, nil
}

// luminance переводит сетку в яркость по стандартным весам RGB.
func luminance(g *entity.PixelGrid) []float64 {
	out := make([]float64, g.Width*g.Height)
	if g.Channels == 1 {
		for i := range out {
			out[i] = float64(g.Pix[i])
		}
		return out
	}
	for i := range out {
		r := float64(g.Pix[i*3])
		gr := float64(g.Pix[i*3+1])
		b := float64(g.Pix[i*3+2])
		out[i] = 0.299*r + 0.587*gr + 0.114*b
	}
	return out
}

func gaussianKernel(size int) []float64 {
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2
	kern := make([]float64, size)
	sum := 0.0
	for i := range kern {
		d := float64(i - half)
		kern[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kern[i]
	}
	floats.Scale(1/sum, kern)
	return kern
}

// gaussianBlur применяет разделимый гауссов фильтр, края продлеваются
// крайним пикселем.
func gaussianBlur(src []float64, w, h, size int) []float64 {
	kern := gaussianKernel(size)
	half := size / 2

	tmp := make([]float64, len(src))
	for y := 0; y < h; y++ {
		row := y * w
		for x := 0; x < w; x++ {
			acc := 0.0
			for i, kv := range kern {
				acc += src[row+clampInt(x+i-half, 0, w-1)] * kv
			}
			tmp[row+x] = acc
		}
	}

	dst := make([]float64, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			acc := 0.0
			for i, kv := range kern {
				acc += tmp[clampInt(y+i-half, 0, h-1)*w+x] * kv
			}
			dst[y*w+x] = acc
		}
	}
	return dst
}

// equalizeTiles выравнивает контраст по плиткам с отсечением гистограммы
// и билинейным смешиванием таблиц соседних плиток.
func equalizeTiles(src []float64, w, h, tiles int, clipLimit float64) []float64 {
	tilesX := minInt(tiles, w)
	tilesY := minInt(tiles, h)
	tileW := (w + tilesX - 1) / tilesX
	tileH := (h + tilesY - 1) / tilesY

	luts := make([][]float64, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x0, x1 := tx*tileW, minInt((tx+1)*tileW, w)
			y0, y1 := ty*tileH, minInt((ty+1)*tileH, h)

			var hist [256]float64
			area := float64((x1 - x0) * (y1 - y0))
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					hist[clampInt(int(src[y*w+x]+0.5), 0, 255)]++
				}
			}

			// Отсечение гистограммы с равномерным перераспределением излишка.
			limit := math.Max(1, clipLimit*area/256.0)
			excess := 0.0
			for i := range hist {
				if hist[i] > limit {
					excess += hist[i] - limit
					hist[i] = limit
				}
			}
			bonus := excess / 256.0

			lut := make([]float64, 256)
			cum := 0.0
			for i := range hist {
				cum += hist[i] + bonus
				lut[i] = cum * 255.0 / area
			}
			luts[ty*tilesX+tx] = lut
		}
	}

	dst := make([]float64, len(src))
	for y := 0; y < h; y++ {
		fy := (float64(y)+0.5)/float64(tileH) - 0.5
		ty0 := int(math.Floor(fy))
		wy := fy - float64(ty0)
		ty1 := clampInt(ty0+1, 0, tilesY-1)
		ty0 = clampInt(ty0, 0, tilesY-1)

		for x := 0; x < w; x++ {
			fx := (float64(x)+0.5)/float64(tileW) - 0.5
			tx0 := int(math.Floor(fx))
			wx := fx - float64(tx0)
			tx1 := clampInt(tx0+1, 0, tilesX-1)
			tx0 = clampInt(tx0, 0, tilesX-1)

			v := clampInt(int(src[y*w+x]+0.5), 0, 255)
			top := luts[ty0*tilesX+tx0][v]*(1-wx) + luts[ty0*tilesX+tx1][v]*wx
			bottom := luts[ty1*tilesX+tx0][v]*(1-wx) + luts[ty1*tilesX+tx1][v]*wx
			dst[y*w+x] = top*(1-wy) + bottom*wy
		}
	}
	return dst
}

// sobelMagnitude считает горизонтальную и вертикальную производные Собеля
// и объединяет их евклидовой нормой.
func sobelMagnitude(src []float64, w, h int) []float64 {
	at := func(x, y int) float64 {
		return src[clampInt(y, 0, h-1)*w+clampInt(x, 0, w-1)]
	}
	mag := make([]float64, len(src))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) +
				-2*at(x-1, y) + 2*at(x+1, y) +
				-at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			mag[y*w+x] = math.Hypot(gx, gy)
		}
	}
	return mag
}

// otsuThreshold подбирает порог, максимизирующий межклассовую дисперсию.
func otsuThreshold(pix []uint8) int {
	var hist [256]float64
	for _, v := range pix {
		hist[v]++
	}
	total := float64(len(pix))

	sum := 0.0
	for i, c := range hist {
		sum += float64(i) * c
	}

	best, bestVar := 0, -1.0
	sumB, wB := 0.0, 0.0
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * hist[t]
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return best
}

func dilate3(bits []uint8, w, h int) []uint8 {
	out := make([]uint8, len(bits))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v uint8
			for dy := -1; dy <= 1 && v == 0; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if bits[ny*w+nx] != 0 {
						v = 1
						break
					}
				}
			}
			out[y*w+x] = v
		}
	}
	return out
}

func erode3(bits []uint8, w, h int) []uint8 {
	out := make([]uint8, len(bits))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(1)
			for dy := -1; dy <= 1 && v == 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					if bits[ny*w+nx] == 0 {
						v = 0
						break
					}
				}
			}
			out[y*w+x] = v
		}
	}
	return out
}
