package vision

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"surface-inspector/internal/domain/entity"
)

// Decoder превращает байты изображения в пиксельную сетку.
type Decoder struct {
	MaxSide int // изображения крупнее уменьшаются до этой стороны
}

// NewDecoder создаёт декодер с ограничением на размер стороны.
func NewDecoder(maxSide int) *Decoder {
	if maxSide <= 0 {
		maxSide = 1024
	}
	return &Decoder{MaxSide: maxSide}
}

// Decode разбирает JPEG/PNG/GIF и возвращает RGB-сетку.
// Детерминированен: одинаковые байты дают одинаковую сетку.
func (d *Decoder) Decode(imageData []byte) (*entity.PixelGrid, error) {
	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero-area image", ErrDecode)
	}

	// Приводим изображение к стандартному размеру для стабильных порогов.
	w, h := b.Dx(), b.Dy()
	if w > d.MaxSide || h > d.MaxSide {
		scale := float64(d.MaxSide) / float64(maxInt(w, h))
		w = maxInt(1, int(float64(w)*scale))
		h = maxInt(1, int(float64(h)*scale))
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, b, xdraw.Src, nil)

	return gridFromRGBA(rgba), nil
}

// Resize возвращает копию сетки, приведённую к размеру w×h.
func Resize(g *entity.PixelGrid, w, h int) *entity.PixelGrid {
	src := ToImage(g)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return gridFromRGBA(dst)
}

// ToImage переводит сетку в стандартное RGBA-изображение.
func ToImage(g *entity.PixelGrid) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, g.Width, g.Height))
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			i := rgba.PixOffset(x, y)
			if g.Channels == 1 {
				v := g.At(x, y, 0)
				rgba.Pix[i], rgba.Pix[i+1], rgba.Pix[i+2] = v, v, v
			} else {
				rgba.Pix[i] = g.At(x, y, 0)
				rgba.Pix[i+1] = g.At(x, y, 1)
				rgba.Pix[i+2] = g.At(x, y, 2)
			}
			rgba.Pix[i+3] = 0xff
		}
	}
	return rgba
}

func gridFromRGBA(rgba *image.RGBA) *entity.PixelGrid {
	w, h := rgba.Bounds().Dx(), rgba.Bounds().Dy()
	pix := make([]uint8, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := rgba.PixOffset(x, y)
			dst := (y*w + x) * 3
			pix[dst] = rgba.Pix[src]
			pix[dst+1] = rgba.Pix[src+1]
			pix[dst+2] = rgba.Pix[src+2]
		}
	}
	return &entity.PixelGrid{Width: w, Height: h, Channels: 3, Pix: pix}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
