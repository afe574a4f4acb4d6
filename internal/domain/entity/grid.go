package entity

import "fmt"

// PixelGrid — нормализованная пиксельная сетка изображения.
// Сэмплы хранятся построчно, по Channels каналов на пиксель.
type PixelGrid struct {
	Width    int
	Height   int
	Channels int // 1 (градации серого) или 3 (RGB)
	Pix      []uint8
}

// Validate проверяет инварианты сетки: положительные размеры,
// допустимое число каналов и длину буфера.
func (g *PixelGrid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("invalid grid size %dx%d", g.Width, g.Height)
	}
	if g.Channels != 1 && g.Channels != 3 {
		return fmt.Errorf("invalid channel count %d", g.Channels)
	}
	if len(g.Pix) != g.Width*g.Height*g.Channels {
		return fmt.Errorf("pixel buffer length %d does not match %dx%dx%d",
			len(g.Pix), g.Width, g.Height, g.Channels)
	}
	return nil
}

// Area возвращает площадь изображения в пикселях.
func (g *PixelGrid) Area() int {
	return g.Width * g.Height
}

// At возвращает значение канала c пикселя (x, y).
func (g *PixelGrid) At(x, y, c int) uint8 {
	return g.Pix[(y*g.Width+x)*g.Channels+c]
}
