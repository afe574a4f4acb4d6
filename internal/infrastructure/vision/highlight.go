package vision

import (
	"bytes"
	"image/color"
	"image/jpeg"

	"surface-inspector/internal/domain/entity"
)

// HighlightRegions рисует рамки вокруг областей и возвращает JPEG.
func HighlightRegions(grid *entity.PixelGrid, regions entity.RegionSet) ([]byte, error) {
	img := ToImage(grid)

	green := color.RGBA{G: 255, A: 255}
	for _, r := range regions {
		drawRect(img.Pix, img.Stride, grid.Width, grid.Height, r, green, 2)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawRect(pix []uint8, stride, w, h int, r entity.Region, c color.RGBA, thickness int) {
	set := func(x, y int) {
		if x < 0 || y < 0 || x >= w || y >= h {
			return
		}
		i := y*stride + x*4
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	for t := 0; t < thickness; t++ {
		x0, y0 := r.X-t, r.Y-t
		x1, y1 := r.X+r.Width-1+t, r.Y+r.Height-1+t
		for x := x0; x <= x1; x++ {
			set(x, y0)
			set(x, y1)
		}
		for y := y0; y <= y1; y++ {
			set(x0, y)
			set(x1, y)
		}
	}
}
