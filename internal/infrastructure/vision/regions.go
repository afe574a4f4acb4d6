package vision

import (
	"surface-inspector/internal/domain/entity"
)

// Analyzer извлекает связные области переднего плана из бинарной маски.
type Analyzer struct {
	MinArea float64 // области меньшей площади отбрасываются
}

// NewAnalyzer создаёт анализатор с минимальной площадью области.
func NewAnalyzer(minArea float64) *Analyzer {
	if minArea <= 0 {
		minArea = 10
	}
	return &Analyzer{MinArea: minArea}
}

// Analyze находит максимальные 8-связные компоненты в порядке обнаружения
// (построчный обход) и отбрасывает компоненты с площадью меньше MinArea.
// Пустая маска — корректный результат с нулём областей, не ошибка.
func (a *Analyzer) Analyze(mask *BinaryMask) entity.RegionSet {
	w, h := mask.Width, mask.Height
	visited := make([]bool, w*h)
	stack := make([]int, 0, 64)
	regions := entity.RegionSet{}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			start := y*w + x
			if mask.Bits[start] == 0 || visited[start] {
				continue
			}

			visited[start] = true
			stack = append(stack[:0], start)
			area := 0
			minX, minY, maxX, maxY := x, y, x, y

			for len(stack) > 0 {
				idx := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				area++

				cx, cy := idx%w, idx/w
				if cx < minX {
					minX = cx
				}
				if cx > maxX {
					maxX = cx
				}
				if cy < minY {
					minY = cy
				}
				if cy > maxY {
					maxY = cy
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := cx+dx, cy+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						n := ny*w + nx
						if mask.Bits[n] == 0 || visited[n] {
							continue
						}
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}

			if float64(area) < a.MinArea {
				continue
			}
			regions = append(regions, entity.Region{
				Area:   float64(area),
				X:      minX,
				Y:      minY,
				Width:  maxX - minX + 1,
				Height: maxY - minY + 1,
			})
		}
	}
	return regions
}
