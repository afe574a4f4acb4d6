package entity

// Region — связная область переднего плана в бинарной маске краёв,
// кандидат в физический дефект поверхности.
type Region struct {
	Area   float64 // площадь области в пикселях
	X      int     // координата X левого верхнего угла рамки
	Y      int     // координата Y левого верхнего угла рамки
	Width  int     // ширина рамки в пикселях
	Height int     // высота рамки в пикселях
}

// Center возвращает координаты центра области.
func (r Region) Center() (x, y int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// RegionSet — области, пережившие фильтр по минимальной площади,
// в порядке обнаружения.
type RegionSet []Region

// SignificantArea возвращает суммарную площадь значимых областей.
func (s RegionSet) SignificantArea() float64 {
	total := 0.0
	for _, r := range s {
		total += r.Area
	}
	return total
}

// Count возвращает число значимых областей.
func (s RegionSet) Count() int {
	return len(s)
}
