package geo

import "math"

const (
	// Запас по краям, чтобы крайние маркеры не прилипали к границе карты
	viewportPadding = 1.2

	minZoom         = 3
	maxZoom         = 16
	singlePointZoom = 15
)

// Viewport - центр и масштаб карты, охватывающие набор точек.
type Viewport struct {
	Center Coordinate `json:"center"`
	Zoom   int        `json:"zoom"`
}

// ComputeViewport считает центроид и зум, при котором все точки помещаются в
// кадр с запасом. Пустой набор точек - это не ошибка: возвращается
// региональный центр по умолчанию.
func ComputeViewport(points []Coordinate, fallbackCenter Coordinate, fallbackZoom int) Viewport {
	switch len(points) {
	case 0:
		return Viewport{Center: fallbackCenter, Zoom: fallbackZoom}
	case 1:
		return Viewport{Center: points[0], Zoom: singlePointZoom}
	}

	minLat, maxLat := points[0].Lat, points[0].Lat
	minLng, maxLng := points[0].Lng, points[0].Lng
	sumLat, sumLng := 0.0, 0.0

	for _, p := range points {
		minLat = math.Min(minLat, p.Lat)
		maxLat = math.Max(maxLat, p.Lat)
		minLng = math.Min(minLng, p.Lng)
		maxLng = math.Max(maxLng, p.Lng)
		sumLat += p.Lat
		sumLng += p.Lng
	}

	center := Coordinate{
		Lat: sumLat / float64(len(points)),
		Lng: sumLng / float64(len(points)),
	}

	// Карта квадратная в градусной сетке: берем наибольший размах
	span := math.Max(maxLat-minLat, maxLng-minLng) * viewportPadding
	if span <= 0 {
		// Все точки совпали
		return Viewport{Center: center, Zoom: singlePointZoom}
	}

	zoom := int(math.Floor(math.Log2(360 / span)))
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}

	return Viewport{Center: center, Zoom: zoom}
}
