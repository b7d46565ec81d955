package geo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"
)

// Точности 5 хватает для группировки объектов по районам (~5 км на ячейку)
const geohashPrecision = 5

// Coordinate - валидная географическая точка (WGS 84).
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geohash возвращает geohash-ячейку точки.
func (c Coordinate) Geohash() string {
	return geohash.Encode(c.Lat, c.Lng)[:geohashPrecision]
}

// Validate приводит пару значений неизвестного типа к координате и проверяет
// ее. Широта должна лежать в [-90, 90], долгота в [-180, 180], и ни одна не
// может быть ровно 0: в хранилище 0 означает "координата не задана",
// а не точку на экваторе. Функция чистая, ошибок не возвращает - только
// признак валидности.
func Validate(lat, lng any) (Coordinate, bool) {
	latVal, ok := toFloat(lat)
	if !ok {
		return Coordinate{}, false
	}
	lngVal, ok := toFloat(lng)
	if !ok {
		return Coordinate{}, false
	}

	if latVal == 0 || lngVal == 0 {
		return Coordinate{}, false
	}
	if latVal < -90 || latVal > 90 || lngVal < -180 || lngVal > 180 {
		return Coordinate{}, false
	}

	return Coordinate{Lat: latVal, Lng: lngVal}, true
}

// toFloat - числовая коэрция для значений, пришедших из JSON-полей
// произвольной формы.
func toFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, false
		}
		return finite(f)
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
