package geo

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		lat   any
		lng   any
		want  Coordinate
		valid bool
	}{
		{
			name: "числовая пара",
			lat:  53.9006, lng: 27.559,
			want: Coordinate{Lat: 53.9006, Lng: 27.559}, valid: true,
		},
		{
			name: "строковая пара",
			lat:  "53.9006", lng: " 27.559 ",
			want: Coordinate{Lat: 53.9006, Lng: 27.559}, valid: true,
		},
		{
			name: "json.Number",
			lat:  json.Number("52.1"), lng: json.Number("23.7"),
			want: Coordinate{Lat: 52.1, Lng: 23.7}, valid: true,
		},
		{
			name: "целые типы",
			lat:  int64(53), lng: 27,
			want: Coordinate{Lat: 53, Lng: 27}, valid: true,
		},
		{name: "нулевая широта - сентинел", lat: "0", lng: "25.92"},
		{name: "нулевая долгота - сентинел", lat: 53.9, lng: 0.0},
		{name: "широта за пределами диапазона", lat: 91.0, lng: 27.5},
		{name: "долгота за пределами диапазона", lat: 53.9, lng: -180.5},
		{name: "нечисловая строка", lat: "abc", lng: "27.5"},
		{name: "пустая строка", lat: "", lng: "27.5"},
		{name: "nil значения", lat: nil, lng: nil},
		{name: "NaN", lat: math.NaN(), lng: 27.5},
		{name: "бесконечность", lat: 53.9, lng: math.Inf(1)},
		{name: "неподдерживаемый тип", lat: []string{"53.9"}, lng: 27.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, valid := Validate(tt.lat, tt.lng)
			assert.Equal(t, tt.valid, valid)
			if tt.valid {
				assert.InDelta(t, tt.want.Lat, got.Lat, 1e-9)
				assert.InDelta(t, tt.want.Lng, got.Lng, 1e-9)
			}
		})
	}
}

func TestCoordinateGeohash(t *testing.T) {
	c := Coordinate{Lat: 53.9006, Lng: 27.559}
	hash := c.Geohash()
	require.Len(t, hash, 5)
	// Минск попадает в ячейку u9ed...
	assert.Equal(t, "u9ede", hash)
}

func TestComputeViewport(t *testing.T) {
	fallback := Coordinate{Lat: 53.9006, Lng: 27.559}

	t.Run("без точек - региональный центр по умолчанию", func(t *testing.T) {
		vp := ComputeViewport(nil, fallback, 11)
		assert.Equal(t, fallback, vp.Center)
		assert.Equal(t, 11, vp.Zoom)
	})

	t.Run("одна точка", func(t *testing.T) {
		p := Coordinate{Lat: 52.1, Lng: 23.7}
		vp := ComputeViewport([]Coordinate{p}, fallback, 11)
		assert.Equal(t, p, vp.Center)
		assert.Equal(t, singlePointZoom, vp.Zoom)
	})

	t.Run("центроид и охват всех точек", func(t *testing.T) {
		points := []Coordinate{
			{Lat: 53.0, Lng: 27.0},
			{Lat: 54.0, Lng: 28.0},
		}
		vp := ComputeViewport(points, fallback, 11)
		assert.InDelta(t, 53.5, vp.Center.Lat, 1e-9)
		assert.InDelta(t, 27.5, vp.Center.Lng, 1e-9)

		// Размах 1 градус с запасом 1.2: floor(log2(360/1.2)) = 8
		assert.Equal(t, 8, vp.Zoom)
	})

	t.Run("совпадающие точки", func(t *testing.T) {
		p := Coordinate{Lat: 53.9, Lng: 27.5}
		vp := ComputeViewport([]Coordinate{p, p, p}, fallback, 11)
		assert.Equal(t, p, vp.Center)
		assert.Equal(t, singlePointZoom, vp.Zoom)
	})

	t.Run("зум не выходит за границы", func(t *testing.T) {
		points := []Coordinate{
			{Lat: -60.0, Lng: -150.0},
			{Lat: 60.0, Lng: 150.0},
		}
		vp := ComputeViewport(points, fallback, 11)
		assert.GreaterOrEqual(t, vp.Zoom, minZoom)
		assert.LessOrEqual(t, vp.Zoom, maxZoom)
	})
}
