package usecase

import (
	"context"
	"testing"

	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/geo"
	"marketplace-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListingStorage struct {
	records []domain.RawRecord
}

func (f *fakeListingStorage) FindWithFilter(ctx context.Context, spec domain.FilterSpec) (*port.RawPage, error) {
	start := spec.Offset
	if start > len(f.records) {
		start = len(f.records)
	}
	end := len(f.records)
	if spec.Limit > 0 && start+spec.Limit < end {
		end = start + spec.Limit
	}
	return &port.RawPage{Records: f.records[start:end], TotalCount: len(f.records)}, nil
}

func (f *fakeListingStorage) GetByID(ctx context.Context, listingID int64) (*domain.RawRecord, error) {
	for _, r := range f.records {
		if r.ID == listingID {
			record := r
			return &record, nil
		}
	}
	return nil, nil
}

func (f *fakeListingStorage) Save(ctx context.Context, record domain.RawRecord) error {
	f.records = append(f.records, record)
	return nil
}

func TestFindListingsNormalizesRows(t *testing.T) {
	storage := &fakeListingStorage{records: []domain.RawRecord{
		{ID: 1, Price: "P 1,250,000", Images: `["a.jpg","b.jpg"]`, Latitude: "0", Longitude: "25.92"},
		{ID: 2, Price: float64(90000), Latitude: 53.9, Longitude: 27.5},
	}}
	uc := NewFindListingsUseCase(storage)

	result, err := uc.Execute(context.Background(), domain.FilterSpec{Limit: 20})
	require.NoError(t, err)
	require.Len(t, result.Listings, 2)
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 1, result.CurrentPage)

	first := result.Listings[0]
	assert.Equal(t, "listing:1", first.Ref)
	require.NotNil(t, first.Price)
	assert.Equal(t, 1250000.0, *first.Price)
	assert.Nil(t, first.Latitude, "нулевая широта-сентинел обнуляет пару")
	assert.Nil(t, first.Longitude)

	second := result.Listings[1]
	require.NotNil(t, second.Latitude)
	require.NotNil(t, second.Longitude)
}

func TestGetMapViewportSkipsInvalidPoints(t *testing.T) {
	storage := &fakeListingStorage{records: []domain.RawRecord{
		{ID: 1, Latitude: 53.0, Longitude: 27.0},
		{ID: 2, Latitude: 54.0, Longitude: 28.0},
		{ID: 3, Latitude: "0", Longitude: "0"},
		{ID: 4, Latitude: "garbage", Longitude: 27.0},
	}}
	fallback := geo.Coordinate{Lat: 53.9006, Lng: 27.559}
	uc := NewGetMapViewportUseCase(storage, fallback, 11)

	vp, err := uc.Execute(context.Background(), domain.FilterSpec{})
	require.NoError(t, err)
	assert.InDelta(t, 53.5, vp.Center.Lat, 1e-9)
	assert.InDelta(t, 27.5, vp.Center.Lng, 1e-9)
}

// Выборка больше одной страницы хранилища: точки со второй страницы
// обязаны участвовать в расчете центроида.
func TestGetMapViewportSpansMultiplePages(t *testing.T) {
	var records []domain.RawRecord
	for i := 0; i < 120; i++ {
		records = append(records, domain.RawRecord{ID: int64(i + 1), Latitude: 53.0, Longitude: 27.0})
	}
	for i := 0; i < 30; i++ {
		records = append(records, domain.RawRecord{ID: int64(i + 121), Latitude: 55.0, Longitude: 29.0})
	}
	storage := &fakeListingStorage{records: records}
	uc := NewGetMapViewportUseCase(storage, geo.Coordinate{Lat: 53.9006, Lng: 27.559}, 11)

	vp, err := uc.Execute(context.Background(), domain.FilterSpec{})
	require.NoError(t, err)

	// (53*120 + 55*30) / 150 = 53.4: дальний кластер со второй страницы
	// сместил центр
	assert.InDelta(t, 53.4, vp.Center.Lat, 1e-9)
	assert.InDelta(t, 27.4, vp.Center.Lng, 1e-9)
}

func TestGetMapViewportFallsBackWithoutPoints(t *testing.T) {
	storage := &fakeListingStorage{records: []domain.RawRecord{
		{ID: 1, Latitude: nil, Longitude: nil},
	}}
	fallback := geo.Coordinate{Lat: 53.9006, Lng: 27.559}
	uc := NewGetMapViewportUseCase(storage, fallback, 11)

	vp, err := uc.Execute(context.Background(), domain.FilterSpec{})
	require.NoError(t, err)
	assert.Equal(t, fallback, vp.Center)
	assert.Equal(t, 11, vp.Zoom)
}
