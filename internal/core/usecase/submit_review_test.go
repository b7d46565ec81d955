package usecase

import (
	"context"
	"testing"

	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProviderStorage хранит отзывы в памяти и пересчитывает агрегаты так же,
// как это делает postgres-адаптер.
type fakeProviderStorage struct {
	reviews    map[uuid.UUID][]domain.Review
	aggregates map[uuid.UUID]domain.AggregateStats
	failSave   error
}

func newFakeProviderStorage() *fakeProviderStorage {
	return &fakeProviderStorage{
		reviews:    make(map[uuid.UUID][]domain.Review),
		aggregates: make(map[uuid.UUID]domain.AggregateStats),
	}
}

func (f *fakeProviderStorage) FindWithFilter(ctx context.Context, spec domain.FilterSpec) (*port.ProviderPage, error) {
	return &port.ProviderPage{Providers: []domain.Provider{}}, nil
}

func (f *fakeProviderStorage) GetByID(ctx context.Context, providerID uuid.UUID) (*domain.Provider, error) {
	return nil, nil
}

func (f *fakeProviderStorage) ListReviews(ctx context.Context, providerID uuid.UUID) ([]domain.Review, error) {
	return f.reviews[providerID], nil
}

func (f *fakeProviderStorage) SaveReviewAndRecalculate(ctx context.Context, review domain.Review) (*domain.AggregateStats, error) {
	if f.failSave != nil {
		return nil, f.failSave
	}
	f.reviews[review.ProviderID] = append(f.reviews[review.ProviderID], review)
	stats := domain.ComputeAggregateStats(f.reviews[review.ProviderID])
	f.aggregates[review.ProviderID] = stats
	return &stats, nil
}

func (f *fakeProviderStorage) UpdateAggregates(ctx context.Context, providerID uuid.UUID, stats domain.AggregateStats) error {
	f.aggregates[providerID] = stats
	return nil
}

type fakePublisher struct {
	published int
}

func (f *fakePublisher) PublishReviewCreated(ctx context.Context, review domain.Review, stats domain.AggregateStats) error {
	f.published++
	return nil
}

func TestSubmitReviewRecalculatesAggregates(t *testing.T) {
	storage := newFakeProviderStorage()
	publisher := &fakePublisher{}
	uc := NewSubmitReviewUseCase(storage, publisher, nil)

	providerID := uuid.New()
	for _, rating := range []int{5, 4, 5} {
		_, err := uc.Execute(context.Background(), usecases_port.SubmitReviewInput{
			ProviderID: providerID,
			AuthorID:   uuid.New(),
			Rating:     rating,
		})
		require.NoError(t, err)
	}

	stats := storage.aggregates[providerID]
	assert.Equal(t, 3, stats.ReviewCount)
	assert.Equal(t, 4.7, stats.Rating)
	assert.Equal(t, 3, publisher.published)
}

func TestSubmitReviewRejectsOutOfRangeRating(t *testing.T) {
	storage := newFakeProviderStorage()
	uc := NewSubmitReviewUseCase(storage, nil, nil)

	for _, rating := range []int{0, 6, -1} {
		_, err := uc.Execute(context.Background(), usecases_port.SubmitReviewInput{
			ProviderID: uuid.New(),
			Rating:     rating,
		})
		assert.Error(t, err)
	}
	assert.Empty(t, storage.reviews)
}

func TestRecalculateProviderStatsEmptyProvider(t *testing.T) {
	storage := newFakeProviderStorage()
	uc := NewRecalculateProviderStatsUseCase(storage)

	providerID := uuid.New()
	stats, err := uc.Execute(context.Background(), providerID)
	require.NoError(t, err)

	// Без отзывов рейтинг равен нулю, не NaN и не null
	assert.Equal(t, 0, stats.ReviewCount)
	assert.Equal(t, 0.0, stats.Rating)
	assert.Equal(t, *stats, storage.aggregates[providerID])
}
