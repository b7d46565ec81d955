package port

import (
	"context"
	"errors"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

// ErrProviderNotFound возвращается хранилищем, когда операция адресована
// несуществующему поставщику. Транспорт отличает его от сбоев хранилища.
var ErrProviderNotFound = errors.New("provider not found")

// ProviderPage - страница каталога плюс общее число совпадений.
type ProviderPage struct {
	Providers  []domain.Provider
	TotalCount int
}

// ProviderStoragePort - контракт хранилища каталога услуг и отзывов.
type ProviderStoragePort interface {
	FindWithFilter(ctx context.Context, spec domain.FilterSpec) (*ProviderPage, error)
	GetByID(ctx context.Context, providerID uuid.UUID) (*domain.Provider, error)

	ListReviews(ctx context.Context, providerID uuid.UUID) ([]domain.Review, error)

	// SaveReviewAndRecalculate сохраняет отзыв и в той же транзакции
	// пересчитывает агрегаты поставщика по полному набору его отзывов
	// (строка поставщика на время пересчета блокируется).
	SaveReviewAndRecalculate(ctx context.Context, review domain.Review) (*domain.AggregateStats, error)

	// UpdateAggregates пишет заново посчитанные агрегаты на строку поставщика.
	UpdateAggregates(ctx context.Context, providerID uuid.UUID, stats domain.AggregateStats) error
}
