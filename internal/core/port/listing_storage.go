package port

import (
	"context"

	"marketplace-service/internal/core/domain"
)

// RawPage - страница сырых записей плюс общее число совпадений.
type RawPage struct {
	Records    []domain.RawRecord
	TotalCount int
}

// ListingStoragePort - контракт хранилища объявлений. Хранилище принимает
// список предикатов, один ключ сортировки и пагинацию и возвращает сырые
// строки в запрошенном порядке; нормализация - не его забота.
type ListingStoragePort interface {
	FindWithFilter(ctx context.Context, spec domain.FilterSpec) (*RawPage, error)
	GetByID(ctx context.Context, listingID int64) (*domain.RawRecord, error)
	Save(ctx context.Context, record domain.RawRecord) error
}
