package usecases_port

import (
	"context"

	"marketplace-service/internal/core/domain"
)

type FindListingsUseCase interface {
	Execute(ctx context.Context, spec domain.FilterSpec) (*domain.PaginatedListings, error)
}
