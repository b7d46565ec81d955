package usecases_port

import (
	"context"

	"marketplace-service/internal/core/domain"
)

type FindProvidersUseCase interface {
	Execute(ctx context.Context, spec domain.FilterSpec) (*domain.PaginatedProviders, error)
}
