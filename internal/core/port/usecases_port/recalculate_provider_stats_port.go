package usecases_port

import (
	"context"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type RecalculateProviderStatsUseCase interface {
	Execute(ctx context.Context, providerID uuid.UUID) (*domain.AggregateStats, error)
}
