package usecases_port

import (
	"context"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetProviderUseCase interface {
	Execute(ctx context.Context, providerID uuid.UUID) (*domain.Provider, error)
}
