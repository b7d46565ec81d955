package usecase

import (
	"context"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

type GetProviderUseCase struct {
	storage port.ProviderStoragePort
}

func NewGetProviderUseCase(storage port.ProviderStoragePort) *GetProviderUseCase {
	return &GetProviderUseCase{storage: storage}
}

func (uc *GetProviderUseCase) Execute(ctx context.Context, providerID uuid.UUID) (*domain.Provider, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetProvider",
		"provider_id": providerID.String(),
	})

	provider, err := uc.storage.GetByID(ctx, providerID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	return provider, nil
}
