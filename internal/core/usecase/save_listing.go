package usecase

import (
	"context"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

// SaveListingUseCase принимает записи объявлений из очереди парсеров и
// складывает их в хранилище как есть. Нормализация выполняется на чтении,
// поэтому сырая форма сохраняется без исправлений.
type SaveListingUseCase struct {
	storage port.ListingStoragePort
}

func NewSaveListingUseCase(storage port.ListingStoragePort) *SaveListingUseCase {
	return &SaveListingUseCase{storage: storage}
}

func (uc *SaveListingUseCase) Execute(ctx context.Context, record domain.RawRecord) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "SaveListing",
		"listing_id": record.ID,
	})

	if err := uc.storage.Save(ctx, record); err != nil {
		ucLogger.Error("Failed to save listing record", err, nil)
		return err
	}

	ucLogger.Debug("Listing record saved", nil)
	return nil
}
