package usecase

import (
	"context"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/normalizer"
	"marketplace-service/internal/core/port"
)

type GetListingDetailsUseCase struct {
	storage port.ListingStoragePort
}

func NewGetListingDetailsUseCase(storage port.ListingStoragePort) *GetListingDetailsUseCase {
	return &GetListingDetailsUseCase{storage: storage}
}

func (uc *GetListingDetailsUseCase) Execute(ctx context.Context, listingID int64) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "GetListingDetails",
		"listing_id": listingID,
	})

	record, err := uc.storage.GetByID(ctx, listingID)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	if record == nil {
		ucLogger.Debug("Listing not found", nil)
		return nil, nil
	}

	listing := normalizer.Normalize(*record)
	return &listing, nil
}
