package usecase

import (
	"context"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/normalizer"
	"marketplace-service/internal/core/port"
)

type FindListingsUseCase struct {
	storage port.ListingStoragePort
}

func NewFindListingsUseCase(storage port.ListingStoragePort) *FindListingsUseCase {
	return &FindListingsUseCase{storage: storage}
}

func (uc *FindListingsUseCase) Execute(ctx context.Context, spec domain.FilterSpec) (*domain.PaginatedListings, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "FindListings",
		"predicates": len(spec.Predicates),
		"limit":      spec.Limit,
		"offset":     spec.Offset,
	})

	ucLogger.Debug("Use case started", nil)

	page, err := uc.storage.FindWithFilter(ctx, spec)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err // Просто пробрасываем ошибку дальше
	}

	// Каждая сырая строка проходит через нормализатор; испорченные поля
	// деградируют до значений по умолчанию и не роняют весь ответ
	listings := make([]domain.Listing, 0, len(page.Records))
	for _, record := range page.Records {
		listings = append(listings, normalizer.Normalize(record))
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   page.TotalCount,
		"items_on_page": len(listings),
	})

	return &domain.PaginatedListings{
		Listings:     listings,
		TotalCount:   page.TotalCount,
		CurrentPage:  currentPage(spec.Limit, spec.Offset),
		ItemsPerPage: spec.Limit,
	}, nil
}

func currentPage(limit, offset int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
