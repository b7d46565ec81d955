package usecase

import (
	"context"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
)

// RecalculateProviderStatsUseCase пересчитывает агрегаты поставщика по
// полному набору его отзывов. Используется при редактировании отзывов и как
// страховка для обслуживания: полный пересчет всегда сходится к реальным
// строкам, в отличие от инкрементального счетчика.
type RecalculateProviderStatsUseCase struct {
	storage port.ProviderStoragePort
}

func NewRecalculateProviderStatsUseCase(storage port.ProviderStoragePort) *RecalculateProviderStatsUseCase {
	return &RecalculateProviderStatsUseCase{storage: storage}
}

func (uc *RecalculateProviderStatsUseCase) Execute(ctx context.Context, providerID uuid.UUID) (*domain.AggregateStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "RecalculateProviderStats",
		"provider_id": providerID.String(),
	})

	reviews, err := uc.storage.ListReviews(ctx, providerID)
	if err != nil {
		ucLogger.Error("Failed to list reviews", err, nil)
		return nil, err
	}

	stats := domain.ComputeAggregateStats(reviews)
	if err := uc.storage.UpdateAggregates(ctx, providerID, stats); err != nil {
		ucLogger.Error("Failed to persist aggregates", err, nil)
		return nil, err
	}

	ucLogger.Info("Aggregates recalculated", port.Fields{
		"review_count": stats.ReviewCount,
		"rating":       stats.Rating,
	})
	return &stats, nil
}
