package usecase

import (
	"context"
	"fmt"
	"time"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

type SubmitReviewUseCase struct {
	storage   port.ProviderStoragePort
	publisher port.ReviewEventPublisherPort
	directory *FindProvidersUseCase
}

func NewSubmitReviewUseCase(storage port.ProviderStoragePort,
	publisher port.ReviewEventPublisherPort,
	directory *FindProvidersUseCase) *SubmitReviewUseCase {
	return &SubmitReviewUseCase{
		storage:   storage,
		publisher: publisher,
		directory: directory,
	}
}

// Execute сохраняет отзыв и пересчитывает агрегаты поставщика. Сохранение и
// пересчет выполняются хранилищем в одной транзакции; событие и сброс кэша
// идут после коммита и на успех операции уже не влияют.
func (uc *SubmitReviewUseCase) Execute(ctx context.Context, input usecases_port.SubmitReviewInput) (*domain.AggregateStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "SubmitReview",
		"provider_id": input.ProviderID.String(),
		"rating":      input.Rating,
	})

	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("review rating must be between 1 and 5, got %d", input.Rating)
	}

	now := time.Now().UTC()
	review := domain.Review{
		ID:         uuid.New(),
		ProviderID: input.ProviderID,
		AuthorID:   input.AuthorID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	stats, err := uc.storage.SaveReviewAndRecalculate(ctx, review)
	if err != nil {
		ucLogger.Error("Failed to save review", err, nil)
		return nil, err
	}

	ucLogger.Info("Review saved, aggregates recalculated", port.Fields{
		"review_count": stats.ReviewCount,
		"rating":       stats.Rating,
	})

	if uc.directory != nil {
		uc.directory.InvalidateDirectoryCache(ctx)
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishReviewCreated(ctx, review, *stats); err != nil {
			// Отзыв уже сохранен; потерянное событие - повод для warn, не для отказа
			ucLogger.Warn("Failed to publish review event", port.Fields{"error": err.Error()})
		}
	}

	return stats, nil
}
