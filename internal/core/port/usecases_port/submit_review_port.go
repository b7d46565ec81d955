package usecases_port

import (
	"context"

	"marketplace-service/internal/core/domain"

	"github.com/google/uuid"
)

// SubmitReviewInput - данные нового отзыва, уже прошедшие валидацию контракта.
type SubmitReviewInput struct {
	ProviderID uuid.UUID
	AuthorID   uuid.UUID
	Rating     int
	Comment    string
}

type SubmitReviewUseCase interface {
	Execute(ctx context.Context, input SubmitReviewInput) (*domain.AggregateStats, error)
}
