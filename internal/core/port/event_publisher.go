package port

import (
	"context"

	"marketplace-service/internal/core/domain"
)

// ReviewEventPublisherPort публикует события об отзывах для остальных
// сервисов платформы (уведомления, антифрод).
type ReviewEventPublisherPort interface {
	PublishReviewCreated(ctx context.Context, review domain.Review, stats domain.AggregateStats) error
}

// EventListenerPort - интерфейс фонового слушателя очереди.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Shutdown()
}
