package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"marketplace-service/internal/constants"
	"marketplace-service/internal/contracts"
	"marketplace-service/internal/core/domain"
	"marketplace-service/pkg/rabbitmq/rabbitmq_common"
	"marketplace-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// reviewCreatedEvent - полезная нагрузка события о новом отзыве.
// Поля согласованы со схемой events/review_created.json.
type reviewCreatedEvent struct {
	ReviewID       string  `json:"review_id"`
	ProviderID     string  `json:"provider_id"`
	AuthorID       string  `json:"author_id"`
	Rating         int     `json:"rating"`
	ReviewCount    int     `json:"review_count"`
	ProviderRating float64 `json:"provider_rating"`
	CreatedAt      string  `json:"created_at"`
}

// ReviewEventsProducerAdapter - исходящий адаптер, публикующий события
// об отзывах в общий topic-обменник платформы.
type ReviewEventsProducerAdapter struct {
	publisher *rabbitmq_producer.Publisher
}

// NewReviewEventsProducerAdapter создает нового производителя событий
func NewReviewEventsProducerAdapter(
	connManager *rabbitmq_common.ConnectionManager,
	pkgLogger rabbitmq_common.Logger,
) (*ReviewEventsProducerAdapter, error) {

	publisher, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		ExchangeName:             constants.ReviewEventsExchange,
		ExchangeType:             constants.ReviewEventsExchangeType,
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   pkgLogger,
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ producer for review events: %w", err)
	}

	return &ReviewEventsProducerAdapter{publisher: publisher}, nil
}

// PublishReviewCreated публикует событие о новом отзыве вместе с
// пересчитанными агрегатами поставщика.
func (a *ReviewEventsProducerAdapter) PublishReviewCreated(ctx context.Context, review domain.Review, stats domain.AggregateStats) error {
	event := reviewCreatedEvent{
		ReviewID:       review.ID.String(),
		ProviderID:     review.ProviderID.String(),
		AuthorID:       review.AuthorID.String(),
		Rating:         review.Rating,
		ReviewCount:    stats.ReviewCount,
		ProviderRating: stats.Rating,
		CreatedAt:      review.CreatedAt.UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal review created event: %w", err)
	}

	// Проверяем собственное событие по контракту перед отправкой,
	// чтобы не ломать потребителей невалидной нагрузкой
	if err := contracts.Validate("ReviewCreated", body); err != nil {
		return fmt.Errorf("review created event contract validation: %w", err)
	}

	err = a.publisher.Publish(ctx, constants.ReviewCreatedRoutingKey, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish review created event: %w", err)
	}
	return nil
}

// Close закрывает канал производителя
func (a *ReviewEventsProducerAdapter) Close() error {
	return a.publisher.Close()
}
