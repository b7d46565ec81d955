package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"

	"marketplace-service/internal/constants"
	"marketplace-service/internal/contracts"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
	"marketplace-service/internal/core/port/usecases_port"
	"marketplace-service/pkg/rabbitmq/rabbitmq_common"
	"marketplace-service/pkg/rabbitmq/rabbitmq_consumer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ListingRecordsConsumerAdapter - входящий адаптер, который слушает очередь
// с сырыми записями объявлений от сервисов-поставщиков и вызывает
// use case для их сохранения.
type ListingRecordsConsumerAdapter struct {
	consumer *rabbitmq_consumer.Consumer
	useCase  usecases_port.SaveListingUseCase
	logger   port.LoggerPort

	ctx    context.Context
	cancel context.CancelFunc
}

// NewListingRecordsConsumerAdapter создает новый адаптер
func NewListingRecordsConsumerAdapter(
	connManager *rabbitmq_common.ConnectionManager,
	useCase usecases_port.SaveListingUseCase,
	logger port.LoggerPort,
	pkgLogger rabbitmq_common.Logger,
) (*ListingRecordsConsumerAdapter, error) {

	adapter := &ListingRecordsConsumerAdapter{
		useCase: useCase,
		logger:  logger,
	}

	consumer, err := rabbitmq_consumer.NewConsumer(rabbitmq_consumer.ConsumerConfig{
		QueueName:     constants.ListingRecordsQueue,
		DeclareQueue:  true,
		DurableQueue:  true,
		PrefetchCount: constants.ListingRecordsPrefetch,
		ConsumerTag:   "marketplace-service",
		Logger:        pkgLogger,
	}, adapter.messageHandler, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ consumer for listing records: %w", err)
	}
	adapter.consumer = consumer

	return adapter, nil
}

// messageHandler разбирает и сохраняет одну сырую запись объявления.
// Ошибка означает, что сообщение будет отвергнуто без возврата в очередь.
func (a *ListingRecordsConsumerAdapter) messageHandler(delivery amqp.Delivery) error {
	ctx := a.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	if err := contracts.Validate("ListingRecordReceived", delivery.Body); err != nil {
		a.logger.Warn("Incoming listing record failed contract validation", port.Fields{
			"delivery_tag": delivery.DeliveryTag,
			"error":        err.Error(),
		})
		return fmt.Errorf("listing record contract validation: %w", err)
	}

	var record domain.RawRecord
	if err := json.Unmarshal(delivery.Body, &record); err != nil {
		return fmt.Errorf("unmarshal listing record: %w", err)
	}

	if err := a.useCase.Execute(ctx, record); err != nil {
		return fmt.Errorf("save listing record %d: %w", record.ID, err)
	}

	a.logger.Debug("Listing record saved from queue", port.Fields{
		"record_id": record.ID,
	})
	return nil
}

// Start запускает потребление сообщений в фоне
func (a *ListingRecordsConsumerAdapter) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)
	if err := a.consumer.StartConsuming(a.ctx); err != nil {
		return fmt.Errorf("failed to start consuming listing records: %w", err)
	}
	a.logger.Info("Listing records consumer started", port.Fields{
		"queue": constants.ListingRecordsQueue,
	})
	return nil
}

// Shutdown останавливает потребление и дожидается обработчиков
func (a *ListingRecordsConsumerAdapter) Shutdown() {
	if a.cancel != nil {
		a.cancel()
	}
	if err := a.consumer.Close(); err != nil {
		a.logger.Error("Error closing listing records consumer", err, nil)
	}
}
