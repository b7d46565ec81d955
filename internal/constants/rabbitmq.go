package constants

// Имена очередей и обменников общие для всех сервисов платформы
const (
	ListingRecordsQueue      = "marketplace.listing_records"
	ListingRecordsPrefetch   = 10
	ReviewEventsExchange     = "marketplace.review_events"
	ReviewEventsExchangeType = "topic"
	ReviewCreatedRoutingKey  = "review.created"
)
