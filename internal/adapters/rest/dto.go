package rest

import "marketplace-service/internal/core/domain"

// PaginatedResponse - единый конверт для списковых ответов
type PaginatedResponse struct {
	Items        interface{} `json:"items"`
	TotalCount   int         `json:"total_count"`
	CurrentPage  int         `json:"current_page"`
	ItemsPerPage int         `json:"items_per_page"`
}

func NewListingsResponse(result *domain.PaginatedListings) PaginatedResponse {
	return PaginatedResponse{
		Items:        result.Listings,
		TotalCount:   result.TotalCount,
		CurrentPage:  result.CurrentPage,
		ItemsPerPage: result.ItemsPerPage,
	}
}

func NewProvidersResponse(result *domain.PaginatedProviders) PaginatedResponse {
	return PaginatedResponse{
		Items:        result.Providers,
		TotalCount:   result.TotalCount,
		CurrentPage:  result.CurrentPage,
		ItemsPerPage: result.ItemsPerPage,
	}
}

// SubmitReviewRequest - тело POST /providers/{providerID}/reviews.
// Форма дополнительно проверяется JSON-схемой контракта.
type SubmitReviewRequest struct {
	AuthorID string `json:"author_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// SubmitReviewResponse возвращает агрегаты поставщика после пересчета
type SubmitReviewResponse struct {
	ReviewCount int     `json:"review_count"`
	Rating      float64 `json:"rating"`
}
