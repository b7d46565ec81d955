package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Provider - участник каталога услуг: агентство, риэлтор, оценщик, нотариус.
type Provider struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`
	City     string    `json:"city"`

	Verified  bool `json:"verified"`
	Featured  bool `json:"featured"`
	Certified bool `json:"certified"`

	Specialties []string `json:"specialties"`

	// Агрегаты меняются только пересчетом по всем отзывам
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`

	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Review - отзыв пользователя о поставщике услуг.
type Review struct {
	ID         uuid.UUID `json:"id"`
	ProviderID uuid.UUID `json:"provider_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Rating     int       `json:"rating"` // 1..5
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// AggregateStats - производные поля поставщика, пересчитываемые по полному
// набору его отзывов.
type AggregateStats struct {
	ReviewCount int     `json:"review_count"`
	Rating      float64 `json:"rating"`
}

// PaginatedProviders - ответ на поиск по каталогу.
type PaginatedProviders struct {
	Providers    []Provider
	TotalCount   int
	CurrentPage  int
	ItemsPerPage int
}

// ComputeAggregateStats пересчитывает агрегаты по полному списку отзывов.
// Средний рейтинг округляется до одного знака; без отзывов рейтинг равен 0
// (не NaN и не null). Инкрементального варианта нет намеренно: полный
// пересчет не накапливает расхождений с реальными строками отзывов.
func ComputeAggregateStats(reviews []Review) AggregateStats {
	if len(reviews) == 0 {
		return AggregateStats{}
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))

	return AggregateStats{
		ReviewCount: len(reviews),
		Rating:      math.Round(mean*10) / 10,
	}
}
