package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func reviewsWithRatings(ratings ...int) []Review {
	reviews := make([]Review, 0, len(ratings))
	for _, r := range ratings {
		reviews = append(reviews, Review{Rating: r})
	}
	return reviews
}

func TestComputeAggregateStats(t *testing.T) {
	tests := []struct {
		name     string
		ratings  []int
		expected AggregateStats
	}{
		{
			name:     "несколько отзывов, округление до одного знака",
			ratings:  []int{5, 4, 5},
			expected: AggregateStats{ReviewCount: 3, Rating: 4.7},
		},
		{
			name:     "один отзыв",
			ratings:  []int{3},
			expected: AggregateStats{ReviewCount: 1, Rating: 3},
		},
		{
			name:     "без отзывов рейтинг равен нулю",
			ratings:  nil,
			expected: AggregateStats{ReviewCount: 0, Rating: 0},
		},
		{
			name:     "среднее без округления",
			ratings:  []int{2, 4},
			expected: AggregateStats{ReviewCount: 2, Rating: 3},
		},
		{
			name:     "округление вниз",
			ratings:  []int{5, 5, 4, 4, 4, 4},
			expected: AggregateStats{ReviewCount: 6, Rating: 4.3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAggregateStats(reviewsWithRatings(tt.ratings...))
			assert.Equal(t, tt.expected, got)
		})
	}
}
