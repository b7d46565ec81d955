package postgres

import (
	"testing"

	"marketplace-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyFilterBuildsTypedConditions(t *testing.T) {
	spec := domain.FilterSpec{
		Predicates: []domain.Predicate{
			{Field: domain.FieldCategory, Kind: domain.PredicateEquals, Text: "realtor"},
			{Field: domain.FieldVerified, Kind: domain.PredicateFlag, Flag: true},
			{Field: domain.FieldRating, Kind: domain.PredicateMinimum, Number: 4.5},
		},
	}

	qb := newQueryBuilder("p.active = true")
	applyFilter(qb, spec, providerColumns)
	where, args := qb.build()

	assert.Equal(t, "WHERE p.active = true AND p.category = $1 AND p.verified = $2 AND p.rating >= $3", where)
	require.Len(t, args, 3)
	assert.Equal(t, "realtor", args[0])
	assert.Equal(t, true, args[1])
	assert.Equal(t, 4.5, args[2])
}

func TestApplyFilterSubstring(t *testing.T) {
	spec := domain.FilterSpec{
		Predicates: []domain.Predicate{
			{Field: domain.FieldStreet, Kind: domain.PredicateSubstring, Text: "Немига"},
		},
	}

	qb := newQueryBuilder()
	applyFilter(qb, spec, listingColumns)
	where, args := qb.build()

	assert.Equal(t, "WHERE l.street ILIKE $1", where)
	assert.Equal(t, []interface{}{"%Немига%"}, args)
}

// Поле вне белого списка таблицы не попадает в запрос: предикат по рейтингу
// существует только у каталога, у объявлений его молча пропускают.
func TestApplyFilterSkipsUnknownColumns(t *testing.T) {
	spec := domain.FilterSpec{
		Predicates: []domain.Predicate{
			{Field: domain.FieldRating, Kind: domain.PredicateMinimum, Number: 4},
			{Field: domain.FieldCity, Kind: domain.PredicateEquals, Text: "Минск"},
		},
	}

	qb := newQueryBuilder()
	applyFilter(qb, spec, listingColumns)
	where, args := qb.build()

	assert.Equal(t, "WHERE l.city = $1", where)
	assert.Len(t, args, 1)
}

func TestApplyFilterEmptySpec(t *testing.T) {
	qb := newQueryBuilder()
	applyFilter(qb, domain.FilterSpec{}, providerColumns)
	where, args := qb.build()

	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		spec domain.FilterSpec
		want string
	}{
		{
			name: "известный ключ с направлением",
			spec: domain.FilterSpec{Sort: domain.SortReviewCount, Order: domain.OrderAsc},
			want: "ORDER BY p.review_count ASC",
		},
		{
			name: "известный ключ по убыванию",
			spec: domain.FilterSpec{Sort: domain.SortRating, Order: domain.OrderDesc},
			want: "ORDER BY p.rating DESC",
		},
		{
			name: "неизвестный ключ - сортировка по умолчанию",
			spec: domain.FilterSpec{Sort: domain.SortKey("bogus")},
			want: "ORDER BY p.featured DESC, p.rating DESC",
		},
		{
			name: "пустой ключ - сортировка по умолчанию",
			spec: domain.FilterSpec{},
			want: "ORDER BY p.featured DESC, p.rating DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orderClause(tt.spec, providerSortColumns, "p.featured DESC, p.rating DESC")
			assert.Equal(t, tt.want, got)
		})
	}
}
