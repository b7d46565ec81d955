package queryspec

import (
	"net/url"
	"testing"

	"marketplace-service/internal/constants"
	"marketplace-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findPredicate(spec domain.FilterSpec, field domain.FilterField) (domain.Predicate, bool) {
	for _, p := range spec.Predicates {
		if p.Field == field {
			return p, true
		}
	}
	return domain.Predicate{}, false
}

func TestBuildRecognizedParams(t *testing.T) {
	params := url.Values{
		"category":    {"realtor"},
		"city":        {"Минск"},
		"street":      {"Немига"},
		"verified":    {"true"},
		"featured":    {"false"},
		"minRating":   {"4.5"},
		"minPrice":    {"50000"},
		"minBedrooms": {"2"},
	}

	spec := Build(params)
	require.Len(t, spec.Predicates, 8)

	p, ok := findPredicate(spec, domain.FieldCategory)
	require.True(t, ok)
	assert.Equal(t, domain.PredicateEquals, p.Kind)
	assert.Equal(t, "realtor", p.Text)

	p, ok = findPredicate(spec, domain.FieldStreet)
	require.True(t, ok)
	assert.Equal(t, domain.PredicateSubstring, p.Kind)

	p, ok = findPredicate(spec, domain.FieldVerified)
	require.True(t, ok)
	assert.True(t, p.Flag)

	p, ok = findPredicate(spec, domain.FieldFeatured)
	require.True(t, ok)
	assert.False(t, p.Flag)

	p, ok = findPredicate(spec, domain.FieldRating)
	require.True(t, ok)
	assert.Equal(t, domain.PredicateMinimum, p.Kind)
	assert.Equal(t, 4.5, p.Number)
}

// Сценарий из спеки продукта: мусорные фильтры не роняют запрос, а только
// уменьшают число примененных предикатов.
func TestBuildDegradesOnGarbage(t *testing.T) {
	params := url.Values{
		"minRating": {"abc"},
		"sortBy":    {"bogus"},
		"limit":     {"-5"},
	}

	spec := Build(params)

	_, ok := findPredicate(spec, domain.FieldRating)
	assert.False(t, ok, "неразобранный minRating должен быть отброшен")
	assert.Equal(t, domain.SortDefault, spec.Sort)
	assert.Equal(t, 0, spec.Limit)
	assert.Equal(t, 0, spec.Offset)
}

// ParseFloat разбирает "NaN" и "Inf" без ошибки, но такие значения не должны
// доходить до хранилища: NaN в Postgres сортируется выше любых чисел и
// превращает minRating-фильтр в пустую выборку вместо игнорирования.
func TestBuildNonFiniteMinimumsDropped(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity", "-Infinity"} {
		t.Run(raw, func(t *testing.T) {
			spec := Build(url.Values{
				"minRating":   {raw},
				"minPrice":    {raw},
				"minBedrooms": {raw},
			})
			assert.Empty(t, spec.Predicates)
		})
	}
}

func TestBuildUnknownKeysIgnored(t *testing.T) {
	base := Build(url.Values{"city": {"Брест"}})
	withJunk := Build(url.Values{
		"city":                       {"Брест"},
		"1=1; DROP TABLE providers;": {"x"},
		"color":                      {"red"},
		"price >= 0 OR":              {"true"},
	})

	// Нераспознанные ключи не меняют спецификацию
	assert.Equal(t, base, withJunk)
}

func TestBuildSort(t *testing.T) {
	spec := Build(url.Values{"sortBy": {"reviewCount"}, "sortOrder": {"asc"}})
	assert.Equal(t, domain.SortReviewCount, spec.Sort)
	assert.Equal(t, domain.OrderAsc, spec.Order)

	spec = Build(url.Values{"sortBy": {"name"}})
	assert.Equal(t, domain.SortName, spec.Sort)
	assert.Equal(t, domain.OrderDesc, spec.Order)

	spec = Build(url.Values{"sortBy": {"rating"}, "sortOrder": {"sideways"}})
	assert.Equal(t, domain.SortRating, spec.Sort)
	assert.Equal(t, domain.OrderDesc, spec.Order, "неизвестное направление откатывается к desc")
}

func TestBuildPaginationBounds(t *testing.T) {
	tests := []struct {
		name       string
		limit      string
		offset     string
		wantLimit  int
		wantOffset int
	}{
		{"по умолчанию", "", "", constants.DefaultPageSize, 0},
		{"в границах", "50", "100", 50, 100},
		{"limit выше потолка", "5000", "0", constants.MaxPageSize, 0},
		{"отрицательные", "-5", "-10", 0, 0},
		{"нечисловые", "ten", "zero", constants.DefaultPageSize, 0},
		{"ноль - валидный limit", "0", "", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := url.Values{}
			if tt.limit != "" {
				params.Set("limit", tt.limit)
			}
			if tt.offset != "" {
				params.Set("offset", tt.offset)
			}
			spec := Build(params)
			assert.Equal(t, tt.wantLimit, spec.Limit)
			assert.Equal(t, tt.wantOffset, spec.Offset)
			assert.GreaterOrEqual(t, spec.Limit, 0)
			assert.LessOrEqual(t, spec.Limit, constants.MaxPageSize)
			assert.GreaterOrEqual(t, spec.Offset, 0)
		})
	}
}

func TestBuildEmptyValuesDropped(t *testing.T) {
	spec := Build(url.Values{
		"city":     {"  "},
		"verified": {"yes"}, // не строгий bool
	})
	assert.Empty(t, spec.Predicates)
}
