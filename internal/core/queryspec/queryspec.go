package queryspec

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"marketplace-service/internal/constants"
	"marketplace-service/internal/core/domain"
)

// paramSpec описывает один распознаваемый query-параметр: к какому полю он
// относится и какой предикат из него строится. Любой ключ вне этой таблицы
// молча игнорируется - это граница защиты от инъекций: в запрос к хранилищу
// попадают только типизированные сравнения из фиксированного набора.
type paramSpec struct {
	field domain.FilterField
	kind  domain.PredicateKind
}

var recognizedParams = map[string]paramSpec{
	"category":    {domain.FieldCategory, domain.PredicateEquals},
	"city":        {domain.FieldCity, domain.PredicateEquals},
	"type":        {domain.FieldDealType, domain.PredicateEquals},
	"street":      {domain.FieldStreet, domain.PredicateSubstring},
	"verified":    {domain.FieldVerified, domain.PredicateFlag},
	"featured":    {domain.FieldFeatured, domain.PredicateFlag},
	"certified":   {domain.FieldCertified, domain.PredicateFlag},
	"minRating":   {domain.FieldRating, domain.PredicateMinimum},
	"minPrice":    {domain.FieldPrice, domain.PredicateMinimum},
	"minBedrooms": {domain.FieldBedrooms, domain.PredicateMinimum},
}

var recognizedSorts = map[string]domain.SortKey{
	"rating":      domain.SortRating,
	"reviewCount": domain.SortReviewCount,
	"name":        domain.SortName,
	"newest":      domain.SortNewest,
}

// Build собирает FilterSpec из нетипизированных параметров запроса.
// Ошибочный ввод не приводит к отказу: нераспознанный ключ игнорируется,
// неразобранное число выбрасывает только свой предикат, сортировка вне
// набора откатывается к порядку по умолчанию, пагинация обрезается до
// безопасных границ.
func Build(params url.Values) domain.FilterSpec {
	spec := domain.FilterSpec{
		Sort:   domain.SortDefault,
		Order:  domain.OrderDesc,
		Limit:  constants.DefaultPageSize,
		Offset: 0,
	}

	for key, values := range params {
		ps, ok := recognizedParams[key]
		if !ok || len(values) == 0 {
			continue
		}
		if p, ok := buildPredicate(ps, values[0]); ok {
			spec.Predicates = append(spec.Predicates, p)
		}
	}

	if sortKey, ok := recognizedSorts[params.Get("sortBy")]; ok {
		spec.Sort = sortKey
		// Направление имеет смысл только при явном ключе сортировки
		if params.Get("sortOrder") == "asc" {
			spec.Order = domain.OrderAsc
		}
	}

	if raw := params.Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			spec.Limit = limit
		}
	}
	if raw := params.Get("offset"); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil {
			spec.Offset = offset
		}
	}
	spec.Limit = clamp(spec.Limit, 0, constants.MaxPageSize)
	if spec.Offset < 0 {
		spec.Offset = 0
	}

	return spec
}

func buildPredicate(ps paramSpec, raw string) (domain.Predicate, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Predicate{}, false
	}

	p := domain.Predicate{Field: ps.field, Kind: ps.kind}
	switch ps.kind {
	case domain.PredicateEquals, domain.PredicateSubstring:
		p.Text = raw
	case domain.PredicateMinimum:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Неразобранное число роняет только этот предикат
			return domain.Predicate{}, false
		}
		// ParseFloat принимает "NaN" и "Inf", а NaN в Postgres сортируется
		// выше любых чисел и превращает сравнение в пустую выборку
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return domain.Predicate{}, false
		}
		p.Number = f
	case domain.PredicateFlag:
		switch raw {
		case "true":
			p.Flag = true
		case "false":
			p.Flag = false
		default:
			return domain.Predicate{}, false
		}
	}
	return p, true
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
