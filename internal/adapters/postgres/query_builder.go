package postgres

import (
	"fmt"
	"strings"

	"marketplace-service/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argID      int
}

func newQueryBuilder(baseConditions ...string) *queryBuilder {
	return &queryBuilder{
		argID:      1,
		conditions: baseConditions,
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, column string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, column, qb.argID))
	qb.args = append(qb.args, arg)
	qb.argID++
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// Белые списки колонок. Поле предиката, которого нет в списке таблицы,
// молча пропускается; произвольный текст клиента именем колонки стать
// не может.
var listingColumns = map[domain.FilterField]string{
	domain.FieldCategory: "l.category",
	domain.FieldCity:     "l.city",
	domain.FieldDealType: "l.deal_type",
	domain.FieldStreet:   "l.street",
	domain.FieldFeatured: "l.featured",
	domain.FieldPrice:    "l.price",
	domain.FieldBedrooms: "l.bedrooms",
}

var providerColumns = map[domain.FilterField]string{
	domain.FieldCategory:  "p.category",
	domain.FieldCity:      "p.city",
	domain.FieldVerified:  "p.verified",
	domain.FieldFeatured:  "p.featured",
	domain.FieldCertified: "p.certified",
	domain.FieldRating:    "p.rating",
}

var listingSortColumns = map[domain.SortKey]string{
	domain.SortNewest: "l.created_at",
}

var providerSortColumns = map[domain.SortKey]string{
	domain.SortRating:      "p.rating",
	domain.SortReviewCount: "p.review_count",
	domain.SortName:        "p.name",
	domain.SortNewest:      "p.created_at",
}

// applyFilter превращает предикаты спецификации в WHERE-условия.
// Каждый вид сравнения имеет ровно одну SQL-форму, аргументы всегда
// передаются плейсхолдерами.
func applyFilter(qb *queryBuilder, spec domain.FilterSpec, columns map[domain.FilterField]string) {
	for _, p := range spec.Predicates {
		column, ok := columns[p.Field]
		if !ok {
			continue
		}

		switch p.Kind {
		case domain.PredicateEquals:
			qb.addCondition("%s = $%d", column, p.Text)
		case domain.PredicateSubstring:
			qb.addCondition("%s ILIKE $%d", column, "%"+p.Text+"%")
		case domain.PredicateMinimum:
			qb.addCondition("%s >= $%d", column, p.Number)
		case domain.PredicateFlag:
			qb.addCondition("%s = $%d", column, p.Flag)
		}
	}
}

// orderClause строит ORDER BY по белому списку сортировок. Неизвестный ключ
// дает порядок по умолчанию: сначала продвигаемые, затем по убыванию
// рейтинга (для объявлений - свежести).
func orderClause(spec domain.FilterSpec, sortColumns map[domain.SortKey]string, defaultOrder string) string {
	column, ok := sortColumns[spec.Sort]
	if !ok {
		return "ORDER BY " + defaultOrder
	}

	direction := "DESC"
	if spec.Order == domain.OrderAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}
