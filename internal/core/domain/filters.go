package domain

// FilterField - идентификатор поля, по которому строится предикат.
// Фиксированный набор: адаптер хранилища сопоставляет его с колонкой
// по белому списку, клиентский текст в SQL не попадает.
type FilterField string

const (
	FieldCategory  FilterField = "category"
	FieldCity      FilterField = "city"
	FieldDealType  FilterField = "deal_type"
	FieldStreet    FilterField = "street"
	FieldVerified  FilterField = "verified"
	FieldFeatured  FilterField = "featured"
	FieldCertified FilterField = "certified"
	FieldRating    FilterField = "rating"
	FieldPrice     FilterField = "price"
	FieldBedrooms  FilterField = "bedrooms"
)

// PredicateKind - вид сравнения. Других видов нет.
type PredicateKind int

const (
	PredicateEquals PredicateKind = iota
	PredicateSubstring
	PredicateMinimum
	PredicateFlag
)

// Predicate - одно типизированное условие фильтрации.
// Заполнено ровно одно из значений, соответствующее Kind.
type Predicate struct {
	Field  FilterField
	Kind   PredicateKind
	Text   string
	Number float64
	Flag   bool
}

// SortKey - ключ сортировки из фиксированного набора.
type SortKey string

const (
	SortDefault     SortKey = ""
	SortRating      SortKey = "rating"
	SortReviewCount SortKey = "reviewCount"
	SortName        SortKey = "name"
	SortNewest      SortKey = "newest"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// FilterSpec - внутреннее представление поискового запроса: набор предикатов
// (объединяются только через AND), ключ сортировки и пагинация, уже
// приведенная к безопасным границам.
type FilterSpec struct {
	Predicates []Predicate
	Sort       SortKey
	Order      SortOrder
	Limit      int
	Offset     int
}

// HasPredicate сообщает, есть ли в спецификации предикат по данному полю.
func (s FilterSpec) HasPredicate(field FilterField) bool {
	for _, p := range s.Predicates {
		if p.Field == field {
			return true
		}
	}
	return false
}

// PaginatedListings - стандартная структура ответа со списком объявлений.
type PaginatedListings struct {
	Listings     []Listing
	TotalCount   int
	CurrentPage  int
	ItemsPerPage int
}
