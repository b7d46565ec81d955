package constants

const (
	// DefaultPageSize - размер страницы, если клиент его не указал
	DefaultPageSize = 20

	// MaxPageSize - потолок для limit; значения сверх него обрезаются
	MaxPageSize = 100
)
