package domain

import "time"

// RawRecord - объект недвижимости в том виде, в котором он лежит в хранилище.
// Записи приходят от парсеров и ничем не гарантированы: поля, которые могут
// быть строкой, числом или уже разобранным массивом, объявлены как any.
type RawRecord struct {
	ID int64 `json:"id"`

	Title  string `json:"title"`
	Street string `json:"street"`
	City   string `json:"city"`
	Region string `json:"region"`

	// Цена может быть числом или уже отформатированной строкой ("1 250 000 р.")
	Price       any    `json:"price"`
	Currency    string `json:"currency"`
	PricePeriod string `json:"price_period"`

	Bedrooms  any `json:"bedrooms"`
	Bathrooms any `json:"bathrooms"` // бывает десятичной строкой ("1.5")
	HalfBaths any `json:"half_baths"`

	Area     any    `json:"area"`
	AreaUnit string `json:"area_unit"`

	Latitude  any `json:"latitude"`
	Longitude any `json:"longitude"`

	Category string `json:"category"`
	DealType string `json:"deal_type"`
	Status   string `json:"status"`

	// Платное размещение; у парсеров это bool, строка или 0/1
	Featured any `json:"featured"`

	// Сериализованные коллекции: строка с JSON, готовый массив или мусор
	Images   any `json:"images"`
	Features any `json:"features"`

	AgencyName string `json:"agency_name"`
	AgentName  string `json:"agent_name"`
	AgentPhone string `json:"agent_phone"`
	AgentEmail string `json:"agent_email"`

	CreatedAt time.Time `json:"created_at"`
}

// Address - адресные компоненты канонического объявления.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Region string `json:"region"`
}

// Media - блок медиа. Gallery всегда не nil, даже если фото нет.
type Media struct {
	Cover   *string  `json:"cover"`
	Gallery []string `json:"gallery"`
}

// Agency - контактный блок агентства/агента.
type Agency struct {
	Name       string `json:"name"`
	AgentName  string `json:"agent_name"`
	AgentPhone string `json:"agent_phone"`
	AgentEmail string `json:"agent_email"`
}

// Listing - каноническое представление объявления для внешних потребителей.
// Структура плоская и стабильная: отсутствующие данные - это явный null,
// ключи из ответа никогда не пропадают.
type Listing struct {
	Ref   string `json:"ref"`
	Title string `json:"title"`

	Address Address `json:"address"`

	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	PricePeriod string   `json:"price_period"`

	Bedrooms  *int     `json:"bedrooms"`
	Bathrooms *float64 `json:"bathrooms"`
	HalfBaths *int     `json:"half_baths"`

	Area     *float64 `json:"area"`
	AreaUnit string   `json:"area_unit"`

	// Координаты либо обе валидны, либо обе null - частично заполненной пары
	// не бывает. Geohash заполняется только вместе с валидной парой.
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Geohash   string   `json:"geohash"`

	Category string `json:"category"`
	DealType string `json:"deal_type"`
	Status   string `json:"status"`
	Featured bool   `json:"featured"`

	Media  Media  `json:"media"`
	Agency Agency `json:"agency"`

	Highlights []string `json:"highlights"`

	CreatedAt time.Time `json:"created_at"`
}
