package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/geo"
)

// Префикс канонической ссылки: одна и та же строка хранилища всегда
// нормализуется в один и тот же ref
const refNamespace = "listing"

// В подборку на карточку идут максимум четыре особенности
const maxHighlights = 4

// Normalize превращает сырую строку хранилища в каноническое объявление.
// Функция тотальна: любое испорченное поле деградирует до значения по
// умолчанию, ошибок и паник наружу не бывает. Политика по классам полей:
//   - сериализованные коллекции -> пустой срез при любом сбое разбора;
//   - денежные значения -> nil, если число не извлеклось (ноль - валидная
//     цена, неизвестная - нет);
//   - координаты -> пара целиком либо валидна, либо целиком null.
func Normalize(raw domain.RawRecord) domain.Listing {
	gallery := StringSlice(raw.Images)
	features := StringSlice(raw.Features)

	listing := domain.Listing{
		Ref:   fmt.Sprintf("%s:%d", refNamespace, raw.ID),
		Title: raw.Title,
		Address: domain.Address{
			Street: raw.Street,
			City:   raw.City,
			Region: raw.Region,
		},
		Price:       moneyValue(raw.Price),
		Currency:    raw.Currency,
		PricePeriod: raw.PricePeriod,
		Bedrooms:    intValue(raw.Bedrooms),
		Bathrooms:   floatValue(raw.Bathrooms),
		HalfBaths:   intValue(raw.HalfBaths),
		Area:        floatValue(raw.Area),
		AreaUnit:    raw.AreaUnit,
		Category:    raw.Category,
		DealType:    raw.DealType,
		Status:      raw.Status,
		Featured:    boolValue(raw.Featured),
		Media: domain.Media{
			Gallery: gallery,
		},
		Agency: domain.Agency{
			Name:       raw.AgencyName,
			AgentName:  raw.AgentName,
			AgentPhone: raw.AgentPhone,
			AgentEmail: raw.AgentEmail,
		},
		Highlights: highlights(features),
		CreatedAt:  raw.CreatedAt,
	}

	if len(gallery) > 0 {
		cover := gallery[0]
		listing.Media.Cover = &cover
	}

	if coord, ok := geo.Validate(raw.Latitude, raw.Longitude); ok {
		lat, lng := coord.Lat, coord.Lng
		listing.Latitude = &lat
		listing.Longitude = &lng
		listing.Geohash = coord.Geohash()
	}

	return listing
}

// StringSlice приводит сериализованную коллекцию к срезу строк.
// Принимает готовый срез, значение из JSON-декодера ([]any) или строку с
// JSON-массивом; все остальное дает пустой срез. Никогда не возвращает nil.
func StringSlice(v any) []string {
	switch val := v.(type) {
	case []string:
		if val == nil {
			return []string{}
		}
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return []string{}
		}
		var parsed []string
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			return []string{}
		}
		out := make([]string, 0, len(parsed))
		for _, s := range parsed {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

// moneyValue извлекает число из цены, которая может быть числом или уже
// отформатированной строкой ("P 1,250,000", "1 250 000 р."). Из строки
// выбрасывается все, кроме цифр, точки и минуса.
func moneyValue(v any) *float64 {
	if s, ok := v.(string); ok {
		var b strings.Builder
		for _, r := range s {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				b.WriteRune(r)
			}
		}
		f, err := strconv.ParseFloat(b.String(), 64)
		if err != nil {
			return nil
		}
		return finitePtr(f)
	}
	return floatValue(v)
}

// floatValue - счетчики, которые могут храниться десятичной строкой ("1.5").
func floatValue(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return finitePtr(val)
	case float32:
		return finitePtr(float64(val))
	case int:
		f := float64(val)
		return &f
	case int64:
		f := float64(val)
		return &f
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil
		}
		return finitePtr(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil
		}
		return finitePtr(f)
	default:
		return nil
	}
}

// boolValue - флаги, которые парсеры присылают как bool, строку или 0/1.
// Все нераспознанное - false.
func boolValue(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		return err == nil && b
	default:
		if f := floatValue(v); f != nil {
			return *f != 0
		}
		return false
	}
}

// intValue - целочисленные счетчики; дробная часть отбрасывается.
func intValue(v any) *int {
	f := floatValue(v)
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

func highlights(features []string) []string {
	if len(features) > maxHighlights {
		features = features[:maxHighlights]
	}
	out := make([]string, len(features))
	copy(out, features)
	return out
}

func finitePtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
