package usecase

import (
	"context"

	"marketplace-service/internal/constants"
	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/geo"
	"marketplace-service/internal/core/normalizer"
	"marketplace-service/internal/core/port"
)

type GetMapViewportUseCase struct {
	storage        port.ListingStoragePort
	fallbackCenter geo.Coordinate
	fallbackZoom   int
}

func NewGetMapViewportUseCase(storage port.ListingStoragePort, fallbackCenter geo.Coordinate, fallbackZoom int) *GetMapViewportUseCase {
	return &GetMapViewportUseCase{
		storage:        storage,
		fallbackCenter: fallbackCenter,
		fallbackZoom:   fallbackZoom,
	}
}

// Область карты считается не по одной странице, а по выборке целиком,
// с жестким потолком: дальше центроид уже практически не двигается,
// а выборка без фильтров может быть размером со всю базу.
const maxViewportRecords = 1000

// Execute собирает область карты для текущего набора фильтров. Объявления
// без валидных координат просто не участвуют в расчете; если таких нет
// совсем, карта открывается на региональном центре по умолчанию.
func (uc *GetMapViewportUseCase) Execute(ctx context.Context, spec domain.FilterSpec) (*geo.Viewport, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetMapViewport"})

	spec.Limit = constants.MaxPageSize
	spec.Offset = 0

	var points []geo.Coordinate
	for {
		page, err := uc.storage.FindWithFilter(ctx, spec)
		if err != nil {
			ucLogger.Error("Storage returned an error", err, nil)
			return nil, err
		}

		for _, record := range page.Records {
			listing := normalizer.Normalize(record)
			if listing.Latitude == nil {
				continue
			}
			points = append(points, geo.Coordinate{Lat: *listing.Latitude, Lng: *listing.Longitude})
		}

		spec.Offset += len(page.Records)
		if len(page.Records) < spec.Limit || spec.Offset >= page.TotalCount || spec.Offset >= maxViewportRecords {
			break
		}
	}

	viewport := geo.ComputeViewport(points, uc.fallbackCenter, uc.fallbackZoom)
	ucLogger.Debug("Viewport computed", port.Fields{
		"points": len(points),
		"zoom":   viewport.Zoom,
	})
	return &viewport, nil
}
