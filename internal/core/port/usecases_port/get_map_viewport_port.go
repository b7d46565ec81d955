package usecases_port

import (
	"context"

	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/geo"
)

type GetMapViewportUseCase interface {
	Execute(ctx context.Context, spec domain.FilterSpec) (*geo.Viewport, error)
}
