package usecases_port

import (
	"context"

	"marketplace-service/internal/core/domain"
)

type SaveListingUseCase interface {
	Execute(ctx context.Context, record domain.RawRecord) error
}
