package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"
)

// Кэш живет недолго: каталог меняется при каждом отзыве
const directoryCacheTTL = 60 * time.Second

const directoryCachePrefix = "directory:search:"

type FindProvidersUseCase struct {
	storage port.ProviderStoragePort
	cache   port.CachePort
}

func NewFindProvidersUseCase(storage port.ProviderStoragePort, cache port.CachePort) *FindProvidersUseCase {
	return &FindProvidersUseCase{storage: storage, cache: cache}
}

func (uc *FindProvidersUseCase) Execute(ctx context.Context, spec domain.FilterSpec) (*domain.PaginatedProviders, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":   "FindProviders",
		"predicates": len(spec.Predicates),
		"limit":      spec.Limit,
		"offset":     spec.Offset,
	})

	key := cacheKey(spec)
	if uc.cache != nil {
		if cached, ok, err := uc.cache.Get(ctx, key); err == nil && ok {
			var result domain.PaginatedProviders
			if err := json.Unmarshal(cached, &result); err == nil {
				ucLogger.Debug("Directory search served from cache", nil)
				return &result, nil
			}
			// Битое значение в кэше игнорируем и идем в хранилище
		}
	}

	page, err := uc.storage.FindWithFilter(ctx, spec)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}

	result := &domain.PaginatedProviders{
		Providers:    page.Providers,
		TotalCount:   page.TotalCount,
		CurrentPage:  currentPage(spec.Limit, spec.Offset),
		ItemsPerPage: spec.Limit,
	}

	if uc.cache != nil {
		if encoded, err := json.Marshal(result); err == nil {
			if err := uc.cache.Set(ctx, key, encoded, directoryCacheTTL); err != nil {
				// Кэш не является источником истины, ошибку только логируем
				ucLogger.Warn("Failed to cache directory search", port.Fields{"error": err.Error()})
			}
		}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   result.TotalCount,
		"items_on_page": len(result.Providers),
	})
	return result, nil
}

// InvalidateDirectoryCache сбрасывает все закэшированные страницы каталога.
func (uc *FindProvidersUseCase) InvalidateDirectoryCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.DeleteByPrefix(ctx, directoryCachePrefix); err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Failed to invalidate directory cache", port.Fields{"error": err.Error()})
	}
}

// cacheKey детерминированно кодирует спецификацию поиска.
func cacheKey(spec domain.FilterSpec) string {
	encoded, _ := json.Marshal(spec)
	sum := sha256.Sum256(encoded)
	return directoryCachePrefix + hex.EncodeToString(sum[:16])
}
