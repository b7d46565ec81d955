package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProviderStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewProviderStorageAdapter(pool *pgxpool.Pool) (*ProviderStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ProviderStorageAdapter{pool: pool}, nil
}

const providerSelectColumns = `p.id, p.name, p.category, p.city, p.verified, p.featured, p.certified,
	p.specialties, p.rating, p.review_count, p.phone, p.email, p.created_at`

func (a *ProviderStorageAdapter) FindWithFilter(ctx context.Context, spec domain.FilterSpec) (*port.ProviderPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ProviderStorageAdapter",
		"method":    "FindWithFilter",
		"limit":     spec.Limit,
		"offset":    spec.Offset,
	})

	qb := newQueryBuilder("p.active = true")
	applyFilter(qb, spec, providerColumns)
	whereClause, args := qb.build()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM providers p %s", whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count providers", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count providers: %w", err)
	}

	if totalCount == 0 {
		return &port.ProviderPage{Providers: []domain.Provider{}, TotalCount: 0}, nil
	}

	dataQuery := fmt.Sprintf(`
		SELECT %s
		FROM providers p
		%s
		%s, p.id ASC
		LIMIT $%d OFFSET $%d`,
		providerSelectColumns,
		whereClause,
		orderClause(spec, providerSortColumns, "p.featured DESC, p.rating DESC"),
		len(args)+1, len(args)+2,
	)

	rows, err := tx.Query(ctx, dataQuery, append(args, spec.Limit, spec.Offset)...)
	if err != nil {
		repoLogger.Error("Failed to query providers", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to query providers: %w", err)
	}
	defer rows.Close()

	providers := make([]domain.Provider, 0, spec.Limit)
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan provider: %w", err)
		}
		providers = append(providers, provider)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate providers: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Providers page fetched", port.Fields{
		"total_count": totalCount,
		"on_page":     len(providers),
	})
	return &port.ProviderPage{Providers: providers, TotalCount: int(totalCount)}, nil
}

func (a *ProviderStorageAdapter) GetByID(ctx context.Context, providerID uuid.UUID) (*domain.Provider, error) {
	query := fmt.Sprintf("SELECT %s FROM providers p WHERE p.id = $1", providerSelectColumns)

	provider, err := scanProvider(a.pool.QueryRow(ctx, query, providerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provider %s: %w", providerID, err)
	}
	return &provider, nil
}

func (a *ProviderStorageAdapter) ListReviews(ctx context.Context, providerID uuid.UUID) ([]domain.Review, error) {
	rows, err := a.pool.Query(ctx, `
		SELECT id, provider_id, author_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE provider_id = $1
		ORDER BY created_at ASC`, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

// SaveReviewAndRecalculate сохраняет отзыв и пересчитывает агрегаты в одной
// транзакции; строка поставщика блокируется на время пересчета, чтобы два
// одновременных отзыва не перетерли счетчики друг друга. У автора может быть
// только один отзыв на поставщика - повторная отправка редактирует его.
func (a *ProviderStorageAdapter) SaveReviewAndRecalculate(ctx context.Context, review domain.Review) (*domain.AggregateStats, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":   "ProviderStorageAdapter",
		"method":      "SaveReviewAndRecalculate",
		"provider_id": review.ProviderID.String(),
	})

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var providerID uuid.UUID
	err = tx.QueryRow(ctx, "SELECT id FROM providers WHERE id = $1 FOR UPDATE", review.ProviderID).Scan(&providerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("provider %s: %w", review.ProviderID, port.ErrProviderNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock provider row: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, provider_id, author_id, rating, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (provider_id, author_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			comment = EXCLUDED.comment,
			updated_at = EXCLUDED.updated_at`,
		review.ID, review.ProviderID, review.AuthorID, review.Rating, review.Comment,
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		repoLogger.Error("Failed to upsert review", err, nil)
		return nil, fmt.Errorf("failed to upsert review: %w", err)
	}

	// Полный пересчет по строкам отзывов, а не инкремент счетчика
	rows, err := tx.Query(ctx, `
		SELECT id, provider_id, author_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE provider_id = $1
		ORDER BY created_at ASC`, review.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("failed to reread reviews: %w", err)
	}
	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, err
	}

	stats := domain.ComputeAggregateStats(reviews)
	if _, err := tx.Exec(ctx,
		"UPDATE providers SET rating = $1, review_count = $2 WHERE id = $3",
		stats.Rating, stats.ReviewCount, review.ProviderID,
	); err != nil {
		return nil, fmt.Errorf("failed to update provider aggregates: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Review saved and aggregates updated", port.Fields{
		"review_count": stats.ReviewCount,
		"rating":       stats.Rating,
	})
	return &stats, nil
}

func (a *ProviderStorageAdapter) UpdateAggregates(ctx context.Context, providerID uuid.UUID, stats domain.AggregateStats) error {
	_, err := a.pool.Exec(ctx,
		"UPDATE providers SET rating = $1, review_count = $2 WHERE id = $3",
		stats.Rating, stats.ReviewCount, providerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update provider aggregates: %w", err)
	}
	return nil
}

func scanProvider(row pgx.Row) (domain.Provider, error) {
	var p domain.Provider
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.City, &p.Verified, &p.Featured, &p.Certified,
		&p.Specialties, &p.Rating, &p.ReviewCount, &p.Phone, &p.Email, &p.CreatedAt,
	)
	if err != nil {
		return domain.Provider{}, err
	}
	if p.Specialties == nil {
		p.Specialties = []string{}
	}
	return p, nil
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProviderID, &r.AuthorID, &r.Rating, &r.Comment,
			&r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
