package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"marketplace-service/internal/contextkeys"
	"marketplace-service/internal/core/domain"
	"marketplace-service/internal/core/geo"
	"marketplace-service/internal/core/normalizer"
	"marketplace-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ListingStorageAdapter хранит объявления в исходной (сырой) форме в jsonb
// и дублирует фильтруемые атрибуты в типизированные колонки.
type ListingStorageAdapter struct {
	pool *pgxpool.Pool
}

func NewListingStorageAdapter(pool *pgxpool.Pool) (*ListingStorageAdapter, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingStorageAdapter{pool: pool}, nil
}

// FindWithFilter выполняет COUNT и выборку страницы в одной транзакции,
// чтобы счетчик и строки относились к одному снимку данных.
func (a *ListingStorageAdapter) FindWithFilter(ctx context.Context, spec domain.FilterSpec) (*port.RawPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "ListingStorageAdapter",
		"method":    "FindWithFilter",
		"limit":     spec.Limit,
		"offset":    spec.Offset,
	})

	qb := newQueryBuilder("l.status = 'active'")
	applyFilter(qb, spec, listingColumns)
	whereClause, args := qb.build()

	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM listings l %s", whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count listings", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	if totalCount == 0 {
		return &port.RawPage{Records: []domain.RawRecord{}, TotalCount: 0}, nil
	}

	dataQuery := fmt.Sprintf(`
		SELECT l.id, l.payload
		FROM listings l
		%s
		%s, l.id ASC
		LIMIT $%d OFFSET $%d`,
		whereClause,
		orderClause(spec, listingSortColumns, "l.featured DESC, l.created_at DESC"),
		len(args)+1, len(args)+2,
	)

	rows, err := tx.Query(ctx, dataQuery, append(args, spec.Limit, spec.Offset)...)
	if err != nil {
		repoLogger.Error("Failed to query listings", err, port.Fields{"query": dataQuery})
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	records := make([]domain.RawRecord, 0, spec.Limit)
	for rows.Next() {
		record, err := scanRawRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Listings page fetched", port.Fields{
		"total_count": totalCount,
		"on_page":     len(records),
	})
	return &port.RawPage{Records: records, TotalCount: int(totalCount)}, nil
}

func (a *ListingStorageAdapter) GetByID(ctx context.Context, listingID int64) (*domain.RawRecord, error) {
	row := a.pool.QueryRow(ctx, "SELECT l.id, l.payload FROM listings l WHERE l.id = $1", listingID)

	record, err := scanRawRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Save кладет сырую запись в jsonb как есть и обновляет фильтруемые колонки.
// Числовые атрибуты для колонок достаются теми же правилами, что и на
// чтении, поэтому фильтры и нормализованный ответ не расходятся.
func (a *ListingStorageAdapter) Save(ctx context.Context, record domain.RawRecord) error {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component":  "ListingStorageAdapter",
		"method":     "Save",
		"listing_id": record.ID,
	})

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal listing payload: %w", err)
	}

	normalized := normalizer.Normalize(record)

	var locationHash *string
	if coord, ok := geo.Validate(record.Latitude, record.Longitude); ok {
		h := coord.Geohash()
		locationHash = &h
	}

	status := record.Status
	if status == "" {
		status = "active"
	}

	query := `
		INSERT INTO listings (id, category, city, deal_type, street, price, bedrooms, featured, status, location_hash, created_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			category = EXCLUDED.category,
			city = EXCLUDED.city,
			deal_type = EXCLUDED.deal_type,
			street = EXCLUDED.street,
			price = EXCLUDED.price,
			bedrooms = EXCLUDED.bedrooms,
			featured = EXCLUDED.featured,
			status = EXCLUDED.status,
			location_hash = EXCLUDED.location_hash,
			payload = EXCLUDED.payload`

	_, err = a.pool.Exec(ctx, query,
		record.ID, record.Category, record.City, record.DealType, record.Street,
		normalized.Price, normalized.Bedrooms, normalized.Featured, status, locationHash,
		record.CreatedAt, payload,
	)
	if err != nil {
		repoLogger.Error("Failed to save listing", err, nil)
		return fmt.Errorf("failed to save listing %d: %w", record.ID, err)
	}

	repoLogger.Debug("Listing saved", nil)
	return nil
}

// scanRawRecord разбирает строку (id, payload jsonb) в RawRecord.
// Идентификатор берется из колонки: payload мог прийти от парсера без него.
func scanRawRecord(row pgx.Row) (domain.RawRecord, error) {
	var id int64
	var payload []byte
	if err := row.Scan(&id, &payload); err != nil {
		return domain.RawRecord{}, err
	}

	var record domain.RawRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return domain.RawRecord{}, fmt.Errorf("failed to unmarshal listing %d payload: %w", id, err)
	}
	record.ID = id
	return record, nil
}
