package repository

import (
	"context"
	"errors"
	"fmt"

	"local-market/internal/data/entity"
	"local-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type FairRepository interface {
	Create(ctx context.Context, fair *entity.Fair) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Fair, error)
	FindAll(ctx context.Context, limit, offset int, nameFilter *string) ([]*entity.Fair, error)
	CountAll(ctx context.Context, nameFilter *string) (int64, error)
	Update(ctx context.Context, fair *entity.Fair) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type fairRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewFairRepository(db database.Querier, log *zap.Logger) FairRepository {
	return &fairRepository{
		db:  db,
		log: log.With(zap.String("repository", "fair")),
	}
}

func (r *fairRepository) Create(ctx context.Context, fair *entity.Fair) error {
	query := `
		INSERT INTO fairs (id, name, cep, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		fair.ID,
		fair.Name,
		fair.Cep,
		fair.Latitude,
		fair.Longitude,
		fair.CreatedAt,
		fair.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create fair",
			zap.Error(err),
			zap.String("name", fair.Name),
			zap.String("cep", fair.Cep),
		)
		return fmt.Errorf("create fair %s: %w", fair.Name, err)
	}

	return nil
}

func (r *fairRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Fair, error) {
	query := `
		SELECT id, name, cep, latitude, longitude, created_at, updated_at
		FROM fairs
		WHERE id = $1
	`

	var fair entity.Fair
	err := r.db.QueryRow(ctx, query, id).Scan(
		&fair.ID,
		&fair.Name,
		&fair.Cep,
		&fair.Latitude,
		&fair.Longitude,
		&fair.CreatedAt,
		&fair.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find fair by ID", zap.Error(err), zap.String("fair_id", id.String()))
		return nil, fmt.Errorf("find fair by ID %s: %w", id.String(), err)
	}

	return &fair, nil
}

func (r *fairRepository) FindAll(ctx context.Context, limit, offset int, nameFilter *string) ([]*entity.Fair, error) {
	query := `
		SELECT id, name, cep, latitude, longitude, created_at, updated_at
		FROM fairs
		WHERE ($1::text IS NULL OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, nonEmpty(nameFilter), limit, offset)
	if err != nil {
		r.log.Error("Failed to find all fairs",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
			zap.Stringp("name_filter", nameFilter),
		)
		return nil, fmt.Errorf("find all fairs limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var fairs []*entity.Fair
	for rows.Next() {
		var fair entity.Fair
		err := rows.Scan(
			&fair.ID,
			&fair.Name,
			&fair.Cep,
			&fair.Latitude,
			&fair.Longitude,
			&fair.CreatedAt,
			&fair.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan fair row", zap.Error(err))
			return nil, fmt.Errorf("scan fair row: %w", err)
		}
		fairs = append(fairs, &fair)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate fair rows: %w", err)
	}

	return fairs, nil
}

func (r *fairRepository) CountAll(ctx context.Context, nameFilter *string) (int64, error) {
	query := `SELECT COUNT(*) FROM fairs WHERE ($1::text IS NULL OR name ILIKE '%' || $1 || '%')`

	var total int64
	if err := r.db.QueryRow(ctx, query, nonEmpty(nameFilter)).Scan(&total); err != nil {
		r.log.Error("Failed to count fairs", zap.Error(err), zap.Stringp("name_filter", nameFilter))
		return 0, fmt.Errorf("count all fairs: %w", err)
	}

	return total, nil
}

func (r *fairRepository) Update(ctx context.Context, fair *entity.Fair) error {
	query := `
		UPDATE fairs
		SET name = $2, cep = $3, latitude = $4, longitude = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		fair.ID,
		fair.Name,
		fair.Cep,
		fair.Latitude,
		fair.Longitude,
		fair.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update fair", zap.Error(err), zap.String("fair_id", fair.ID.String()))
		return fmt.Errorf("update fair %s: %w", fair.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func (r *fairRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM fairs WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete fair", zap.Error(err), zap.String("fair_id", id.String()))
		return fmt.Errorf("delete fair %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRows
	}

	r.log.Info("Fair deleted", zap.String("fair_id", id.String()))
	return nil
}

// nonEmpty maps a blank filter to SQL NULL.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
