package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"local-market/internal/data/entity"
	"local-market/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ShopFilter struct {
	FairID   *uuid.UUID
	SellerID *uuid.UUID
}

type ShopRepository interface {
	Create(ctx context.Context, shop *entity.Shop) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error)
	FindAll(ctx context.Context, limit, offset int, filter ShopFilter) ([]*entity.Shop, error)
	CountAll(ctx context.Context, filter ShopFilter) (int64, error)
	Update(ctx context.Context, shop *entity.Shop) error
	Delete(ctx context.Context, id uuid.UUID) error
}

const shopColumns = `id, fair_id, seller_id, name, categories, is_open, created_at, updated_at`

type shopRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewShopRepository(db database.Querier, log *zap.Logger) ShopRepository {
	return &shopRepository{
		db:  db,
		log: log.With(zap.String("repository", "shop")),
	}
}

func (r *shopRepository) Create(ctx context.Context, shop *entity.Shop) error {
	query := `
		INSERT INTO shops (id, fair_id, seller_id, name, categories, is_open, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		shop.ID,
		shop.FairID,
		shop.SellerID,
		shop.Name,
		shop.Categories,
		shop.IsOpen,
		shop.CreatedAt,
		shop.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create shop",
			zap.Error(err),
			zap.String("name", shop.Name),
			zap.String("fair_id", shop.FairID.String()),
			zap.String("seller_id", shop.SellerID.String()),
		)
		return fmt.Errorf("create shop %s: %w", shop.Name, err)
	}

	return nil
}

func (r *shopRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	query := `SELECT ` + shopColumns + ` FROM shops WHERE id = $1`

	shop, err := scanShop(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find shop by ID", zap.Error(err), zap.String("shop_id", id.String()))
		return nil, fmt.Errorf("find shop by ID %s: %w", id.String(), err)
	}

	return shop, nil
}

func (r *shopRepository) FindAll(ctx context.Context, limit, offset int, filter ShopFilter) ([]*entity.Shop, error) {
	where, args := filter.where()

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + shopColumns + ` FROM shops`)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY name LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2))
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all shops", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("find all shops limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var shops []*entity.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			r.log.Error("Failed to scan shop row", zap.Error(err))
			return nil, fmt.Errorf("scan shop row: %w", err)
		}
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate shop rows: %w", err)
	}

	return shops, nil
}

func (r *shopRepository) CountAll(ctx context.Context, filter ShopFilter) (int64, error) {
	where, args := filter.where()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM shops`+where, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count shops", zap.Error(err))
		return 0, fmt.Errorf("count all shops: %w", err)
	}

	return total, nil
}

func (r *shopRepository) Update(ctx context.Context, shop *entity.Shop) error {
	query := `
		UPDATE shops
		SET fair_id = $2, name = $3, categories = $4, is_open = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		shop.ID,
		shop.FairID,
		shop.Name,
		shop.Categories,
		shop.IsOpen,
		shop.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update shop", zap.Error(err), zap.String("shop_id", shop.ID.String()))
		return fmt.Errorf("update shop %s: %w", shop.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func (r *shopRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete shop", zap.Error(err), zap.String("shop_id", id.String()))
		return fmt.Errorf("delete shop %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRows
	}

	r.log.Info("Shop deleted", zap.String("shop_id", id.String()))
	return nil
}

func (f ShopFilter) where() (string, []any) {
	var conds []string
	var args []any

	if f.FairID != nil {
		args = append(args, *f.FairID)
		conds = append(conds, fmt.Sprintf("fair_id = $%d", len(args)))
	}
	if f.SellerID != nil {
		args = append(args, *f.SellerID)
		conds = append(conds, fmt.Sprintf("seller_id = $%d", len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanShop(row pgx.Row) (*entity.Shop, error) {
	var shop entity.Shop
	err := row.Scan(
		&shop.ID,
		&shop.FairID,
		&shop.SellerID,
		&shop.Name,
		&shop.Categories,
		&shop.IsOpen,
		&shop.CreatedAt,
		&shop.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &shop, nil
}
