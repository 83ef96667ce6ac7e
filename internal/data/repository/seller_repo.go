package repository

import (
	"context"
	"fmt"

	"local-market/internal/data/entity"
	"local-market/pkg/database"

	"go.uber.org/zap"
)

type SellerRepository interface {
	Create(ctx context.Context, seller *entity.Seller) error
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
}

type sellerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSellerRepository(db database.Querier, log *zap.Logger) SellerRepository {
	return &sellerRepository{
		db:  db,
		log: log.With(zap.String("repository", "seller")),
	}
}

func (r *sellerRepository) Create(ctx context.Context, seller *entity.Seller) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO sellers (id) VALUES ($1)`, seller.ID); err != nil {
		r.log.Error("Failed to create seller", zap.Error(err), zap.String("user_id", seller.ID.String()))
		return fmt.Errorf("create seller %s: %w", seller.ID.String(), err)
	}
	return nil
}

func (r *sellerRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	return findUsersJoined(ctx, r.db, r.log, "sellers", limit, offset)
}

func (r *sellerRepository) CountAll(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, r.log, "sellers")
}
