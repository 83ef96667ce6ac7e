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

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	FindByShop(ctx context.Context, shopID uuid.UUID, limit, offset int) ([]*entity.Product, error)
	CountByShop(ctx context.Context, shopID uuid.UUID) (int64, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewProductRepository(db database.Querier, log *zap.Logger) ProductRepository {
	return &productRepository{
		db:  db,
		log: log.With(zap.String("repository", "product")),
	}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	query := `INSERT INTO products (id, name, price, shop_id) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Price, product.ShopID)
	if err != nil {
		r.log.Error("Failed to create product",
			zap.Error(err),
			zap.String("name", product.Name),
			zap.String("shop_id", product.ShopID.String()),
		)
		return fmt.Errorf("create product %s: %w", product.Name, err)
	}

	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	query := `SELECT id, name, price, shop_id FROM products WHERE id = $1`

	var product entity.Product
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Price, &product.ShopID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find product by ID", zap.Error(err), zap.String("product_id", id.String()))
		return nil, fmt.Errorf("find product by ID %s: %w", id.String(), err)
	}

	return &product, nil
}

func (r *productRepository) FindByShop(ctx context.Context, shopID uuid.UUID, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT id, name, price, shop_id
		FROM products
		WHERE shop_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, shopID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find products by shop", zap.Error(err), zap.String("shop_id", shopID.String()))
		return nil, fmt.Errorf("find products by shop %s: %w", shopID.String(), err)
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		var product entity.Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.ShopID); err != nil {
			r.log.Error("Failed to scan product row", zap.Error(err))
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, &product)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (r *productRepository) CountByShop(ctx context.Context, shopID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE shop_id = $1`, shopID).Scan(&total); err != nil {
		r.log.Error("Failed to count products", zap.Error(err), zap.String("shop_id", shopID.String()))
		return 0, fmt.Errorf("count products by shop %s: %w", shopID.String(), err)
	}
	return total, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	query := `UPDATE products SET name = $2, price = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Price)
	if err != nil {
		r.log.Error("Failed to update product", zap.Error(err), zap.String("product_id", product.ID.String()))
		return fmt.Errorf("update product %s: %w", product.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete product", zap.Error(err), zap.String("product_id", id.String()))
		return fmt.Errorf("delete product %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoRows
	}

	r.log.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}
