package usecase

import (
	"context"
	"fmt"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"
	"local-market/internal/dto/request"
	"local-market/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService interface {
	CreateProduct(ctx context.Context, callerID uuid.UUID, req *request.CreateProductRequest) (*response.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*response.ProductResponse, error)
	ListProducts(ctx context.Context, shopID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error)
	UpdateProduct(ctx context.Context, callerID, id uuid.UUID, req *request.UpdateProductRequest) (*response.ProductResponse, error)
	DeleteProduct(ctx context.Context, callerID, id uuid.UUID) error
}

type productService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewProductService(repo *repository.Repository, log *zap.Logger) ProductService {
	return &productService{
		repo: repo,
		log:  log.With(zap.String("service", "product")),
	}
}

func (s *productService) CreateProduct(ctx context.Context, callerID uuid.UUID, req *request.CreateProductRequest) (*response.ProductResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create product validation failed", zap.Error(err))
		return nil, err
	}

	shopID, err := parseID(req.ShopID, "shop_id")
	if err != nil {
		return nil, err
	}

	if err := s.authorizeShop(ctx, callerID, shopID); err != nil {
		return nil, err
	}

	product := &entity.Product{
		ID:     uuid.New(),
		Name:   req.Name,
		Price:  req.Price,
		ShopID: shopID,
	}

	if err := s.repo.Product.Create(ctx, product); err != nil {
		return nil, storeError(err, "product")
	}

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("shop_id", shopID.String()),
	)

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*response.ProductResponse, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) ListProducts(ctx context.Context, shopID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	req.Normalize()

	products, err := s.repo.Product.FindByShop(ctx, shopID, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list products", zap.Error(err), zap.String("shop_id", shopID.String()))
		return nil, err
	}

	total, err := s.repo.Product.CountByShop(ctx, shopID)
	if err != nil {
		s.log.Error("Failed to count products", zap.Error(err), zap.String("shop_id", shopID.String()))
		return nil, err
	}

	data := make([]response.ProductResponse, len(products))
	for i, p := range products {
		data[i] = response.ProductToResponse(p)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *productService) UpdateProduct(ctx context.Context, callerID, id uuid.UUID, req *request.UpdateProductRequest) (*response.ProductResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update product validation failed", zap.Error(err))
		return nil, err
	}

	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeShop(ctx, callerID, product.ShopID); err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		product.Price = *req.Price
	}

	if err := s.repo.Product.Update(ctx, product); err != nil {
		return nil, storeError(err, "product")
	}

	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) DeleteProduct(ctx context.Context, callerID, id uuid.UUID) error {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizeShop(ctx, callerID, product.ShopID); err != nil {
		return err
	}

	if err := s.repo.Product.Delete(ctx, id); err != nil {
		return storeError(err, "product")
	}
	return nil
}

func (s *productService) findProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product", ErrNotFound)
	}
	return product, nil
}

// authorizeShop lets an admin through and a seller only into own shops.
func (s *productService) authorizeShop(ctx context.Context, callerID, shopID uuid.UUID) error {
	actor, err := loadActor(ctx, s.repo.User, callerID)
	if err != nil {
		return err
	}

	shop, err := s.repo.Shop.FindByID(ctx, shopID)
	if err != nil {
		return err
	}
	if shop == nil {
		return fmt.Errorf("%w: shop", ErrNotFound)
	}

	if !canManageShop(actor, shop) {
		s.log.Warn("Product access denied",
			zap.String("user_id", callerID.String()),
			zap.String("shop_id", shopID.String()),
		)
		return ErrForbidden
	}
	return nil
}
