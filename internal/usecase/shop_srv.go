package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"
	"local-market/internal/dto/request"
	"local-market/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ShopService interface {
	CreateShop(ctx context.Context, callerID uuid.UUID, req *request.CreateShopRequest) (*response.ShopResponse, error)
	GetShop(ctx context.Context, id uuid.UUID) (*response.ShopResponse, error)
	ListShops(ctx context.Context, req *request.ShopFilterRequest) (*response.PaginatedResponse[response.ShopResponse], error)
	UpdateShop(ctx context.Context, callerID, id uuid.UUID, req *request.UpdateShopRequest) (*response.ShopResponse, error)
	DeleteShop(ctx context.Context, callerID, id uuid.UUID) error
}

type shopService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewShopService(repo *repository.Repository, log *zap.Logger) ShopService {
	return &shopService{
		repo: repo,
		log:  log.With(zap.String("service", "shop")),
	}
}

// CreateShop assigns the shop to the calling seller. An admin must name the seller.
func (s *shopService) CreateShop(ctx context.Context, callerID uuid.UUID, req *request.CreateShopRequest) (*response.ShopResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create shop validation failed", zap.Error(err))
		return nil, err
	}

	actor, err := loadActor(ctx, s.repo.User, callerID)
	if err != nil {
		return nil, err
	}

	fairID, err := parseID(req.FairID, "fair_id")
	if err != nil {
		return nil, err
	}

	var sellerID uuid.UUID
	switch actor.Role {
	case entity.RoleSeller:
		sellerID = actor.ID
	case entity.RoleAdmin:
		if req.SellerID == nil {
			return nil, fmt.Errorf("%w: seller_id is required", ErrValidation)
		}
		if sellerID, err = parseID(*req.SellerID, "seller_id"); err != nil {
			return nil, err
		}
	default:
		return nil, ErrForbidden
	}

	categories := req.Categories
	if len(categories) == 0 {
		categories = json.RawMessage(`{}`)
	}
	isOpen := true
	if req.IsOpen != nil {
		isOpen = *req.IsOpen
	}

	now := time.Now()
	shop := &entity.Shop{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FairID:     fairID,
		SellerID:   sellerID,
		Name:       req.Name,
		Categories: categories,
		IsOpen:     isOpen,
	}

	if err := s.repo.Shop.Create(ctx, shop); err != nil {
		return nil, storeError(err, "shop")
	}

	s.log.Info("Shop created",
		zap.String("shop_id", shop.ID.String()),
		zap.String("seller_id", sellerID.String()),
	)

	resp := response.ShopToResponse(shop)
	return &resp, nil
}

func (s *shopService) GetShop(ctx context.Context, id uuid.UUID) (*response.ShopResponse, error) {
	shop, err := s.findShop(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := response.ShopToResponse(shop)
	return &resp, nil
}

func (s *shopService) ListShops(ctx context.Context, req *request.ShopFilterRequest) (*response.PaginatedResponse[response.ShopResponse], error) {
	req.Normalize()
	if err := validate(req); err != nil {
		return nil, err
	}

	var filter repository.ShopFilter
	if req.FairID != nil {
		id := uuid.MustParse(*req.FairID)
		filter.FairID = &id
	}
	if req.SellerID != nil {
		id := uuid.MustParse(*req.SellerID)
		filter.SellerID = &id
	}

	shops, err := s.repo.Shop.FindAll(ctx, req.Limit(), req.Offset(), filter)
	if err != nil {
		s.log.Error("Failed to list shops", zap.Error(err))
		return nil, err
	}

	total, err := s.repo.Shop.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count shops", zap.Error(err))
		return nil, err
	}

	data := make([]response.ShopResponse, len(shops))
	for i, sh := range shops {
		data[i] = response.ShopToResponse(sh)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *shopService) UpdateShop(ctx context.Context, callerID, id uuid.UUID, req *request.UpdateShopRequest) (*response.ShopResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update shop validation failed", zap.Error(err))
		return nil, err
	}

	shop, err := s.ownedShop(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	if req.FairID != nil {
		shop.FairID = uuid.MustParse(*req.FairID)
	}
	if req.Name != nil {
		shop.Name = *req.Name
	}
	if len(req.Categories) > 0 {
		shop.Categories = req.Categories
	}
	if req.IsOpen != nil {
		shop.IsOpen = *req.IsOpen
	}
	shop.UpdatedAt = time.Now()

	if err := s.repo.Shop.Update(ctx, shop); err != nil {
		return nil, storeError(err, "shop")
	}

	s.log.Info("Shop updated", zap.String("shop_id", shop.ID.String()))

	resp := response.ShopToResponse(shop)
	return &resp, nil
}

func (s *shopService) DeleteShop(ctx context.Context, callerID, id uuid.UUID) error {
	if _, err := s.ownedShop(ctx, callerID, id); err != nil {
		return err
	}

	if err := s.repo.Shop.Delete(ctx, id); err != nil {
		return storeError(err, "shop")
	}
	return nil
}

func (s *shopService) findShop(ctx context.Context, id uuid.UUID) (*entity.Shop, error) {
	shop, err := s.repo.Shop.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, fmt.Errorf("%w: shop", ErrNotFound)
	}
	return shop, nil
}

// ownedShop loads the shop and checks the caller may change it.
func (s *shopService) ownedShop(ctx context.Context, callerID, id uuid.UUID) (*entity.Shop, error) {
	actor, err := loadActor(ctx, s.repo.User, callerID)
	if err != nil {
		return nil, err
	}

	shop, err := s.findShop(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canManageShop(actor, shop) {
		s.log.Warn("Shop access denied",
			zap.String("user_id", callerID.String()),
			zap.String("shop_id", id.String()),
		)
		return nil, ErrForbidden
	}
	return shop, nil
}
