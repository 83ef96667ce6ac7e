package usecase

import (
	"context"
	"fmt"
	"time"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"
	"local-market/internal/dto/request"
	"local-market/internal/dto/response"
	"local-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FairService interface {
	CreateFair(ctx context.Context, req *request.CreateFairRequest) (*response.FairResponse, error)
	GetFair(ctx context.Context, id uuid.UUID) (*response.FairResponse, error)
	ListFairs(ctx context.Context, req *request.FairFilterRequest) (*response.PaginatedResponse[response.FairResponse], error)
	UpdateFair(ctx context.Context, id uuid.UUID, req *request.UpdateFairRequest) (*response.FairResponse, error)
	DeleteFair(ctx context.Context, id uuid.UUID) error
}

type fairService struct {
	fairRepo repository.FairRepository
	geocoder Geocoder
	log      *zap.Logger
}

func NewFairService(fairRepo repository.FairRepository, geocoder Geocoder, log *zap.Logger) FairService {
	return &fairService{
		fairRepo: fairRepo,
		geocoder: geocoder,
		log:      log.With(zap.String("service", "fair")),
	}
}

func (s *fairService) CreateFair(ctx context.Context, req *request.CreateFairRequest) (*response.FairResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create fair validation failed", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	fair := &entity.Fair{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name: req.Name,
		Cep:  utils.DigitsOnly(req.Cep),
	}

	if err := s.locate(ctx, fair); err != nil {
		return nil, err
	}

	if err := s.fairRepo.Create(ctx, fair); err != nil {
		return nil, storeError(err, "fair")
	}

	s.log.Info("Fair created", zap.String("fair_id", fair.ID.String()), zap.String("name", fair.Name))

	resp := response.FairToResponse(fair)
	return &resp, nil
}

func (s *fairService) GetFair(ctx context.Context, id uuid.UUID) (*response.FairResponse, error) {
	fair, err := s.fairRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fair == nil {
		return nil, fmt.Errorf("%w: fair", ErrNotFound)
	}

	resp := response.FairToResponse(fair)
	return &resp, nil
}

func (s *fairService) ListFairs(ctx context.Context, req *request.FairFilterRequest) (*response.PaginatedResponse[response.FairResponse], error) {
	req.Normalize()

	fairs, err := s.fairRepo.FindAll(ctx, req.Limit(), req.Offset(), req.Name)
	if err != nil {
		s.log.Error("Failed to list fairs", zap.Error(err))
		return nil, err
	}

	total, err := s.fairRepo.CountAll(ctx, req.Name)
	if err != nil {
		s.log.Error("Failed to count fairs", zap.Error(err))
		return nil, err
	}

	data := make([]response.FairResponse, len(fairs))
	for i, f := range fairs {
		data[i] = response.FairToResponse(f)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

// UpdateFair re-geocodes only when the cep actually changes.
func (s *fairService) UpdateFair(ctx context.Context, id uuid.UUID, req *request.UpdateFairRequest) (*response.FairResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update fair validation failed", zap.Error(err))
		return nil, err
	}

	fair, err := s.fairRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fair == nil {
		return nil, fmt.Errorf("%w: fair", ErrNotFound)
	}

	if req.Name != nil {
		fair.Name = *req.Name
	}
	if req.Cep != nil {
		if cep := utils.DigitsOnly(*req.Cep); cep != fair.Cep {
			fair.Cep = cep
			if err := s.locate(ctx, fair); err != nil {
				return nil, err
			}
		}
	}
	fair.UpdatedAt = time.Now()

	if err := s.fairRepo.Update(ctx, fair); err != nil {
		return nil, storeError(err, "fair")
	}

	s.log.Info("Fair updated", zap.String("fair_id", fair.ID.String()))

	resp := response.FairToResponse(fair)
	return &resp, nil
}

func (s *fairService) DeleteFair(ctx context.Context, id uuid.UUID) error {
	if err := s.fairRepo.Delete(ctx, id); err != nil {
		return storeError(err, "fair")
	}
	return nil
}

func (s *fairService) locate(ctx context.Context, fair *entity.Fair) error {
	coords, err := s.geocoder.Coordinates(ctx, fair.Cep)
	if err != nil {
		if unresolvableCEP(err) {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		s.log.Error("Failed to geocode fair", zap.Error(err), zap.String("cep", fair.Cep))
		return fmt.Errorf("geocode cep %s: %w", fair.Cep, err)
	}

	fair.Latitude = coords.Latitude
	fair.Longitude = coords.Longitude
	return nil
}
