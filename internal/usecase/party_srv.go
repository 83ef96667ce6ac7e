package usecase

import (
	"context"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"
	"local-market/internal/dto/request"
	"local-market/internal/dto/response"

	"go.uber.org/zap"
)

// PartyService lists the role satellites together with their users.
type PartyService interface {
	ListAdmins(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	ListSellers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	ListClients(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ClientResponse], error)
}

type partyService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPartyService(repo *repository.Repository, log *zap.Logger) PartyService {
	return &partyService{
		repo: repo,
		log:  log.With(zap.String("service", "party")),
	}
}

type userLister interface {
	FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context) (int64, error)
}

func (s *partyService) ListAdmins(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	return s.listUsers(ctx, "admins", s.repo.Admin, req)
}

func (s *partyService) ListSellers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	return s.listUsers(ctx, "sellers", s.repo.Seller, req)
}

func (s *partyService) ListClients(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ClientResponse], error) {
	req.Normalize()

	clients, err := s.repo.Client.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list clients", zap.Error(err))
		return nil, err
	}

	total, err := s.repo.Client.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count clients", zap.Error(err))
		return nil, err
	}

	data := make([]response.ClientResponse, len(clients))
	for i, c := range clients {
		data[i] = response.ClientToResponse(c)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}

func (s *partyService) listUsers(ctx context.Context, kind string, lister userLister, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	req.Normalize()

	users, err := lister.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list users", zap.Error(err), zap.String("kind", kind))
		return nil, err
	}

	total, err := lister.CountAll(ctx)
	if err != nil {
		s.log.Error("Failed to count users", zap.Error(err), zap.String("kind", kind))
		return nil, err
	}

	data := make([]response.UserResponse, len(users))
	for i, u := range users {
		data[i] = response.UserToResponse(u)
	}

	return response.NewPaginatedResponse(data, req.Page, req.PerPage, total), nil
}
