package usecase

import (
	"context"
	"slices"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoleGuard interface {
	// Authorize reports whether userID may reach a route that requires one
	// of required. An empty set only requires authentication. The role is
	// read from storage on every call and any lookup failure denies.
	Authorize(ctx context.Context, userID uuid.UUID, required []entity.UserRole) bool
}

type roleGuard struct {
	users repository.UserRepository
	log   *zap.Logger
}

func NewRoleGuard(users repository.UserRepository, log *zap.Logger) RoleGuard {
	return &roleGuard{
		users: users,
		log:   log.With(zap.String("service", "role_guard")),
	}
}

func (g *roleGuard) Authorize(ctx context.Context, userID uuid.UUID, required []entity.UserRole) bool {
	if len(required) == 0 {
		return true
	}

	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		g.log.Error("Role lookup failed, denying", zap.Error(err), zap.String("user_id", userID.String()))
		return false
	}
	if user == nil {
		g.log.Warn("Role lookup found no user, denying", zap.String("user_id", userID.String()))
		return false
	}

	return slices.Contains(required, user.Role)
}
