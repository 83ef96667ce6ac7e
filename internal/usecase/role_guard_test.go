package usecase

import (
	"context"
	"testing"

	"local-market/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func seedUser(s *memStore, role entity.UserRole) uuid.UUID {
	id := uuid.New()
	s.users[id] = entity.User{
		Base:  entity.Base{ID: id},
		Email: id.String() + "@example.com",
		Role:  role,
	}
	return id
}

func TestRoleGuard_Authorize(t *testing.T) {
	store := newMemStore()
	guard := NewRoleGuard(newFakeRepos(store).User, zap.NewNop())

	admin := seedUser(store, entity.RoleAdmin)
	client := seedUser(store, entity.RoleClient)
	adminOnly := []entity.UserRole{entity.RoleAdmin}

	tests := []struct {
		name     string
		userID   uuid.UUID
		required []entity.UserRole
		want     bool
	}{
		{"admin route allows admin", admin, adminOnly, true},
		{"admin route denies client", client, adminOnly, false},
		{"no declared roles allows any user", client, nil, true},
		{"multi-role route", client, []entity.UserRole{entity.RoleSeller, entity.RoleClient}, true},
		{"unknown user is denied", uuid.New(), adminOnly, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Authorize(context.Background(), tt.userID, tt.required))
		})
	}
}

func TestRoleGuard_UsesStoredRoleNotClaim(t *testing.T) {
	store := newMemStore()
	guard := NewRoleGuard(newFakeRepos(store).User, zap.NewNop())

	id := seedUser(store, entity.RoleAdmin)
	assert.True(t, guard.Authorize(context.Background(), id, []entity.UserRole{entity.RoleAdmin}))

	// demotion takes effect on the very next check
	u := store.users[id]
	u.Role = entity.RoleClient
	store.users[id] = u

	assert.False(t, guard.Authorize(context.Background(), id, []entity.UserRole{entity.RoleAdmin}))
}

func TestRoleGuard_LookupFailureDenies(t *testing.T) {
	store := newMemStore()
	id := seedUser(store, entity.RoleAdmin)
	store.failOn["user.find"] = errStorage

	guard := NewRoleGuard(newFakeRepos(store).User, zap.NewNop())

	assert.False(t, guard.Authorize(context.Background(), id, []entity.UserRole{entity.RoleAdmin}))
}
