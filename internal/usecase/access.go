package usecase

import (
	"context"
	"errors"
	"fmt"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"
	"local-market/pkg/database"
	"local-market/pkg/utils"

	"github.com/google/uuid"
)

// loadActor re-reads the caller so ownership checks never trust token claims.
func loadActor(ctx context.Context, users repository.UserRepository, id uuid.UUID) (*entity.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrForbidden
	}
	return user, nil
}

func canManageShop(actor *entity.User, shop *entity.Shop) bool {
	switch actor.Role {
	case entity.RoleAdmin:
		return true
	case entity.RoleSeller:
		return shop.SellerID == actor.ID
	}
	return false
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}
	return nil
}

func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", ErrValidation, field)
	}
	return id, nil
}

// storeError maps repository failures shared by all write paths.
func storeError(err error, what string) error {
	switch {
	case errors.Is(err, repository.ErrNoRows):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case database.IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %s references a missing record", ErrNotFound, what)
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%w: %s", ErrConflict, what)
	}
	return err
}
