package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"local-market/internal/data/entity"
	"local-market/internal/data/repository"
	"local-market/pkg/database"
	"local-market/pkg/geocode"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NewUser is the input of the creation transaction. PasswordHash is already hashed.
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
	Role         entity.UserRole
	Cep          string   // CLIENT only
	Shop         *NewShop // SELLER only, optional
}

type NewShop struct {
	FairID uuid.UUID
	Name   string
}

// Geocoder resolves a postal code to coordinates. Satisfied by *geocode.Client.
type Geocoder interface {
	Coordinates(ctx context.Context, cep string) (geocode.Coordinates, error)
}

// RepositoryFactory binds the repositories to a unit of work.
type RepositoryFactory func(q database.Querier) *repository.Repository

type UserCreator interface {
	// Create inserts the user and its role satellite in one transaction.
	// Either both rows persist or neither does.
	Create(ctx context.Context, in *NewUser) (*entity.User, error)
}

type userCreator struct {
	tx       database.Transactor
	repos    RepositoryFactory
	geocoder Geocoder
	timeout  time.Duration
	log      *zap.Logger
}

func NewUserCreator(
	tx database.Transactor,
	repos RepositoryFactory,
	geocoder Geocoder,
	timeout time.Duration,
	log *zap.Logger,
) UserCreator {
	return &userCreator{
		tx:       tx,
		repos:    repos,
		geocoder: geocoder,
		timeout:  timeout,
		log:      log.With(zap.String("service", "user_creator")),
	}
}

func (c *userCreator) Create(ctx context.Context, in *NewUser) (*entity.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, in.Role)
	}
	if in.Role == entity.RoleClient && in.Cep == "" {
		return nil, fmt.Errorf("%w: client requires a cep", ErrValidation)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: in.PasswordHash,
		Role:         in.Role,
	}

	err := c.tx.WithinTx(ctx, func(q database.Querier) error {
		repo := c.repos(q)

		if err := repo.User.Create(ctx, user); err != nil {
			return err
		}

		switch user.Role {
		case entity.RoleAdmin:
			return repo.Admin.Create(ctx, &entity.Admin{ID: user.ID})
		case entity.RoleSeller:
			return c.createSeller(ctx, repo, user, in.Shop, now)
		case entity.RoleClient:
			return c.createClient(ctx, repo, user, in.Cep)
		}
		return nil
	})
	if err != nil {
		return nil, c.translate(err, user)
	}

	c.log.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

func (c *userCreator) createSeller(ctx context.Context, repo *repository.Repository, user *entity.User, shop *NewShop, now time.Time) error {
	if err := repo.Seller.Create(ctx, &entity.Seller{ID: user.ID}); err != nil {
		return err
	}
	if shop == nil {
		return nil
	}

	fair, err := repo.Fair.FindByID(ctx, shop.FairID)
	if err != nil {
		return err
	}
	if fair == nil {
		return fmt.Errorf("%w: fair %s", ErrNotFound, shop.FairID.String())
	}

	return repo.Shop.Create(ctx, &entity.Shop{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FairID:     fair.ID,
		SellerID:   user.ID,
		Name:       shop.Name,
		Categories: json.RawMessage(`{}`),
		IsOpen:     true,
	})
}

func (c *userCreator) createClient(ctx context.Context, repo *repository.Repository, user *entity.User, cep string) error {
	coords, err := c.geocoder.Coordinates(ctx, cep)
	if err != nil {
		return fmt.Errorf("geocode cep %s: %w", cep, err)
	}

	return repo.Client.Create(ctx, &entity.Client{
		ID:        user.ID,
		Cep:       cep,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	})
}

// translate maps a rolled-back transaction error onto the service taxonomy.
// Anything unrecognised propagates unchanged.
func (c *userCreator) translate(err error, user *entity.User) error {
	switch {
	case database.IsUniqueViolation(err):
		c.log.Warn("User creation conflict", zap.String("email", user.Email))
		return fmt.Errorf("%w: email %s", ErrConflict, user.Email)
	case unresolvableCEP(err):
		c.log.Warn("User creation rejected, cep not resolvable", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("%w: %v", ErrValidation, err)
	default:
		c.log.Error("User creation rolled back", zap.Error(err), zap.String("email", user.Email))
		return err
	}
}

func unresolvableCEP(err error) bool {
	return errors.Is(err, geocode.ErrInvalidCEP) ||
		errors.Is(err, geocode.ErrCEPNotFound) ||
		errors.Is(err, geocode.ErrNoResults)
}
