package usecase

import (
	"local-market/internal/data/repository"
	"local-market/pkg/database"
	"local-market/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Party   PartyService
	Fair    FairService
	Shop    ShopService
	Product ProductService
	Guard   RoleGuard
}

// Deps are the collaborators built in main and shared by every service.
type Deps struct {
	Tx       database.Transactor
	Repos    RepositoryFactory
	Geocoder Geocoder
	Hasher   CredentialHasher
	Issuer   TokenIssuer
}

func NewService(repo *repository.Repository, deps Deps, config *utils.Config, log *zap.Logger) *Service {
	creator := NewUserCreator(deps.Tx, deps.Repos, deps.Geocoder, config.Database.TxTimeout, log)

	return &Service{
		Auth:    NewAuthService(repo.User, creator, deps.Hasher, deps.Issuer, log),
		User:    NewUserService(repo.User, log),
		Party:   NewPartyService(repo, log),
		Fair:    NewFairService(repo.Fair, deps.Geocoder, log),
		Shop:    NewShopService(repo, log),
		Product: NewProductService(repo, log),
		Guard:   NewRoleGuard(repo.User, log),
	}
}
