package repository

import (
	"errors"

	"local-market/pkg/database"

	"go.uber.org/zap"
)

// ErrNoRows is returned by writes that matched nothing.
var ErrNoRows = errors.New("no rows affected")

type Repository struct {
	User    UserRepository
	Admin   AdminRepository
	Seller  SellerRepository
	Client  ClientRepository
	Fair    FairRepository
	Shop    ShopRepository
	Product ProductRepository
}

// NewRepository binds every repository to q, which is either the pool or an
// open transaction.
func NewRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:    NewUserRepository(q, log),
		Admin:   NewAdminRepository(q, log),
		Seller:  NewSellerRepository(q, log),
		Client:  NewClientRepository(q, log),
		Fair:    NewFairRepository(q, log),
		Shop:    NewShopRepository(q, log),
		Product: NewProductRepository(q, log),
	}
}
