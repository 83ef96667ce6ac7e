package request

import "local-market/internal/data/entity"

type SignupRequest struct {
	Email    string          `json:"email" validate:"required,email"`
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Password string          `json:"password" validate:"required,min=6,max=72"`
	Role     entity.UserRole `json:"role" validate:"required,oneof=ADMIN SELLER CLIENT"`
	Client   *ClientData     `json:"client,omitempty" validate:"required_if=Role CLIENT"`
	Seller   *SellerData     `json:"seller,omitempty"`
}

// ClientData carries the postal code that gets geocoded on signup.
type ClientData struct {
	Cep string `json:"cep" validate:"required,min=8,max=9"`
}

type SellerData struct {
	Shop *ShopData `json:"shop,omitempty"`
}

type ShopData struct {
	FairID string `json:"fair_id" validate:"required,uuid"`
	Name   string `json:"name" validate:"required,min=2,max=100"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
