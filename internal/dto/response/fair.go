package response

import (
	"encoding/json"
	"time"

	"local-market/internal/data/entity"
)

type FairResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Cep       string    `json:"cep"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ShopResponse struct {
	ID         string          `json:"id"`
	FairID     string          `json:"fair_id"`
	SellerID   string          `json:"seller_id"`
	Name       string          `json:"name"`
	Categories json.RawMessage `json:"categories"`
	IsOpen     bool            `json:"is_open"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ProductResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	ShopID string  `json:"shop_id"`
}

func FairToResponse(f *entity.Fair) FairResponse {
	return FairResponse{
		ID:        f.ID.String(),
		Name:      f.Name,
		Cep:       f.Cep,
		Latitude:  f.Latitude,
		Longitude: f.Longitude,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func ShopToResponse(s *entity.Shop) ShopResponse {
	return ShopResponse{
		ID:         s.ID.String(),
		FairID:     s.FairID.String(),
		SellerID:   s.SellerID.String(),
		Name:       s.Name,
		Categories: s.Categories,
		IsOpen:     s.IsOpen,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

func ProductToResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:     p.ID.String(),
		Name:   p.Name,
		Price:  p.Price,
		ShopID: p.ShopID.String(),
	}
}
