package request

import "encoding/json"

type CreateShopRequest struct {
	FairID     string          `json:"fair_id" validate:"required,uuid"`
	SellerID   *string         `json:"seller_id,omitempty" validate:"omitempty,uuid"`
	Name       string          `json:"name" validate:"required,min=2,max=100"`
	Categories json.RawMessage `json:"categories,omitempty"`
	IsOpen     *bool           `json:"is_open,omitempty"`
}

type UpdateShopRequest struct {
	FairID     *string         `json:"fair_id,omitempty" validate:"omitempty,uuid"`
	Name       *string         `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Categories json.RawMessage `json:"categories,omitempty"`
	IsOpen     *bool           `json:"is_open,omitempty"`
}

type ShopFilterRequest struct {
	PaginatedRequest
	FairID   *string `validate:"omitempty,uuid"`
	SellerID *string `validate:"omitempty,uuid"`
}
