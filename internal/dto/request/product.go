package request

type CreateProductRequest struct {
	ShopID string  `json:"shop_id" validate:"required,uuid"`
	Name   string  `json:"name" validate:"required,min=1,max=100"`
	Price  float64 `json:"price" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name  *string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Price *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
}
