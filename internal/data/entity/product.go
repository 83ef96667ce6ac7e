package entity

import "github.com/google/uuid"

type Product struct {
	ID     uuid.UUID `db:"id"`
	Name   string    `db:"name"`
	Price  float64   `db:"price"`
	ShopID uuid.UUID `db:"shop_id"`
}
