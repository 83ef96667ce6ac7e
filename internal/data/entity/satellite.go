package entity

import "github.com/google/uuid"

// Admin, Seller and Client share the id of their owning User.

type Admin struct {
	ID uuid.UUID `db:"id"`
}

type Seller struct {
	ID uuid.UUID `db:"id"`
}

type Client struct {
	ID        uuid.UUID `db:"id"`
	Cep       string    `db:"cep"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
}

// ClientAccount is a client joined with its user row.
type ClientAccount struct {
	User
	Cep       string  `db:"cep"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}
