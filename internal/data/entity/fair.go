package entity

type Fair struct {
	Base
	Name      string  `db:"name"`
	Cep       string  `db:"cep"`
	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}
