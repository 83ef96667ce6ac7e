package entity

import (
	"encoding/json"

	"github.com/google/uuid"
)

type Shop struct {
	Base
	FairID     uuid.UUID       `db:"fair_id"`
	SellerID   uuid.UUID       `db:"seller_id"`
	Name       string          `db:"name"`
	Categories json.RawMessage `db:"categories"`
	IsOpen     bool            `db:"is_open"`
}
