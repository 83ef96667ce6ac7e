package response

import (
	"time"

	"local-market/internal/data/entity"
)

type UserResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      entity.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ClientResponse struct {
	UserResponse
	Cep       string  `json:"cep"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UserToResponse never exposes the password or refresh-token hashes.
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func ClientToResponse(c *entity.ClientAccount) ClientResponse {
	return ClientResponse{
		UserResponse: UserToResponse(&c.User),
		Cep:          c.Cep,
		Latitude:     c.Latitude,
		Longitude:    c.Longitude,
	}
}
