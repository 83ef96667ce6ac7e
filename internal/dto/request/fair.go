package request

type CreateFairRequest struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
	Cep  string `json:"cep" validate:"required,min=8,max=9"`
}

// UpdateFairRequest patches only the fields that are present.
type UpdateFairRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Cep  *string `json:"cep,omitempty" validate:"omitempty,min=8,max=9"`
}

type FairFilterRequest struct {
	PaginatedRequest
	Name *string `json:"name,omitempty"`
}
