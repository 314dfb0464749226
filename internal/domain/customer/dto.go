package customer

// CreateRequest is the body of POST /customers.
type CreateRequest struct {
	Name    string  `json:"name" validate:"required,notblank,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}

// UpdateRequest replaces every mutable field of a customer.
type UpdateRequest struct {
	Name    string  `json:"name" validate:"required,notblank,max=200"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500"`
}
