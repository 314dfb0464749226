package entry

import (
	"github.com/creditbook/creditbook-api/internal/pkg/isotime"
	"github.com/creditbook/creditbook-api/internal/pkg/money"
)

// CreateRequest is the body of POST /credit-entries.
// CustomerID stays a string so that a malformed id reads as an unknown customer.
type CreateRequest struct {
	CustomerID  string        `json:"customer_id" validate:"required"`
	Amount      *money.Amount `json:"amount" validate:"required"`
	Description *string       `json:"description" validate:"omitempty,max=1000"`
	Date        *isotime.Time `json:"date" validate:"required"`
	ImageData   *string       `json:"image_data"`
}

// UpdateRequest is a sparse patch: nil fields are left unchanged.
type UpdateRequest struct {
	Amount      *money.Amount `json:"amount"`
	Description *string       `json:"description" validate:"omitempty,max=1000"`
	Date        *isotime.Time `json:"date"`
	IsPaid      *bool         `json:"is_paid"`
	PaidAmount  *money.Amount `json:"paid_amount"`
}

// ApplyTo copies the supplied fields onto e.
func (r *UpdateRequest) ApplyTo(e *Entry) {
	if r.Amount != nil {
		e.Amount = r.Amount.Decimal
	}
	if r.Description != nil {
		e.Description = r.Description
	}
	if r.Date != nil {
		e.Date = r.Date.Time
	}
	if r.IsPaid != nil {
		e.IsPaid = *r.IsPaid
	}
	if r.PaidAmount != nil {
		e.PaidAmount = r.PaidAmount.Decimal
	}
}

// PaymentRequest sets the payment state of an entry. The two fields are
// independent of each other.
type PaymentRequest struct {
	IsPaid     *bool         `json:"is_paid" validate:"required"`
	PaidAmount *money.Amount `json:"paid_amount" validate:"required"`
}
