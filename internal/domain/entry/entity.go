package entry

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Entry is one credit sale to a customer, with whatever has been paid
// against it. ImageData is an inline encoded receipt photo kept as-is.
type Entry struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	CustomerID  uuid.UUID       `db:"customer_id" json:"customer_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description *string         `db:"description" json:"description"`
	Date        time.Time       `db:"date" json:"date"`
	ImageData   *string         `db:"image_data" json:"image_data"`
	IsPaid      bool            `db:"is_paid" json:"is_paid"`
	PaidAmount  decimal.Decimal `db:"paid_amount" json:"paid_amount"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}
