package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a person who buys on credit.
// The three totals are a cache maintained by the balance recalculator.
type Customer struct {
	ID                 uuid.UUID       `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	Phone              *string         `db:"phone" json:"phone"`
	Address            *string         `db:"address" json:"address"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	TotalCredit        decimal.Decimal `db:"total_credit" json:"total_credit"`
	TotalPaid          decimal.Decimal `db:"total_paid" json:"total_paid"`
	OutstandingBalance decimal.Decimal `db:"outstanding_balance" json:"outstanding_balance"`
}
