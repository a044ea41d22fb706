package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentHistory is one settlement event recorded against an expense.
// Rows are appended exactly once per successful payment and never updated.
type PaymentHistory struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// ExpenseID is the expense this payment settles against.
	ExpenseID string

	// Amount is this single payment, always > 0.
	Amount decimal.Decimal

	// ClearedBy is the member ID who made the payment.
	ClearedBy string

	// Timestamp is when the payment was applied.
	Timestamp time.Time

	// Seq orders entries that share a Timestamp. Assigned by the store.
	Seq int64
}
