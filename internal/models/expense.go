package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for Expense.Date on the wire and in storage.
const DateLayout = "2006-01-02"

// Expense is the ledger record for one shared cost.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	Description string

	// Date is the calendar date the cost occurred (midnight UTC).
	Date time.Time

	// Amount is the total owed.
	Amount decimal.Decimal

	// MemberID is the owning member. Empty means unassigned.
	MemberID string

	// ClearedAmount is the cumulative sum of all payments applied so far.
	ClearedAmount decimal.Decimal

	// RemainingAmount is always Amount - ClearedAmount.
	RemainingAmount decimal.Decimal

	// Cleared is true iff RemainingAmount is zero.
	Cleared bool

	// LastClearedAmount, LastClearedBy and LastClearedAt project the newest
	// PaymentHistory row. They are zero values until the first payment.
	LastClearedAmount decimal.Decimal
	LastClearedBy     string
	LastClearedAt     time.Time

	// ClearedBy and ClearedAt are set once, when Cleared flips to true.
	ClearedBy string
	ClearedAt time.Time

	// Soft-delete marker. Deleted expenses drop out of active listings
	// but remain reachable by ID and by payment history.
	IsDeleted bool
	DeletedBy string
	DeletedAt time.Time

	// Version increments on every write and guards compare-and-swap updates.
	Version int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// Recompute derives RemainingAmount and Cleared from Amount and ClearedAmount.
func (e *Expense) Recompute() {
	e.RemainingAmount = e.Amount.Sub(e.ClearedAmount)
	e.Cleared = e.RemainingAmount.Sign() == 0
}

// HasPayments reports whether any payment was applied.
func (e *Expense) HasPayments() bool {
	return e.ClearedAmount.Sign() > 0
}

// ExpenseRequest carries the caller-supplied fields for creating or
// replacing an expense.
type ExpenseRequest struct {
	Description string
	Date        time.Time
	Amount      decimal.Decimal
	MemberID    string
}
