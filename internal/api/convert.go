package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
)

// ToExpense converts a ledger expense to its wire form.
func ToExpense(e *models.Expense) *Expense {
	out := &Expense{
		ID:              e.ID,
		Description:     e.Description,
		Date:            e.Date.Format(models.DateLayout),
		Amount:          money.Format(e.Amount),
		MemberID:        e.MemberID,
		ClearedAmount:   money.Format(e.ClearedAmount),
		RemainingAmount: money.Format(e.RemainingAmount),
		Cleared:         e.Cleared,
		LastClearedBy:   e.LastClearedBy,
		LastClearedAt:   formatTime(e.LastClearedAt),
		ClearedBy:       e.ClearedBy,
		ClearedAt:       formatTime(e.ClearedAt),
		IsDeleted:       e.IsDeleted,
		DeletedBy:       e.DeletedBy,
		DeletedAt:       formatTime(e.DeletedAt),
		Version:         e.Version,
		CreatedAt:       e.CreatedAt,
	}
	if e.LastClearedBy != "" {
		out.LastClearedAmount = money.Format(e.LastClearedAmount)
	}
	return out
}

func ToExpenses(expenses []*models.Expense) []*Expense {
	out := make([]*Expense, len(expenses))
	for i, e := range expenses {
		out[i] = ToExpense(e)
	}
	return out
}

func ToPayments(entries []*models.PaymentHistory) []*Payment {
	out := make([]*Payment, len(entries))
	for i, h := range entries {
		out[i] = &Payment{
			ID:        h.ID,
			ExpenseID: h.ExpenseID,
			Amount:    money.Format(h.Amount),
			ClearedBy: h.ClearedBy,
			Timestamp: formatTime(h.Timestamp),
		}
	}
	return out
}

func ToMember(m *models.Member) *Member {
	return &Member{ID: m.ID, Name: m.Name, CreatedAt: m.CreatedAt}
}

func ToMembers(members []*models.Member) []*Member {
	out := make([]*Member, len(members))
	for i, m := range members {
		out[i] = ToMember(m)
	}
	return out
}

func ToUser(u *models.User) *User {
	return &User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role.String(),
		CreatedAt:   u.CreatedAt,
	}
}

// ToSummary renders per-member totals with two decimals.
func ToSummary(totals map[string]decimal.Decimal) *SummaryResponse {
	out := &SummaryResponse{Totals: make(map[string]string, len(totals))}
	for name, total := range totals {
		out.Totals[name] = money.Format(total)
	}
	return out
}

// ExpenseRequest parses the shared add/update fields into a ledger request.
func ExpenseRequest(description, date, amount, memberID string) (models.ExpenseRequest, error) {
	d, err := ParseDate(date)
	if err != nil {
		return models.ExpenseRequest{}, err
	}
	a, err := ParseAmount(amount)
	if err != nil {
		return models.ExpenseRequest{}, err
	}
	return models.ExpenseRequest{
		Description: description,
		Date:        d,
		Amount:      a,
		MemberID:    memberID,
	}, nil
}

// ParseDate reads a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("invalid date %q, want YYYY-MM-DD", s),
			map[string]string{"Date": s})
	}
	return d, nil
}

// ParseAmount reads a wire amount. Sign is not checked here.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, apperrors.WithMetadata(apperrors.CodeInvalidAmount,
			fmt.Sprintf("invalid amount: %v", err),
			map[string]string{"Amount": s})
	}
	return d, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
