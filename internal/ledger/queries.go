package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
)

// GetExpense returns an expense by ID, soft-deleted or not.
func (s *Service) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, notFoundOr(err, "expense", expenseID, "get expense")
	}
	return expense, nil
}

// ListActive returns every expense that has not been soft-deleted.
func (s *Service) ListActive(ctx context.Context) ([]*models.Expense, error) {
	expenses, err := s.store.ListActiveExpenses(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list expenses", err)
	}
	return expenses, nil
}

// ListByDateRange returns active expenses dated within [start, end].
func (s *Service) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.Expense, error) {
	if end.Before(start) {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidArgument,
			fmt.Sprintf("date range end %s is before start %s",
				end.Format(models.DateLayout), start.Format(models.DateLayout)),
			map[string]string{"Start": start.Format(models.DateLayout), "End": end.Format(models.DateLayout)})
	}
	expenses, err := s.store.ListExpensesByDateRange(ctx, start, end)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list expenses by date", err)
	}
	return expenses, nil
}

// ListMonthly returns active expenses from the first to the last day of the current month.
func (s *Service) ListMonthly(ctx context.Context) ([]*models.Expense, error) {
	now := s.clock()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.ListByDateRange(ctx, start, start.AddDate(0, 1, -1))
}

// ListYearly returns active expenses from January 1 to December 31 of the current year.
func (s *Service) ListYearly(ctx context.Context) ([]*models.Expense, error) {
	now := s.clock()
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return s.ListByDateRange(ctx, start, start.AddDate(1, 0, -1))
}

// ListByMember returns the active expenses owned by memberID.
func (s *Service) ListByMember(ctx context.Context, memberID string) ([]*models.Expense, error) {
	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, notFoundOr(err, "member", memberID, "get member")
	}
	expenses, err := s.store.ListExpensesByMember(ctx, memberID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list expenses by member", err)
	}
	return expenses, nil
}

// ListByMemberName returns active expenses whose owner's name contains name, ignoring case.
func (s *Service) ListByMemberName(ctx context.Context, name string) ([]*models.Expense, error) {
	expenses, err := s.store.ListExpensesByMemberName(ctx, name)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list expenses by member name", err)
	}
	return expenses, nil
}

// ListUnassigned returns active expenses with no owning member.
func (s *Service) ListUnassigned(ctx context.Context) ([]*models.Expense, error) {
	expenses, err := s.store.ListUnassignedExpenses(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list unassigned expenses", err)
	}
	return expenses, nil
}

// HistoryOf returns the payments recorded against an expense, newest first.
// Soft-deleted expenses keep their history.
func (s *Service) HistoryOf(ctx context.Context, expenseID string) ([]*models.PaymentHistory, error) {
	if _, err := s.store.GetExpense(ctx, expenseID); err != nil {
		return nil, notFoundOr(err, "expense", expenseID, "get expense")
	}
	entries, err := s.store.ListPaymentHistory(ctx, expenseID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list payment history", err)
	}
	return entries, nil
}

// ExpenseSummaryByMember sums the total owed per owning member name.
func (s *Service) ExpenseSummaryByMember(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.summarize(ctx, func(e *models.Expense) decimal.Decimal { return e.Amount })
}

// ClearedSummaryByMember sums the amount settled so far per owning member name.
func (s *Service) ClearedSummaryByMember(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.summarize(ctx, func(e *models.Expense) decimal.Decimal { return e.ClearedAmount })
}

// summarize groups active, assigned expenses by member name.
func (s *Service) summarize(ctx context.Context, value func(*models.Expense) decimal.Decimal) (map[string]decimal.Decimal, error) {
	expenses, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		if e.MemberID == "" {
			continue
		}
		name, ok := names[e.MemberID]
		if !ok {
			member, err := s.store.GetMember(ctx, e.MemberID)
			if err != nil {
				return nil, notFoundOr(err, "member", e.MemberID, "get member")
			}
			name = member.Name
			names[e.MemberID] = name
		}
		totals[name] = money.Sum(totals[name], value(e))
	}
	return totals, nil
}
