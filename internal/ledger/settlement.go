package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/metrics"
	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
	"github.com/mmynk/roomledger/internal/storage"
)

// ApplyPayment applies one payment of amount by memberID against expenseID.
//
// Checks run in order: the expense exists and is not soft-deleted, the
// member exists, amount > 0 in whole cents, amount <= remaining balance.
// On success the cumulative cleared amount, the last-payment projection
// and, when the balance reaches zero, the cleared marker are written
// together with a new PaymentHistory row in one transaction.
//
// Payments against the same expense are serialized: an in-process lock
// orders callers here, and the store's version check rejects a write whose
// read went stale (another process got there first), in which case the
// expense is re-read and re-validated.
func (s *Service) ApplyPayment(ctx context.Context, expenseID, memberID string, amount decimal.Decimal) (*models.Expense, error) {
	unlock := s.locks.Lock(expenseID)
	defer unlock()

	for attempt := 1; ; attempt++ {
		expense, err := s.settle(ctx, expenseID, memberID, amount)
		if !errors.Is(err, storage.ErrVersionConflict) {
			s.recordPayment(expense, err)
			return expense, err
		}

		s.metrics.VersionConflict()
		if attempt >= s.maxAttempts {
			err = apperrors.WithMetadata(apperrors.CodeConflict,
				fmt.Sprintf("expense %s is being settled concurrently, try again", expenseID),
				map[string]string{"Expense-Id": expenseID})
			s.recordPayment(nil, err)
			return nil, err
		}
		slog.Debug("Settlement lost version race, re-reading expense",
			"expense_id", expenseID,
			"attempt", attempt,
		)
	}
}

// settle is one read-validate-write attempt.
func (s *Service) settle(ctx context.Context, expenseID, memberID string, amount decimal.Decimal) (*models.Expense, error) {
	expense, err := s.activeExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.GetMember(ctx, memberID); err != nil {
		return nil, notFoundOr(err, "member", memberID, "get member")
	}

	if err := money.CheckPositive(amount); err != nil {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidAmount,
			fmt.Sprintf("invalid amount: payment %v", err),
			map[string]string{"Expense-Id": expenseID, "Amount": amount.String()})
	}

	remaining := expense.RemainingAmount
	if amount.GreaterThan(remaining) {
		return nil, apperrors.WithMetadata(apperrors.CodeExceedsRemainingBalance,
			fmt.Sprintf("amount exceeds remaining balance: payment %s is more than the remaining %s",
				money.Format(amount), money.Format(remaining)),
			map[string]string{
				"Expense-Id": expenseID,
				"Amount":     money.Format(amount),
				"Remaining":  money.Format(remaining),
			})
	}

	readVersion := expense.Version
	now := s.clock()

	expense.ClearedAmount = expense.ClearedAmount.Add(amount)
	// Recomputed from the canonical total rather than decremented.
	expense.Recompute()
	expense.LastClearedAmount = amount
	expense.LastClearedBy = memberID
	expense.LastClearedAt = now
	if expense.Cleared {
		expense.ClearedBy = memberID
		expense.ClearedAt = now
	}

	entry := &models.PaymentHistory{
		ExpenseID: expense.ID,
		Amount:    amount,
		ClearedBy: memberID,
		Timestamp: now,
	}
	if err := s.store.SettleExpense(ctx, expense, readVersion, entry); err != nil {
		if errors.Is(err, storage.ErrVersionConflict) {
			return nil, err
		}
		return nil, notFoundOr(err, "expense", expenseID, "settle expense")
	}

	slog.Info("Payment applied",
		"expense_id", expense.ID,
		"member_id", memberID,
		"amount", money.Format(amount),
		"remaining", money.Format(expense.RemainingAmount),
		"cleared", expense.Cleared,
	)

	return expense, nil
}

// activeExpense loads an expense and treats soft-deleted rows as absent.
func (s *Service) activeExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, notFoundOr(err, "expense", expenseID, "get expense")
	}
	if expense.IsDeleted {
		return nil, notFoundOr(storage.ErrNotFound, "expense", expenseID, "")
	}
	return expense, nil
}

func (s *Service) recordPayment(expense *models.Expense, err error) {
	switch code := apperrors.CodeOf(err); {
	case err == nil:
		s.metrics.Payment(metrics.OutcomeApplied, "")
		if expense != nil && expense.Cleared {
			s.metrics.ExpenseCleared()
		}
	case code == apperrors.CodeInternal || code == apperrors.CodeUnknown:
		s.metrics.Payment(metrics.OutcomeFailed, string(code))
	default:
		s.metrics.Payment(metrics.OutcomeRejected, string(code))
	}
}
