package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
	"github.com/mmynk/roomledger/internal/storage"
)

// AddExpense records a new open expense. An empty MemberID leaves it unassigned.
func (s *Service) AddExpense(ctx context.Context, req models.ExpenseRequest) (*models.Expense, error) {
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}

	expense := &models.Expense{
		Description:   strings.TrimSpace(req.Description),
		Date:          req.Date,
		Amount:        req.Amount,
		MemberID:      req.MemberID,
		ClearedAmount: money.Zero,
		CreatedAt:     s.clock().Unix(),
	}
	expense.Recompute()

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create expense", err)
	}

	slog.Info("Expense added",
		"expense_id", expense.ID,
		"member_id", expense.MemberID,
		"amount", money.Format(expense.Amount),
	)
	return expense, nil
}

// UpdateExpense replaces description, date, amount and member of an open
// expense. Admin only. When payments already exist the new amount must stay
// above the cleared amount, so the expense remains open and the remaining
// balance is recomputed from the new total.
func (s *Service) UpdateExpense(ctx context.Context, expenseID string, req models.ExpenseRequest, actor models.Actor) (*models.Expense, error) {
	if err := RequireAdmin(actor); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(expenseID)
	defer unlock()

	expense, err := s.activeExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Cleared {
		return nil, apperrors.WithMetadata(apperrors.CodeAlreadyCleared, "cannot modify cleared expenses",
			map[string]string{"Expense-Id": expenseID})
	}
	if err := s.validateRequest(ctx, req); err != nil {
		return nil, err
	}
	if expense.HasPayments() && !req.Amount.GreaterThan(expense.ClearedAmount) {
		return nil, apperrors.WithMetadata(apperrors.CodeInvalidAmount,
			fmt.Sprintf("invalid amount: new total %s must exceed the %s already cleared",
				money.Format(req.Amount), money.Format(expense.ClearedAmount)),
			map[string]string{
				"Expense-Id": expenseID,
				"Amount":     money.Format(req.Amount),
				"Cleared":    money.Format(expense.ClearedAmount),
			})
	}

	readVersion := expense.Version
	expense.Description = strings.TrimSpace(req.Description)
	expense.Date = req.Date
	expense.Amount = req.Amount
	expense.MemberID = req.MemberID
	expense.Recompute()

	if err := s.store.UpdateExpense(ctx, expense, readVersion); err != nil {
		return nil, s.writeError(err, expenseID, "update expense")
	}

	slog.Info("Expense updated",
		"expense_id", expenseID,
		"user_id", actor.UserID,
		"amount", money.Format(expense.Amount),
		"remaining", money.Format(expense.RemainingAmount),
	)
	return expense, nil
}

// DeleteExpense permanently removes an expense and its payment history,
// whatever its cleared state. Admin only.
func (s *Service) DeleteExpense(ctx context.Context, expenseID string, actor models.Actor) error {
	if err := RequireAdmin(actor); err != nil {
		return err
	}

	unlock := s.locks.Lock(expenseID)
	defer unlock()

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return notFoundOr(err, "expense", expenseID, "delete expense")
	}

	slog.Info("Expense deleted", "expense_id", expenseID, "user_id", actor.UserID)
	return nil
}

// SoftDeleteExpense hides an expense from active listings while keeping it
// and its history for audit. Deleting an already soft-deleted expense is a no-op.
func (s *Service) SoftDeleteExpense(ctx context.Context, expenseID string, actor models.Actor) error {
	unlock := s.locks.Lock(expenseID)
	defer unlock()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return notFoundOr(err, "expense", expenseID, "get expense")
	}
	if expense.IsDeleted {
		return nil
	}

	readVersion := expense.Version
	expense.IsDeleted = true
	expense.DeletedBy = actor.UserID
	expense.DeletedAt = s.clock()

	if err := s.store.UpdateExpense(ctx, expense, readVersion); err != nil {
		return s.writeError(err, expenseID, "soft delete expense")
	}

	slog.Info("Expense soft-deleted", "expense_id", expenseID, "user_id", actor.UserID)
	return nil
}

// validateRequest checks the fields shared by add and update.
func (s *Service) validateRequest(ctx context.Context, req models.ExpenseRequest) error {
	if err := money.CheckPositive(req.Amount); err != nil {
		return apperrors.WithMetadata(apperrors.CodeInvalidAmount,
			fmt.Sprintf("invalid amount: expense total %v", err),
			map[string]string{"Amount": req.Amount.String()})
	}
	if req.Date.IsZero() {
		return apperrors.New(apperrors.CodeInvalidArgument, "expense date is required")
	}
	if req.MemberID != "" {
		if _, err := s.store.GetMember(ctx, req.MemberID); err != nil {
			return notFoundOr(err, "member", req.MemberID, "get member")
		}
	}
	return nil
}

// writeError maps a failed conditional write. The per-expense lock already
// orders writers in this process, so a conflict means another process
// changed the row; the caller decides whether to retry.
func (s *Service) writeError(err error, expenseID, action string) error {
	if errors.Is(err, storage.ErrVersionConflict) {
		return apperrors.WithMetadata(apperrors.CodeConflict,
			fmt.Sprintf("expense %s changed concurrently, try again", expenseID),
			map[string]string{"Expense-Id": expenseID})
	}
	return notFoundOr(err, "expense", expenseID, action)
}
