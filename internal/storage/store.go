// Package storage provides abstractions for persistent ledger storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/roomledger/internal/models"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a conditional write finds the
	// expense at a different version than the caller read.
	ErrVersionConflict = errors.New("expense version changed")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("already exists")
)

// Store defines the interface for ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger layer.
type Store interface {
	MemberStore
	UserStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}

// MemberStore is the member directory.
type MemberStore interface {
	// CreateMember persists a member, assigning ID and CreatedAt when unset.
	CreateMember(ctx context.Context, member *models.Member) error

	// GetMember returns ErrNotFound if the member does not exist.
	GetMember(ctx context.Context, memberID string) (*models.Member, error)

	// FindMembersByName matches a case-insensitive substring of the name.
	FindMembersByName(ctx context.Context, substring string) ([]*models.Member, error)
}

// UserStore persists accounts for authentication.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail and GetUserByID return ErrNotFound when absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// ExpenseStore persists expenses and their payment history.
type ExpenseStore interface {
	// CreateExpense persists a new expense at version 1.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense returns the expense regardless of its soft-delete flag.
	// Returns ErrNotFound if no row exists.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense writes every mutable column of expense if the stored
	// version still equals expectedVersion, then bumps expense.Version.
	// Returns ErrVersionConflict on a mismatch.
	UpdateExpense(ctx context.Context, expense *models.Expense, expectedVersion int64) error

	// SettleExpense is UpdateExpense plus an append of entry, committed as
	// one transaction. Nothing is written if either step fails.
	SettleExpense(ctx context.Context, expense *models.Expense, expectedVersion int64, entry *models.PaymentHistory) error

	// DeleteExpense removes the expense and its history.
	// Returns ErrNotFound if no row exists.
	DeleteExpense(ctx context.Context, expenseID string) error

	// Listings below never include soft-deleted expenses.
	ListActiveExpenses(ctx context.Context) ([]*models.Expense, error)
	ListExpensesByDateRange(ctx context.Context, start, end time.Time) ([]*models.Expense, error)
	ListExpensesByMember(ctx context.Context, memberID string) ([]*models.Expense, error)
	ListExpensesByMemberName(ctx context.Context, substring string) ([]*models.Expense, error)
	ListUnassignedExpenses(ctx context.Context) ([]*models.Expense, error)

	// ListPaymentHistory returns an expense's entries newest first.
	ListPaymentHistory(ctx context.Context, expenseID string) ([]*models.PaymentHistory, error)
}
