package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/storage"
)

const expenseColumns = `e.id, e.description, e.date, e.amount, e.member_id,
	e.cleared_amount, e.remaining_amount, e.cleared,
	e.last_cleared_amount, e.last_cleared_by, e.last_cleared_at,
	e.cleared_by, e.cleared_at, e.is_deleted, e.deleted_by, e.deleted_at,
	e.version, e.created_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var (
		date                               string
		memberID, lastClearedBy, clearedBy sql.NullString
		deletedBy                          sql.NullString
		lastClearedAmount                  decimal.NullDecimal
		lastClearedAt, clearedAt           sql.NullInt64
		deletedAt                          sql.NullInt64
	)
	err := row.Scan(
		&e.ID, &e.Description, &date, &e.Amount, &memberID,
		&e.ClearedAmount, &e.RemainingAmount, &e.Cleared,
		&lastClearedAmount, &lastClearedBy, &lastClearedAt,
		&clearedBy, &clearedAt, &e.IsDeleted, &deletedBy, &deletedAt,
		&e.Version, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Date, err = time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expense date %q: %w", date, err)
	}
	e.MemberID = memberID.String
	if lastClearedAmount.Valid {
		e.LastClearedAmount = lastClearedAmount.Decimal
	}
	e.LastClearedBy = lastClearedBy.String
	e.LastClearedAt = fromNullTime(lastClearedAt)
	e.ClearedBy = clearedBy.String
	e.ClearedAt = fromNullTime(clearedAt)
	e.DeletedBy = deletedBy.String
	e.DeletedAt = fromNullTime(deletedAt)

	return e, nil
}

// CreateExpense persists a new expense to the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	expense.Version = 1

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, description, date, amount, member_id,
			cleared_amount, remaining_amount, cleared, version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Date.Format(models.DateLayout), expense.Amount,
		nullString(expense.MemberID), expense.ClearedAmount, expense.RemainingAmount, expense.Cleared,
		expense.Version, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including soft-deleted ones.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.id = ?",
		expenseID,
	)
	expense, err := scanExpense(row)
	if isNoRows(err) {
		return nil, notFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// UpdateExpense writes the expense if its stored version still matches.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense, expectedVersion int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateExpenseTx(ctx, tx, expense, expectedVersion); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	expense.Version = expectedVersion + 1

	return nil
}

// SettleExpense updates the expense and appends the payment entry in one transaction.
func (s *SQLiteStore) SettleExpense(ctx context.Context, expense *models.Expense, expectedVersion int64, entry *models.PaymentHistory) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.ExpenseID = expense.ID

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := updateExpenseTx(ctx, tx, expense, expectedVersion); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO payment_history (id, expense_id, amount, cleared_by, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.ID, entry.ExpenseID, entry.Amount, entry.ClearedBy, entry.Timestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment history: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read payment history sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	expense.Version = expectedVersion + 1
	entry.Seq = seq

	return nil
}

// updateExpenseTx is the compare-and-swap write shared by UpdateExpense and SettleExpense.
func updateExpenseTx(ctx context.Context, tx *sql.Tx, e *models.Expense, expectedVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET
			description = ?, date = ?, amount = ?, member_id = ?,
			cleared_amount = ?, remaining_amount = ?, cleared = ?,
			last_cleared_amount = ?, last_cleared_by = ?, last_cleared_at = ?,
			cleared_by = ?, cleared_at = ?,
			is_deleted = ?, deleted_by = ?, deleted_at = ?,
			version = version + 1
		 WHERE id = ? AND version = ?`,
		e.Description, e.Date.Format(models.DateLayout), e.Amount, nullString(e.MemberID),
		e.ClearedAmount, e.RemainingAmount, e.Cleared,
		decimal.NullDecimal{Decimal: e.LastClearedAmount, Valid: e.LastClearedBy != ""},
		nullString(e.LastClearedBy), nullTime(e.LastClearedAt),
		nullString(e.ClearedBy), nullTime(e.ClearedAt),
		e.IsDeleted, nullString(e.DeletedBy), nullTime(e.DeletedAt),
		e.ID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	// Distinguish a vanished row from a concurrent write.
	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM expenses WHERE id = ?", e.ID).Scan(&exists)
	if isNoRows(err) {
		return notFound("expense", e.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to check expense existence: %w", err)
	}
	return fmt.Errorf("expense %s at version %d: %w", e.ID, expectedVersion, storage.ErrVersionConflict)
}

// DeleteExpense removes an expense and, by cascade, its payment history.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return notFound("expense", expenseID)
	}

	return nil
}

// ListActiveExpenses returns every expense that is not soft-deleted.
func (s *SQLiteStore) ListActiveExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.listExpenses(ctx, "")
}

// ListExpensesByDateRange returns active expenses dated within [start, end].
func (s *SQLiteStore) ListExpensesByDateRange(ctx context.Context, start, end time.Time) ([]*models.Expense, error) {
	return s.listExpenses(ctx, "AND e.date BETWEEN ? AND ?",
		start.Format(models.DateLayout), end.Format(models.DateLayout))
}

// ListExpensesByMember returns active expenses owned by memberID.
func (s *SQLiteStore) ListExpensesByMember(ctx context.Context, memberID string) ([]*models.Expense, error) {
	return s.listExpenses(ctx, "AND e.member_id = ?", memberID)
}

// ListExpensesByMemberName returns active expenses whose owner's name contains substring, ignoring case.
func (s *SQLiteStore) ListExpensesByMemberName(ctx context.Context, substring string) ([]*models.Expense, error) {
	return s.listExpenses(ctx,
		"AND e.member_id IN (SELECT id FROM members WHERE instr(lower(name), ?) > 0)",
		strings.ToLower(substring))
}

// ListUnassignedExpenses returns active expenses with no owning member.
func (s *SQLiteStore) ListUnassignedExpenses(ctx context.Context) ([]*models.Expense, error) {
	return s.listExpenses(ctx, "AND e.member_id IS NULL")
}

func (s *SQLiteStore) listExpenses(ctx context.Context, filter string, args ...any) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+expenseColumns+" FROM expenses e WHERE e.is_deleted = 0 "+filter+
			" ORDER BY e.date DESC, e.created_at DESC",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// ListPaymentHistory retrieves all payments for an expense, newest first.
func (s *SQLiteStore) ListPaymentHistory(ctx context.Context, expenseID string) ([]*models.PaymentHistory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, id, expense_id, amount, cleared_by, timestamp
		 FROM payment_history WHERE expense_id = ?
		 ORDER BY timestamp DESC, seq DESC`,
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment history: %w", err)
	}
	defer rows.Close()

	var entries []*models.PaymentHistory
	for rows.Next() {
		entry := &models.PaymentHistory{}
		var ts int64
		if err := rows.Scan(&entry.Seq, &entry.ID, &entry.ExpenseID, &entry.Amount, &entry.ClearedBy, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan payment history: %w", err)
		}
		entry.Timestamp = time.Unix(0, ts).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment history: %w", err)
	}

	return entries, nil
}
