package export

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mmynk/roomledger/internal/ledger"
	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
	"github.com/mmynk/roomledger/internal/storage/sqlite"
)

func setupLedger(t *testing.T) *ledger.Service {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "roomledger-export-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "export.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return ledger.NewService(store)
}

func TestWorkbook(t *testing.T) {
	ctx := context.Background()
	l := setupLedger(t)

	alice, err := l.CreateMember(ctx, "Alice")
	require.NoError(t, err)
	bob, err := l.CreateMember(ctx, "Bob")
	require.NoError(t, err)

	rent, err := l.AddExpense(ctx, models.ExpenseRequest{
		Description: "Rent",
		Date:        time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Amount:      money.MustParse("100.00"),
		MemberID:    alice.ID,
	})
	require.NoError(t, err)
	_, err = l.ApplyPayment(ctx, rent.ID, bob.ID, money.MustParse("40.00"))
	require.NoError(t, err)
	_, err = l.ApplyPayment(ctx, rent.ID, alice.ID, money.MustParse("60.00"))
	require.NoError(t, err)

	f, err := Workbook(ctx, l)
	require.NoError(t, err)
	defer f.Close()

	expenses, err := f.GetRows(ExpensesSheet)
	require.NoError(t, err)
	require.Len(t, expenses, 2)
	assert.Equal(t, expenseHeaders, expenses[0])
	assert.Equal(t, []string{"2026-10-01", "Rent", "Alice", "100.00", "100.00", "0.00", "cleared", "Alice"}, expenses[1][:8])

	payments, err := f.GetRows(PaymentsSheet)
	require.NoError(t, err)
	require.Len(t, payments, 3)
	// Newest first, as HistoryOf returns them.
	assert.Equal(t, "60.00", payments[1][3])
	assert.Equal(t, "Alice", payments[1][2])
	assert.Equal(t, "40.00", payments[2][3])
	assert.Equal(t, "Bob", payments[2][2])
}

func TestHandler(t *testing.T) {
	l := setupLedger(t)

	rec := httptest.NewRecorder()
	Handler(l).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export/expenses.xlsx", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=roomledger_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{ExpensesSheet, PaymentsSheet}, f.GetSheetList())
}
