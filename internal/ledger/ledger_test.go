package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/metrics"
	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
	"github.com/mmynk/roomledger/internal/storage/sqlite"
)

var (
	admin  = models.Actor{UserID: "admin-1", Role: models.RoleAdmin}
	member = models.Actor{UserID: "user-1", Role: models.RoleMember}

	fixedNow = time.Date(2026, time.October, 16, 15, 4, 5, 0, time.UTC)
)

// setupTestService creates a Service over a temp-file SQLite store with a fixed clock.
func setupTestService(t *testing.T, opts ...Option) (*Service, *sqlite.SQLiteStore) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "roomledger-ledger-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "ledger.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewService(store, opts...), store
}

func mustMember(t *testing.T, svc *Service, name string) *models.Member {
	t.Helper()
	m, err := svc.CreateMember(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateMember(%s) failed: %v", name, err)
	}
	return m
}

func mustExpense(t *testing.T, svc *Service, memberID, amount string) *models.Expense {
	t.Helper()
	e, err := svc.AddExpense(context.Background(), models.ExpenseRequest{
		Description: "Rent",
		Date:        fixedNow.Truncate(24 * time.Hour),
		Amount:      money.MustParse(amount),
		MemberID:    memberID,
	})
	if err != nil {
		t.Fatalf("AddExpense failed: %v", err)
	}
	return e
}

func amt(s string) decimal.Decimal { return money.MustParse(s) }

func assertCode(t *testing.T, err error, want apperrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := apperrors.CodeOf(err); got != want {
		t.Fatalf("expected %s error, got %s (%v)", want, got, err)
	}
}

// assertInvariants checks cleared + remaining == amount and sum(history) == cleared.
func assertInvariants(t *testing.T, svc *Service, expenseID string) {
	t.Helper()
	ctx := context.Background()

	e, err := svc.GetExpense(ctx, expenseID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if !e.ClearedAmount.Add(e.RemainingAmount).Equal(e.Amount) {
		t.Errorf("cleared %s + remaining %s != amount %s",
			money.Format(e.ClearedAmount), money.Format(e.RemainingAmount), money.Format(e.Amount))
	}
	if e.ClearedAmount.Sign() < 0 || e.ClearedAmount.GreaterThan(e.Amount) {
		t.Errorf("cleared %s out of [0, %s]", money.Format(e.ClearedAmount), money.Format(e.Amount))
	}
	if e.Cleared != e.RemainingAmount.IsZero() {
		t.Errorf("cleared flag %v disagrees with remaining %s", e.Cleared, money.Format(e.RemainingAmount))
	}

	history, err := svc.HistoryOf(ctx, expenseID)
	if err != nil {
		t.Fatalf("HistoryOf failed: %v", err)
	}
	sum := money.Zero
	for _, h := range history {
		sum = sum.Add(h.Amount)
	}
	if !sum.Equal(e.ClearedAmount) {
		t.Errorf("sum(history) %s != cleared %s", money.Format(sum), money.Format(e.ClearedAmount))
	}
	if len(history) > 0 {
		newest := history[0]
		if !e.LastClearedAmount.Equal(newest.Amount) || e.LastClearedBy != newest.ClearedBy ||
			!e.LastClearedAt.Equal(newest.Timestamp) {
			t.Errorf("last payment projection %s/%s diverges from newest history row %s/%s",
				money.Format(e.LastClearedAmount), e.LastClearedBy, money.Format(newest.Amount), newest.ClearedBy)
		}
	}
}

func TestApplyPayment_PartialThenFull(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	bob := mustMember(t, svc, "Bob")
	expense := mustExpense(t, svc, alice.ID, "100.00")

	got, err := svc.ApplyPayment(ctx, expense.ID, bob.ID, amt("40.00"))
	if err != nil {
		t.Fatalf("first payment failed: %v", err)
	}
	if money.Format(got.ClearedAmount) != "40.00" || money.Format(got.RemainingAmount) != "60.00" {
		t.Errorf("after 40.00: cleared=%s remaining=%s", money.Format(got.ClearedAmount), money.Format(got.RemainingAmount))
	}
	if got.Cleared {
		t.Error("expense should still be open")
	}
	if got.ClearedBy != "" || !got.ClearedAt.IsZero() {
		t.Error("clearedBy/clearedAt must stay unset until fully cleared")
	}
	history, _ := svc.HistoryOf(ctx, expense.ID)
	if len(history) != 1 {
		t.Fatalf("expected 1 history row, got %d", len(history))
	}
	assertInvariants(t, svc, expense.ID)

	got, err = svc.ApplyPayment(ctx, expense.ID, alice.ID, amt("60.00"))
	if err != nil {
		t.Fatalf("second payment failed: %v", err)
	}
	if money.Format(got.ClearedAmount) != "100.00" || money.Format(got.RemainingAmount) != "0.00" {
		t.Errorf("after 60.00: cleared=%s remaining=%s", money.Format(got.ClearedAmount), money.Format(got.RemainingAmount))
	}
	if !got.Cleared {
		t.Error("expense should be cleared")
	}
	if got.ClearedBy != alice.ID || !got.ClearedAt.Equal(fixedNow) {
		t.Errorf("clearedBy=%s clearedAt=%s", got.ClearedBy, got.ClearedAt)
	}

	history, _ = svc.HistoryOf(ctx, expense.ID)
	if len(history) != 2 {
		t.Fatalf("expected 2 history rows, got %d", len(history))
	}
	if money.Format(history[0].Amount) != "60.00" || money.Format(history[1].Amount) != "40.00" {
		t.Errorf("history order = [%s, %s], want [60.00, 40.00]",
			money.Format(history[0].Amount), money.Format(history[1].Amount))
	}
	assertInvariants(t, svc, expense.ID)

	t.Run("cleared expense rejects any further payment", func(t *testing.T) {
		_, err := svc.ApplyPayment(ctx, expense.ID, bob.ID, amt("0.01"))
		assertCode(t, err, apperrors.CodeExceedsRemainingBalance)

		after, _ := svc.GetExpense(ctx, expense.ID)
		if after.ClearedBy != alice.ID {
			t.Errorf("clearedBy overwritten: %s", after.ClearedBy)
		}
	})
}

func TestApplyPayment_ExceedsRemaining(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	expense := mustExpense(t, svc, alice.ID, "50.00")

	_, err := svc.ApplyPayment(ctx, expense.ID, alice.ID, amt("51.00"))
	assertCode(t, err, apperrors.CodeExceedsRemainingBalance)
	if !strings.Contains(err.Error(), "51.00") || !strings.Contains(err.Error(), "50.00") {
		t.Errorf("message %q must carry both amounts", err.Error())
	}
	meta := apperrors.MetadataOf(err)
	if meta["Amount"] != "51.00" || meta["Remaining"] != "50.00" {
		t.Errorf("metadata = %v", meta)
	}

	after, _ := svc.GetExpense(ctx, expense.ID)
	if !after.ClearedAmount.IsZero() || after.Version != expense.Version {
		t.Errorf("state changed: cleared=%s version=%d", money.Format(after.ClearedAmount), after.Version)
	}
	history, _ := svc.HistoryOf(ctx, expense.ID)
	if len(history) != 0 {
		t.Errorf("expected 0 history rows, got %d", len(history))
	}
}

func TestApplyPayment_InvalidAmount(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	expense := mustExpense(t, svc, alice.ID, "50.00")

	for _, a := range []string{"0", "0.00", "-10.00"} {
		t.Run(a, func(t *testing.T) {
			_, err := svc.ApplyPayment(ctx, expense.ID, alice.ID, amt(a))
			assertCode(t, err, apperrors.CodeInvalidAmount)
		})
	}

	after, _ := svc.GetExpense(ctx, expense.ID)
	if after.Version != expense.Version {
		t.Error("invalid amounts must not mutate the expense")
	}
	history, _ := svc.HistoryOf(ctx, expense.ID)
	if len(history) != 0 {
		t.Errorf("expected 0 history rows, got %d", len(history))
	}
}

func TestApplyPayment_SubCentAmount(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	expense := mustExpense(t, svc, alice.ID, "100.00")

	for _, a := range []string{"0.001", "40.005"} {
		t.Run(a, func(t *testing.T) {
			_, err := svc.ApplyPayment(ctx, expense.ID, alice.ID, decimal.RequireFromString(a))
			assertCode(t, err, apperrors.CodeInvalidAmount)
			if got := apperrors.MetadataOf(err)["Amount"]; got != a {
				t.Errorf("Amount metadata = %q, want %q", got, a)
			}
		})
	}

	after, _ := svc.GetExpense(ctx, expense.ID)
	if after.Version != expense.Version || !after.RemainingAmount.Equal(amt("100.00")) {
		t.Errorf("sub-cent payment mutated the expense: remaining=%s", after.RemainingAmount)
	}

	// The full balance is still payable in one go.
	got, err := svc.ApplyPayment(ctx, expense.ID, alice.ID, amt("100.00"))
	if err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}
	if !got.Cleared {
		t.Error("expense should be cleared")
	}
}

func TestApplyPayment_PreconditionOrder(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	expense := mustExpense(t, svc, alice.ID, "50.00")

	t.Run("missing expense wins over missing member and bad amount", func(t *testing.T) {
		_, err := svc.ApplyPayment(ctx, "no-such-expense", "no-such-member", amt("-1"))
		assertCode(t, err, apperrors.CodeNotFound)
		if err.Error() != "expense not found" {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("missing member wins over bad amount", func(t *testing.T) {
		_, err := svc.ApplyPayment(ctx, expense.ID, "no-such-member", amt("-1"))
		assertCode(t, err, apperrors.CodeNotFound)
		if err.Error() != "member not found" {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("soft-deleted expense is not found", func(t *testing.T) {
		gone := mustExpense(t, svc, alice.ID, "10.00")
		if err := svc.SoftDeleteExpense(ctx, gone.ID, member); err != nil {
			t.Fatalf("SoftDeleteExpense failed: %v", err)
		}
		_, err := svc.ApplyPayment(ctx, gone.ID, alice.ID, amt("1.00"))
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestApplyPayment_ConcurrentSameExpense(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	expense := mustExpense(t, svc, alice.ID, "100.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.ApplyPayment(ctx, expense.ID, alice.ID, amt("60.00"))
		}(i)
	}
	close(start)
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assertCode(t, err, apperrors.CodeExceedsRemainingBalance)
		if !strings.Contains(err.Error(), "40.00") {
			t.Errorf("loser must be judged against post-commit remaining 40.00: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one success, got %d", ok)
	}

	after, _ := svc.GetExpense(ctx, expense.ID)
	if money.Format(after.ClearedAmount) != "60.00" {
		t.Errorf("cleared = %s, want 60.00", money.Format(after.ClearedAmount))
	}
	assertInvariants(t, svc, expense.ID)
}

func TestApplyPayment_ManyConcurrentPayersNeverOverpay(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	expense := mustExpense(t, svc, alice.ID, "100.00")
	other := mustExpense(t, svc, alice.ID, "30.00")

	var wg sync.WaitGroup
	results := make(chan error, 25)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := expense.ID
			if i%5 == 0 {
				id = other.ID
			}
			_, err := svc.ApplyPayment(ctx, id, alice.ID, amt("10.00"))
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var ok int
	for err := range results {
		if err == nil {
			ok++
			continue
		}
		assertCode(t, err, apperrors.CodeExceedsRemainingBalance)
	}
	// 20 payers on the 100.00 expense (10 fit), 5 on the 30.00 one (3 fit).
	if ok != 13 {
		t.Errorf("expected 13 successful payments, got %d", ok)
	}
	assertInvariants(t, svc, expense.ID)
	assertInvariants(t, svc, other.ID)
	if svc.locks.size() != 0 {
		t.Errorf("locker leaked %d entries", svc.locks.size())
	}
}

func TestApplyPayment_InvariantsAcrossSequence(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	expense := mustExpense(t, svc, alice.ID, "99.99")

	steps := []struct {
		amount string
		want   apperrors.Code
	}{
		{"33.33", ""},
		{"120.00", apperrors.CodeExceedsRemainingBalance},
		{"0", apperrors.CodeInvalidAmount},
		{"33.33", ""},
		{"33.34", apperrors.CodeExceedsRemainingBalance},
		{"33.33", ""},
		{"0.02", apperrors.CodeExceedsRemainingBalance},
		{"0.01", apperrors.CodeExceedsRemainingBalance},
	}
	for i, step := range steps {
		_, err := svc.ApplyPayment(ctx, expense.ID, alice.ID, amt(step.amount))
		if step.want == "" {
			if err != nil {
				t.Fatalf("step %d: payment %s failed: %v", i, step.amount, err)
			}
		} else {
			assertCode(t, err, step.want)
		}
		assertInvariants(t, svc, expense.ID)
	}

	after, _ := svc.GetExpense(ctx, expense.ID)
	if !after.Cleared || !after.RemainingAmount.IsZero() {
		t.Errorf("expected 33.33*3 = 99.99 to clear, remaining %s", money.Format(after.RemainingAmount))
	}
	history, _ := svc.HistoryOf(ctx, expense.ID)
	if len(history) != 3 {
		t.Errorf("expected 3 history rows, got %d", len(history))
	}
}

func TestApplyPayment_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc, _ := setupTestService(t, WithMetrics(metrics.New(reg)))
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	expense := mustExpense(t, svc, alice.ID, "10.00")

	if _, err := svc.ApplyPayment(ctx, expense.ID, alice.ID, amt("10.00")); err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}
	if _, err := svc.ApplyPayment(ctx, expense.ID, alice.ID, amt("1.00")); err == nil {
		t.Fatal("expected rejection")
	}

	// One series for the applied payment, one for the rejection.
	n, err := testutil.GatherAndCount(reg, "roomledger_payments_total")
	if err != nil {
		t.Fatalf("GatherAndCount failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 payment series, got %d", n)
	}
	n, _ = testutil.GatherAndCount(reg, "roomledger_expenses_cleared_total")
	if n != 1 {
		t.Errorf("expected expenses_cleared_total to be exported, got %d series", n)
	}
}

func TestAddExpense(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")

	t.Run("starts open with full remaining balance", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "75.50")
		if !e.ClearedAmount.IsZero() || !e.RemainingAmount.Equal(amt("75.50")) || e.Cleared {
			t.Errorf("unexpected initial state: %+v", e)
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, models.ExpenseRequest{
			Description: "Rent", Date: fixedNow, Amount: amt("10.00"), MemberID: "ghost",
		})
		assertCode(t, err, apperrors.CodeNotFound)
		if err.Error() != "member not found" {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, models.ExpenseRequest{
			Description: "Rent", Date: fixedNow, Amount: amt("0"), MemberID: alice.ID,
		})
		assertCode(t, err, apperrors.CodeInvalidAmount)
	})

	t.Run("sub-cent amount", func(t *testing.T) {
		_, err := svc.AddExpense(ctx, models.ExpenseRequest{
			Description: "Rent", Date: fixedNow, Amount: decimal.RequireFromString("10.001"), MemberID: alice.ID,
		})
		assertCode(t, err, apperrors.CodeInvalidAmount)
	})

	t.Run("unassigned", func(t *testing.T) {
		e := mustExpense(t, svc, "", "5.00")
		if e.MemberID != "" {
			t.Errorf("expected unassigned expense")
		}
	})
}

func TestUpdateExpense(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	bob := mustMember(t, svc, "Bob")

	req := func(amount, memberID string) models.ExpenseRequest {
		return models.ExpenseRequest{
			Description: "Electricity",
			Date:        time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
			Amount:      amt(amount),
			MemberID:    memberID,
		}
	}

	t.Run("non-admin is denied and nothing changes", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "20.00")
		_, err := svc.UpdateExpense(ctx, e.ID, req("30.00", bob.ID), member)
		assertCode(t, err, apperrors.CodeAccessDenied)
		if err.Error() != "access denied: admin only" {
			t.Errorf("message = %q", err.Error())
		}
		after, _ := svc.GetExpense(ctx, e.ID)
		if !after.Amount.Equal(amt("20.00")) || after.MemberID != alice.ID {
			t.Errorf("expense changed: %+v", after)
		}
	})

	t.Run("admin replaces all fields", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "20.00")
		got, err := svc.UpdateExpense(ctx, e.ID, req("30.00", bob.ID), admin)
		if err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		if got.Description != "Electricity" || got.MemberID != bob.ID || !got.Amount.Equal(amt("30.00")) {
			t.Errorf("unexpected update result: %+v", got)
		}
		if !got.RemainingAmount.Equal(amt("30.00")) {
			t.Errorf("remaining = %s", money.Format(got.RemainingAmount))
		}
	})

	t.Run("cleared expense cannot be modified", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "20.00")
		if _, err := svc.ApplyPayment(ctx, e.ID, alice.ID, amt("20.00")); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
		_, err := svc.UpdateExpense(ctx, e.ID, req("40.00", alice.ID), admin)
		assertCode(t, err, apperrors.CodeAlreadyCleared)
		if err.Error() != "cannot modify cleared expenses" {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("amount change after partial payment recomputes remaining", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "100.00")
		if _, err := svc.ApplyPayment(ctx, e.ID, alice.ID, amt("40.00")); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
		got, err := svc.UpdateExpense(ctx, e.ID, req("80.00", alice.ID), admin)
		if err != nil {
			t.Fatalf("UpdateExpense failed: %v", err)
		}
		if money.Format(got.ClearedAmount) != "40.00" || money.Format(got.RemainingAmount) != "40.00" {
			t.Errorf("cleared=%s remaining=%s", money.Format(got.ClearedAmount), money.Format(got.RemainingAmount))
		}
		assertInvariants(t, svc, e.ID)
	})

	t.Run("amount at or below cleared is rejected", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "100.00")
		if _, err := svc.ApplyPayment(ctx, e.ID, alice.ID, amt("40.00")); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
		for _, a := range []string{"40.00", "39.99"} {
			_, err := svc.UpdateExpense(ctx, e.ID, req(a, alice.ID), admin)
			assertCode(t, err, apperrors.CodeInvalidAmount)
		}
		assertInvariants(t, svc, e.ID)
	})

	t.Run("sub-cent amount is rejected", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "20.00")
		r := req("20.00", alice.ID)
		r.Amount = decimal.RequireFromString("25.555")
		_, err := svc.UpdateExpense(ctx, e.ID, r, admin)
		assertCode(t, err, apperrors.CodeInvalidAmount)
		after, _ := svc.GetExpense(ctx, e.ID)
		if !after.Amount.Equal(amt("20.00")) || after.Version != e.Version {
			t.Errorf("expense changed: %+v", after)
		}
	})

	t.Run("missing expense", func(t *testing.T) {
		_, err := svc.UpdateExpense(ctx, "nope", req("1.00", alice.ID), admin)
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("unknown member", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "20.00")
		_, err := svc.UpdateExpense(ctx, e.ID, req("20.00", "ghost"), admin)
		assertCode(t, err, apperrors.CodeNotFound)
	})
}

func TestDeleteExpense(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")

	t.Run("non-admin is denied", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "20.00")
		assertCode(t, svc.DeleteExpense(ctx, e.ID, member), apperrors.CodeAccessDenied)
		if _, err := svc.GetExpense(ctx, e.ID); err != nil {
			t.Errorf("expense should survive: %v", err)
		}
	})

	t.Run("admin deletes cleared expense with history", func(t *testing.T) {
		e := mustExpense(t, svc, alice.ID, "20.00")
		if _, err := svc.ApplyPayment(ctx, e.ID, alice.ID, amt("20.00")); err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
		if err := svc.DeleteExpense(ctx, e.ID, admin); err != nil {
			t.Fatalf("DeleteExpense failed: %v", err)
		}
		_, err := svc.GetExpense(ctx, e.ID)
		assertCode(t, err, apperrors.CodeNotFound)
		_, err = svc.HistoryOf(ctx, e.ID)
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("missing expense", func(t *testing.T) {
		err := svc.DeleteExpense(ctx, "nope", admin)
		assertCode(t, err, apperrors.CodeNotFound)
		if err.Error() != "expense not found" {
			t.Errorf("message = %q", err.Error())
		}
	})
}

func TestSoftDeleteExpense(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	e := mustExpense(t, svc, alice.ID, "20.00")
	if _, err := svc.ApplyPayment(ctx, e.ID, alice.ID, amt("5.00")); err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	if err := svc.SoftDeleteExpense(ctx, e.ID, member); err != nil {
		t.Fatalf("SoftDeleteExpense failed: %v", err)
	}

	got, err := svc.GetExpense(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetExpense failed: %v", err)
	}
	if !got.IsDeleted || got.DeletedBy != member.UserID || !got.DeletedAt.Equal(fixedNow) {
		t.Errorf("soft-delete marker = %v/%s/%s", got.IsDeleted, got.DeletedBy, got.DeletedAt)
	}

	active, _ := svc.ListActive(ctx)
	for _, a := range active {
		if a.ID == e.ID {
			t.Error("soft-deleted expense must not be listed")
		}
	}
	history, err := svc.HistoryOf(ctx, e.ID)
	if err != nil || len(history) != 1 {
		t.Errorf("history must survive soft delete: %d rows, err %v", len(history), err)
	}

	t.Run("second soft delete keeps the first marker", func(t *testing.T) {
		if err := svc.SoftDeleteExpense(ctx, e.ID, admin); err != nil {
			t.Fatalf("SoftDeleteExpense failed: %v", err)
		}
		again, _ := svc.GetExpense(ctx, e.ID)
		if again.DeletedBy != member.UserID {
			t.Errorf("DeletedBy overwritten: %s", again.DeletedBy)
		}
	})

	t.Run("missing expense", func(t *testing.T) {
		assertCode(t, svc.SoftDeleteExpense(ctx, "nope", admin), apperrors.CodeNotFound)
	})
}

func TestListings(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	bob := mustMember(t, svc, "Bob")

	add := func(memberID, amount string, d time.Time) *models.Expense {
		e, err := svc.AddExpense(ctx, models.ExpenseRequest{Description: "x", Date: d, Amount: amt(amount), MemberID: memberID})
		if err != nil {
			t.Fatalf("AddExpense failed: %v", err)
		}
		return e
	}

	thisMonth := add(alice.ID, "10.00", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC))
	lastDay := add(bob.ID, "20.00", time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC))
	earlierThisYear := add(alice.ID, "30.00", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	lastYear := add("", "40.00", time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	deleted := add(bob.ID, "50.00", time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
	if err := svc.SoftDeleteExpense(ctx, deleted.ID, admin); err != nil {
		t.Fatalf("SoftDeleteExpense failed: %v", err)
	}

	ids := func(expenses []*models.Expense) map[string]bool {
		out := make(map[string]bool, len(expenses))
		for _, e := range expenses {
			out[e.ID] = true
		}
		return out
	}

	t.Run("monthly", func(t *testing.T) {
		got, err := svc.ListMonthly(ctx)
		if err != nil {
			t.Fatalf("ListMonthly failed: %v", err)
		}
		set := ids(got)
		if len(got) != 2 || !set[thisMonth.ID] || !set[lastDay.ID] {
			t.Errorf("monthly = %v", set)
		}
	})

	t.Run("yearly", func(t *testing.T) {
		got, _ := svc.ListYearly(ctx)
		set := ids(got)
		if len(got) != 3 || !set[earlierThisYear.ID] || set[lastYear.ID] {
			t.Errorf("yearly = %v", set)
		}
	})

	t.Run("by member", func(t *testing.T) {
		got, _ := svc.ListByMember(ctx, alice.ID)
		if len(got) != 2 {
			t.Errorf("alice has %d active expenses, want 2", len(got))
		}
		_, err := svc.ListByMember(ctx, "ghost")
		assertCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("by member name", func(t *testing.T) {
		got, _ := svc.ListByMemberName(ctx, "BO")
		if len(got) != 1 || got[0].ID != lastDay.ID {
			t.Errorf("by name = %v", ids(got))
		}
	})

	t.Run("unassigned", func(t *testing.T) {
		got, _ := svc.ListUnassigned(ctx)
		if len(got) != 1 || got[0].ID != lastYear.ID {
			t.Errorf("unassigned = %v", ids(got))
		}
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := svc.ListByDateRange(ctx, fixedNow, fixedNow.AddDate(0, 0, -1))
		assertCode(t, err, apperrors.CodeInvalidArgument)
	})
}

func TestSummariesByMember(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	alice := mustMember(t, svc, "Alice")
	bob := mustMember(t, svc, "Bob")

	a1 := mustExpense(t, svc, alice.ID, "10.10")
	mustExpense(t, svc, alice.ID, "20.20")
	b1 := mustExpense(t, svc, bob.ID, "5.00")
	mustExpense(t, svc, "", "99.00")
	gone := mustExpense(t, svc, bob.ID, "1000.00")

	if _, err := svc.ApplyPayment(ctx, a1.ID, bob.ID, amt("10.10")); err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}
	if _, err := svc.ApplyPayment(ctx, b1.ID, bob.ID, amt("2.50")); err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}
	if err := svc.SoftDeleteExpense(ctx, gone.ID, admin); err != nil {
		t.Fatalf("SoftDeleteExpense failed: %v", err)
	}

	owed, err := svc.ExpenseSummaryByMember(ctx)
	if err != nil {
		t.Fatalf("ExpenseSummaryByMember failed: %v", err)
	}
	if len(owed) != 2 || money.Format(owed["Alice"]) != "30.30" || money.Format(owed["Bob"]) != "5.00" {
		t.Errorf("owed = %v", owed)
	}

	settled, err := svc.ClearedSummaryByMember(ctx)
	if err != nil {
		t.Fatalf("ClearedSummaryByMember failed: %v", err)
	}
	// Keyed by the expense owner, not the payer.
	if money.Format(settled["Alice"]) != "10.10" || money.Format(settled["Bob"]) != "2.50" {
		t.Errorf("settled = %v", settled)
	}
}

func TestMembers(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	mustMember(t, svc, "Alice")
	mustMember(t, svc, "Malice")
	mustMember(t, svc, "Bob")

	found, err := svc.FindMembersByName(ctx, "ALI")
	if err != nil {
		t.Fatalf("FindMembersByName failed: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("expected 2 matches, got %d", len(found))
	}

	_, err = svc.CreateMember(ctx, "   ")
	assertCode(t, err, apperrors.CodeInvalidArgument)

	_, err = svc.GetMember(ctx, "ghost")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
