package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/mmynk/roomledger/internal/errors"
	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
)

func TestCodec(t *testing.T) {
	assert.Equal(t, "json", Codec.Name())

	data, err := Codec.Marshal(&ApplyPaymentRequest{ExpenseID: "e1", MemberID: "m1", Amount: "40.00"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"expenseId":"e1","memberId":"m1","amount":"40.00"}`, string(data))

	var req ApplyPaymentRequest
	require.NoError(t, Codec.Unmarshal(data, &req))
	assert.Equal(t, "40.00", req.Amount)

	t.Run("empty body", func(t *testing.T) {
		var empty ListActiveRequest
		assert.NoError(t, Codec.Unmarshal(nil, &empty))
	})

	t.Run("malformed body", func(t *testing.T) {
		assert.Error(t, Codec.Unmarshal([]byte("{"), &req))
	})
}

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		msg     any
		code    apperrors.Code
		field   string
		message string
	}{
		{
			name: "valid payment",
			msg:  &ApplyPaymentRequest{ExpenseID: "e1", MemberID: "m1", Amount: "40.00"},
		},
		{
			name: "zero amount passes, the ledger rejects it",
			msg:  &ApplyPaymentRequest{ExpenseID: "e1", MemberID: "m1", Amount: "0"},
		},
		{
			name:    "three decimal places",
			msg:     &ApplyPaymentRequest{ExpenseID: "e1", MemberID: "m1", Amount: "1.005"},
			code:    apperrors.CodeInvalidAmount,
			field:   "amount",
			message: "amount must be a decimal amount with at most two decimal places",
		},
		{
			name:    "missing expense id",
			msg:     &ApplyPaymentRequest{MemberID: "m1", Amount: "1.00"},
			code:    apperrors.CodeInvalidArgument,
			field:   "expenseId",
			message: "expenseId is a required field",
		},
		{
			name:  "bad date",
			msg:   &AddExpenseRequest{Description: "Rent", Date: "16/10/2026", Amount: "10.00"},
			code:  apperrors.CodeInvalidArgument,
			field: "date",
		},
		{
			name:  "bad email",
			msg:   &RegisterRequest{Email: "not-an-email", DisplayName: "A", Password: "long-enough"},
			code:  apperrors.CodeInvalidArgument,
			field: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.msg)
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
			assert.Contains(t, apperrors.MetadataOf(err), tt.field)
			if tt.message != "" {
				assert.Equal(t, tt.message, err.Error())
			}
		})
	}
}

func TestToExpense(t *testing.T) {
	paidAt := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	e := &models.Expense{
		ID:                "e1",
		Description:       "Rent",
		Date:              time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Amount:            money.MustParse("100"),
		ClearedAmount:     money.MustParse("40"),
		LastClearedAmount: money.MustParse("40"),
		LastClearedBy:     "m1",
		LastClearedAt:     paidAt,
		Version:           2,
	}
	e.Recompute()

	got := ToExpense(e)
	assert.Equal(t, "2026-10-01", got.Date)
	assert.Equal(t, "100.00", got.Amount)
	assert.Equal(t, "40.00", got.ClearedAmount)
	assert.Equal(t, "60.00", got.RemainingAmount)
	assert.Equal(t, "40.00", got.LastClearedAmount)
	assert.Equal(t, "2026-10-16T12:00:00Z", got.LastClearedAt)
	assert.Empty(t, got.ClearedAt)
	assert.False(t, got.Cleared)
}

func TestExpenseRequest(t *testing.T) {
	req, err := ExpenseRequest("Rent", "2026-10-01", "12.50", "m1")
	require.NoError(t, err)
	assert.True(t, req.Amount.Equal(money.MustParse("12.50")))
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), req.Date)

	_, err = ExpenseRequest("Rent", "2026-13-01", "12.50", "m1")
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	_, err = ExpenseRequest("Rent", "2026-10-01", "twelve", "m1")
	assert.Equal(t, apperrors.CodeInvalidAmount, apperrors.CodeOf(err))
}
