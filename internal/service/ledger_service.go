package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/roomledger/internal/api"
	"github.com/mmynk/roomledger/internal/ledger"
	"github.com/mmynk/roomledger/internal/models"
	"github.com/mmynk/roomledger/internal/money"
)

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	ledger    *ledger.Service
	validator *api.Validator
}

// NewLedgerService creates a LedgerService over l.
func NewLedgerService(l *ledger.Service, v *api.Validator) *LedgerService {
	return &LedgerService{ledger: l, validator: v}
}

func expenses(list []*models.Expense) *connect.Response[api.ListExpensesResponse] {
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: api.ToExpenses(list)})
}

func (s *LedgerService) ListActive(ctx context.Context, req *connect.Request[api.ListActiveRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	list, err := s.ledger.ListActive(ctx)
	if err != nil {
		return nil, fail("ListActive", err)
	}
	return expenses(list), nil
}

// ListByDateRange lists active expenses dated within [start, end], inclusive.
func (s *LedgerService) ListByDateRange(ctx context.Context, req *connect.Request[api.ListByDateRangeRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("ListByDateRange", err)
	}
	start, err := api.ParseDate(req.Msg.Start)
	if err != nil {
		return nil, fail("ListByDateRange", err)
	}
	end, err := api.ParseDate(req.Msg.End)
	if err != nil {
		return nil, fail("ListByDateRange", err)
	}

	list, err := s.ledger.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fail("ListByDateRange", err, "start", req.Msg.Start, "end", req.Msg.End)
	}
	return expenses(list), nil
}

func (s *LedgerService) ListMonthly(ctx context.Context, req *connect.Request[api.ListMonthlyRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	list, err := s.ledger.ListMonthly(ctx)
	if err != nil {
		return nil, fail("ListMonthly", err)
	}
	return expenses(list), nil
}

func (s *LedgerService) ListYearly(ctx context.Context, req *connect.Request[api.ListYearlyRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	list, err := s.ledger.ListYearly(ctx)
	if err != nil {
		return nil, fail("ListYearly", err)
	}
	return expenses(list), nil
}

func (s *LedgerService) ListByMember(ctx context.Context, req *connect.Request[api.ListByMemberRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("ListByMember", err)
	}
	list, err := s.ledger.ListByMember(ctx, req.Msg.MemberID)
	if err != nil {
		return nil, fail("ListByMember", err, "member_id", req.Msg.MemberID)
	}
	return expenses(list), nil
}

func (s *LedgerService) ListByMemberName(ctx context.Context, req *connect.Request[api.ListByMemberNameRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("ListByMemberName", err)
	}
	list, err := s.ledger.ListByMemberName(ctx, req.Msg.Name)
	if err != nil {
		return nil, fail("ListByMemberName", err, "name", req.Msg.Name)
	}
	return expenses(list), nil
}

func (s *LedgerService) ListUnassigned(ctx context.Context, req *connect.Request[api.ListUnassignedRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	list, err := s.ledger.ListUnassigned(ctx)
	if err != nil {
		return nil, fail("ListUnassigned", err)
	}
	return expenses(list), nil
}

// GetExpense also resolves soft-deleted expenses.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("GetExpense", err)
	}
	expense, err := s.ledger.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, fail("GetExpense", err, "expense_id", req.Msg.ExpenseID)
	}
	return connect.NewResponse(&api.ExpenseResponse{Expense: api.ToExpense(expense)}), nil
}

func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	slog.Info("AddExpense request received",
		"member_id", req.Msg.MemberID,
		"amount", req.Msg.Amount,
		"date", req.Msg.Date,
	)

	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("AddExpense", err)
	}
	in, err := api.ExpenseRequest(req.Msg.Description, req.Msg.Date, req.Msg.Amount, req.Msg.MemberID)
	if err != nil {
		return nil, fail("AddExpense", err)
	}

	expense, err := s.ledger.AddExpense(ctx, in)
	if err != nil {
		return nil, fail("AddExpense", err, "member_id", req.Msg.MemberID)
	}
	return connect.NewResponse(&api.ExpenseResponse{Expense: api.ToExpense(expense)}), nil
}

// UpdateExpense is admin only. Non-admins are denied before the body is looked at.
func (s *LedgerService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.ExpenseResponse], error) {
	caller, err := actor(ctx)
	if err != nil {
		return nil, fail("UpdateExpense", err)
	}
	if err := ledger.RequireAdmin(caller); err != nil {
		return nil, fail("UpdateExpense", err, "user_id", caller.UserID)
	}
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("UpdateExpense", err)
	}
	in, err := api.ExpenseRequest(req.Msg.Description, req.Msg.Date, req.Msg.Amount, req.Msg.MemberID)
	if err != nil {
		return nil, fail("UpdateExpense", err)
	}

	expense, err := s.ledger.UpdateExpense(ctx, req.Msg.ExpenseID, in, caller)
	if err != nil {
		return nil, fail("UpdateExpense", err, "expense_id", req.Msg.ExpenseID, "user_id", caller.UserID)
	}
	return connect.NewResponse(&api.ExpenseResponse{Expense: api.ToExpense(expense)}), nil
}

// DeleteExpense is admin only and removes the payment history too.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	caller, err := actor(ctx)
	if err != nil {
		return nil, fail("DeleteExpense", err)
	}
	if err := ledger.RequireAdmin(caller); err != nil {
		return nil, fail("DeleteExpense", err, "user_id", caller.UserID)
	}
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("DeleteExpense", err)
	}
	if err := s.ledger.DeleteExpense(ctx, req.Msg.ExpenseID, caller); err != nil {
		return nil, fail("DeleteExpense", err, "expense_id", req.Msg.ExpenseID, "user_id", caller.UserID)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

func (s *LedgerService) SoftDeleteExpense(ctx context.Context, req *connect.Request[api.SoftDeleteExpenseRequest]) (*connect.Response[api.SoftDeleteExpenseResponse], error) {
	caller, err := actor(ctx)
	if err != nil {
		return nil, fail("SoftDeleteExpense", err)
	}
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("SoftDeleteExpense", err)
	}
	if err := s.ledger.SoftDeleteExpense(ctx, req.Msg.ExpenseID, caller); err != nil {
		return nil, fail("SoftDeleteExpense", err, "expense_id", req.Msg.ExpenseID, "user_id", caller.UserID)
	}
	return connect.NewResponse(&api.SoftDeleteExpenseResponse{}), nil
}

// ApplyPayment settles part or all of an expense's remaining balance.
func (s *LedgerService) ApplyPayment(ctx context.Context, req *connect.Request[api.ApplyPaymentRequest]) (*connect.Response[api.ExpenseResponse], error) {
	slog.Info("ApplyPayment request received",
		"expense_id", req.Msg.ExpenseID,
		"member_id", req.Msg.MemberID,
		"amount", req.Msg.Amount,
	)

	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("ApplyPayment", err)
	}
	amount, err := api.ParseAmount(req.Msg.Amount)
	if err != nil {
		return nil, fail("ApplyPayment", err)
	}

	expense, err := s.ledger.ApplyPayment(ctx, req.Msg.ExpenseID, req.Msg.MemberID, amount)
	if err != nil {
		return nil, fail("ApplyPayment", err,
			"expense_id", req.Msg.ExpenseID,
			"member_id", req.Msg.MemberID,
			"amount", money.Format(amount),
		)
	}
	return connect.NewResponse(&api.ExpenseResponse{Expense: api.ToExpense(expense)}), nil
}

// HistoryOf returns payments newest first.
func (s *LedgerService) HistoryOf(ctx context.Context, req *connect.Request[api.HistoryOfRequest]) (*connect.Response[api.HistoryOfResponse], error) {
	if err := validate(s.validator, req.Msg); err != nil {
		return nil, fail("HistoryOf", err)
	}
	entries, err := s.ledger.HistoryOf(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, fail("HistoryOf", err, "expense_id", req.Msg.ExpenseID)
	}
	return connect.NewResponse(&api.HistoryOfResponse{Payments: api.ToPayments(entries)}), nil
}

func (s *LedgerService) ClearedSummaryByMember(ctx context.Context, req *connect.Request[api.SummaryRequest]) (*connect.Response[api.SummaryResponse], error) {
	totals, err := s.ledger.ClearedSummaryByMember(ctx)
	if err != nil {
		return nil, fail("ClearedSummaryByMember", err)
	}
	return connect.NewResponse(api.ToSummary(totals)), nil
}

func (s *LedgerService) ExpenseSummaryByMember(ctx context.Context, req *connect.Request[api.SummaryRequest]) (*connect.Response[api.SummaryResponse], error) {
	totals, err := s.ledger.ExpenseSummaryByMember(ctx)
	if err != nil {
		return nil, fail("ExpenseSummaryByMember", err)
	}
	return connect.NewResponse(api.ToSummary(totals)), nil
}
