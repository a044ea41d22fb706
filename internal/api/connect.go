package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Fully-qualified service names.
const (
	LedgerServiceName = "roomledger.v1.LedgerService"
	MemberServiceName = "roomledger.v1.MemberService"
	AuthServiceName   = "roomledger.v1.AuthService"
)

// Procedure paths, in the form Connect routes on.
const (
	LedgerServiceListActiveProcedure             = "/roomledger.v1.LedgerService/ListActive"
	LedgerServiceListByDateRangeProcedure        = "/roomledger.v1.LedgerService/ListByDateRange"
	LedgerServiceListMonthlyProcedure            = "/roomledger.v1.LedgerService/ListMonthly"
	LedgerServiceListYearlyProcedure             = "/roomledger.v1.LedgerService/ListYearly"
	LedgerServiceListByMemberProcedure           = "/roomledger.v1.LedgerService/ListByMember"
	LedgerServiceListByMemberNameProcedure       = "/roomledger.v1.LedgerService/ListByMemberName"
	LedgerServiceListUnassignedProcedure         = "/roomledger.v1.LedgerService/ListUnassigned"
	LedgerServiceGetExpenseProcedure             = "/roomledger.v1.LedgerService/GetExpense"
	LedgerServiceAddExpenseProcedure             = "/roomledger.v1.LedgerService/AddExpense"
	LedgerServiceUpdateExpenseProcedure          = "/roomledger.v1.LedgerService/UpdateExpense"
	LedgerServiceDeleteExpenseProcedure          = "/roomledger.v1.LedgerService/DeleteExpense"
	LedgerServiceSoftDeleteExpenseProcedure      = "/roomledger.v1.LedgerService/SoftDeleteExpense"
	LedgerServiceApplyPaymentProcedure           = "/roomledger.v1.LedgerService/ApplyPayment"
	LedgerServiceHistoryOfProcedure              = "/roomledger.v1.LedgerService/HistoryOf"
	LedgerServiceClearedSummaryByMemberProcedure = "/roomledger.v1.LedgerService/ClearedSummaryByMember"
	LedgerServiceExpenseSummaryByMemberProcedure = "/roomledger.v1.LedgerService/ExpenseSummaryByMember"

	MemberServiceCreateMemberProcedure  = "/roomledger.v1.MemberService/CreateMember"
	MemberServiceGetMemberProcedure     = "/roomledger.v1.MemberService/GetMember"
	MemberServiceSearchMembersProcedure = "/roomledger.v1.MemberService/SearchMembers"

	AuthServiceRegisterProcedure       = "/roomledger.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/roomledger.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/roomledger.v1.AuthService/GetCurrentUser"
)

// newHandler prepends the JSON codec to opts.
func newHandler[Req, Res any](procedure string, unary func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) *connect.Handler {
	return connect.NewUnaryHandler(procedure, unary, append([]connect.HandlerOption{connect.WithCodec(Codec)}, opts...)...)
}

// newClient prepends the JSON codec to opts.
func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure,
		append([]connect.ClientOption{connect.WithCodec(Codec)}, opts...)...)
}

// route dispatches on the exact procedure path.
func route(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	ListActive(context.Context, *connect.Request[ListActiveRequest]) (*connect.Response[ListExpensesResponse], error)
	ListByDateRange(context.Context, *connect.Request[ListByDateRangeRequest]) (*connect.Response[ListExpensesResponse], error)
	ListMonthly(context.Context, *connect.Request[ListMonthlyRequest]) (*connect.Response[ListExpensesResponse], error)
	ListYearly(context.Context, *connect.Request[ListYearlyRequest]) (*connect.Response[ListExpensesResponse], error)
	ListByMember(context.Context, *connect.Request[ListByMemberRequest]) (*connect.Response[ListExpensesResponse], error)
	ListByMemberName(context.Context, *connect.Request[ListByMemberNameRequest]) (*connect.Response[ListExpensesResponse], error)
	ListUnassigned(context.Context, *connect.Request[ListUnassignedRequest]) (*connect.Response[ListExpensesResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	AddExpense(context.Context, *connect.Request[AddExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	SoftDeleteExpense(context.Context, *connect.Request[SoftDeleteExpenseRequest]) (*connect.Response[SoftDeleteExpenseResponse], error)
	ApplyPayment(context.Context, *connect.Request[ApplyPaymentRequest]) (*connect.Response[ExpenseResponse], error)
	HistoryOf(context.Context, *connect.Request[HistoryOfRequest]) (*connect.Response[HistoryOfResponse], error)
	ClearedSummaryByMember(context.Context, *connect.Request[SummaryRequest]) (*connect.Response[SummaryResponse], error)
	ExpenseSummaryByMember(context.Context, *connect.Request[SummaryRequest]) (*connect.Response[SummaryResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc. The returned path is the
// prefix to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + LedgerServiceName + "/", route(map[string]http.Handler{
		LedgerServiceListActiveProcedure:             newHandler(LedgerServiceListActiveProcedure, svc.ListActive, opts),
		LedgerServiceListByDateRangeProcedure:        newHandler(LedgerServiceListByDateRangeProcedure, svc.ListByDateRange, opts),
		LedgerServiceListMonthlyProcedure:            newHandler(LedgerServiceListMonthlyProcedure, svc.ListMonthly, opts),
		LedgerServiceListYearlyProcedure:             newHandler(LedgerServiceListYearlyProcedure, svc.ListYearly, opts),
		LedgerServiceListByMemberProcedure:           newHandler(LedgerServiceListByMemberProcedure, svc.ListByMember, opts),
		LedgerServiceListByMemberNameProcedure:       newHandler(LedgerServiceListByMemberNameProcedure, svc.ListByMemberName, opts),
		LedgerServiceListUnassignedProcedure:         newHandler(LedgerServiceListUnassignedProcedure, svc.ListUnassigned, opts),
		LedgerServiceGetExpenseProcedure:             newHandler(LedgerServiceGetExpenseProcedure, svc.GetExpense, opts),
		LedgerServiceAddExpenseProcedure:             newHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts),
		LedgerServiceUpdateExpenseProcedure:          newHandler(LedgerServiceUpdateExpenseProcedure, svc.UpdateExpense, opts),
		LedgerServiceDeleteExpenseProcedure:          newHandler(LedgerServiceDeleteExpenseProcedure, svc.DeleteExpense, opts),
		LedgerServiceSoftDeleteExpenseProcedure:      newHandler(LedgerServiceSoftDeleteExpenseProcedure, svc.SoftDeleteExpense, opts),
		LedgerServiceApplyPaymentProcedure:           newHandler(LedgerServiceApplyPaymentProcedure, svc.ApplyPayment, opts),
		LedgerServiceHistoryOfProcedure:              newHandler(LedgerServiceHistoryOfProcedure, svc.HistoryOf, opts),
		LedgerServiceClearedSummaryByMemberProcedure: newHandler(LedgerServiceClearedSummaryByMemberProcedure, svc.ClearedSummaryByMember, opts),
		LedgerServiceExpenseSummaryByMemberProcedure: newHandler(LedgerServiceExpenseSummaryByMemberProcedure, svc.ExpenseSummaryByMember, opts),
	})
}

// LedgerServiceClient calls LedgerService on a remote server.
type LedgerServiceClient struct {
	listActive             *connect.Client[ListActiveRequest, ListExpensesResponse]
	listByDateRange        *connect.Client[ListByDateRangeRequest, ListExpensesResponse]
	listMonthly            *connect.Client[ListMonthlyRequest, ListExpensesResponse]
	listYearly             *connect.Client[ListYearlyRequest, ListExpensesResponse]
	listByMember           *connect.Client[ListByMemberRequest, ListExpensesResponse]
	listByMemberName       *connect.Client[ListByMemberNameRequest, ListExpensesResponse]
	listUnassigned         *connect.Client[ListUnassignedRequest, ListExpensesResponse]
	getExpense             *connect.Client[GetExpenseRequest, ExpenseResponse]
	addExpense             *connect.Client[AddExpenseRequest, ExpenseResponse]
	updateExpense          *connect.Client[UpdateExpenseRequest, ExpenseResponse]
	deleteExpense          *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	softDeleteExpense      *connect.Client[SoftDeleteExpenseRequest, SoftDeleteExpenseResponse]
	applyPayment           *connect.Client[ApplyPaymentRequest, ExpenseResponse]
	historyOf              *connect.Client[HistoryOfRequest, HistoryOfResponse]
	clearedSummaryByMember *connect.Client[SummaryRequest, SummaryResponse]
	expenseSummaryByMember *connect.Client[SummaryRequest, SummaryResponse]
}

// NewLedgerServiceClient creates a client for the server at baseURL, e.g.
// http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	return &LedgerServiceClient{
		listActive:             newClient[ListActiveRequest, ListExpensesResponse](httpClient, baseURL, LedgerServiceListActiveProcedure, opts),
		listByDateRange:        newClient[ListByDateRangeRequest, ListExpensesResponse](httpClient, baseURL, LedgerServiceListByDateRangeProcedure, opts),
		listMonthly:            newClient[ListMonthlyRequest, ListExpensesResponse](httpClient, baseURL, LedgerServiceListMonthlyProcedure, opts),
		listYearly:             newClient[ListYearlyRequest, ListExpensesResponse](httpClient, baseURL, LedgerServiceListYearlyProcedure, opts),
		listByMember:           newClient[ListByMemberRequest, ListExpensesResponse](httpClient, baseURL, LedgerServiceListByMemberProcedure, opts),
		listByMemberName:       newClient[ListByMemberNameRequest, ListExpensesResponse](httpClient, baseURL, LedgerServiceListByMemberNameProcedure, opts),
		listUnassigned:         newClient[ListUnassignedRequest, ListExpensesResponse](httpClient, baseURL, LedgerServiceListUnassignedProcedure, opts),
		getExpense:             newClient[GetExpenseRequest, ExpenseResponse](httpClient, baseURL, LedgerServiceGetExpenseProcedure, opts),
		addExpense:             newClient[AddExpenseRequest, ExpenseResponse](httpClient, baseURL, LedgerServiceAddExpenseProcedure, opts),
		updateExpense:          newClient[UpdateExpenseRequest, ExpenseResponse](httpClient, baseURL, LedgerServiceUpdateExpenseProcedure, opts),
		deleteExpense:          newClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL, LedgerServiceDeleteExpenseProcedure, opts),
		softDeleteExpense:      newClient[SoftDeleteExpenseRequest, SoftDeleteExpenseResponse](httpClient, baseURL, LedgerServiceSoftDeleteExpenseProcedure, opts),
		applyPayment:           newClient[ApplyPaymentRequest, ExpenseResponse](httpClient, baseURL, LedgerServiceApplyPaymentProcedure, opts),
		historyOf:              newClient[HistoryOfRequest, HistoryOfResponse](httpClient, baseURL, LedgerServiceHistoryOfProcedure, opts),
		clearedSummaryByMember: newClient[SummaryRequest, SummaryResponse](httpClient, baseURL, LedgerServiceClearedSummaryByMemberProcedure, opts),
		expenseSummaryByMember: newClient[SummaryRequest, SummaryResponse](httpClient, baseURL, LedgerServiceExpenseSummaryByMemberProcedure, opts),
	}
}

func (c *LedgerServiceClient) ListActive(ctx context.Context, req *connect.Request[ListActiveRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listActive.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListByDateRange(ctx context.Context, req *connect.Request[ListByDateRangeRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listByDateRange.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListMonthly(ctx context.Context, req *connect.Request[ListMonthlyRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listMonthly.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListYearly(ctx context.Context, req *connect.Request[ListYearlyRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listYearly.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListByMember(ctx context.Context, req *connect.Request[ListByMemberRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listByMember.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListByMemberName(ctx context.Context, req *connect.Request[ListByMemberNameRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listByMemberName.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListUnassigned(ctx context.Context, req *connect.Request[ListUnassignedRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listUnassigned.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[AddExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) SoftDeleteExpense(ctx context.Context, req *connect.Request[SoftDeleteExpenseRequest]) (*connect.Response[SoftDeleteExpenseResponse], error) {
	return c.softDeleteExpense.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ApplyPayment(ctx context.Context, req *connect.Request[ApplyPaymentRequest]) (*connect.Response[ExpenseResponse], error) {
	return c.applyPayment.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) HistoryOf(ctx context.Context, req *connect.Request[HistoryOfRequest]) (*connect.Response[HistoryOfResponse], error) {
	return c.historyOf.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ClearedSummaryByMember(ctx context.Context, req *connect.Request[SummaryRequest]) (*connect.Response[SummaryResponse], error) {
	return c.clearedSummaryByMember.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ExpenseSummaryByMember(ctx context.Context, req *connect.Request[SummaryRequest]) (*connect.Response[SummaryResponse], error) {
	return c.expenseSummaryByMember.CallUnary(ctx, req)
}

// MemberServiceHandler is implemented by the server side of MemberService.
type MemberServiceHandler interface {
	CreateMember(context.Context, *connect.Request[CreateMemberRequest]) (*connect.Response[MemberResponse], error)
	GetMember(context.Context, *connect.Request[GetMemberRequest]) (*connect.Response[MemberResponse], error)
	SearchMembers(context.Context, *connect.Request[SearchMembersRequest]) (*connect.Response[SearchMembersResponse], error)
}

// NewMemberServiceHandler builds an HTTP handler for svc. The returned path is the
// prefix to mount it on.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + MemberServiceName + "/", route(map[string]http.Handler{
		MemberServiceCreateMemberProcedure:  newHandler(MemberServiceCreateMemberProcedure, svc.CreateMember, opts),
		MemberServiceGetMemberProcedure:     newHandler(MemberServiceGetMemberProcedure, svc.GetMember, opts),
		MemberServiceSearchMembersProcedure: newHandler(MemberServiceSearchMembersProcedure, svc.SearchMembers, opts),
	})
}

// MemberServiceClient calls MemberService on a remote server.
type MemberServiceClient struct {
	createMember  *connect.Client[CreateMemberRequest, MemberResponse]
	getMember     *connect.Client[GetMemberRequest, MemberResponse]
	searchMembers *connect.Client[SearchMembersRequest, SearchMembersResponse]
}

// NewMemberServiceClient creates a client for the server at baseURL, e.g.
// http://localhost:8080.
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *MemberServiceClient {
	return &MemberServiceClient{
		createMember:  newClient[CreateMemberRequest, MemberResponse](httpClient, baseURL, MemberServiceCreateMemberProcedure, opts),
		getMember:     newClient[GetMemberRequest, MemberResponse](httpClient, baseURL, MemberServiceGetMemberProcedure, opts),
		searchMembers: newClient[SearchMembersRequest, SearchMembersResponse](httpClient, baseURL, MemberServiceSearchMembersProcedure, opts),
	}
}

func (c *MemberServiceClient) CreateMember(ctx context.Context, req *connect.Request[CreateMemberRequest]) (*connect.Response[MemberResponse], error) {
	return c.createMember.CallUnary(ctx, req)
}

func (c *MemberServiceClient) GetMember(ctx context.Context, req *connect.Request[GetMemberRequest]) (*connect.Response[MemberResponse], error) {
	return c.getMember.CallUnary(ctx, req)
}

func (c *MemberServiceClient) SearchMembers(ctx context.Context, req *connect.Request[SearchMembersRequest]) (*connect.Response[SearchMembersResponse], error) {
	return c.searchMembers.CallUnary(ctx, req)
}

// AuthServiceHandler is implemented by the server side of AuthService.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler for svc. The returned path is the
// prefix to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + AuthServiceName + "/", route(map[string]http.Handler{
		AuthServiceRegisterProcedure:       newHandler(AuthServiceRegisterProcedure, svc.Register, opts),
		AuthServiceLoginProcedure:          newHandler(AuthServiceLoginProcedure, svc.Login, opts),
		AuthServiceGetCurrentUserProcedure: newHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts),
	})
}

// AuthServiceClient calls AuthService on a remote server.
type AuthServiceClient struct {
	register       *connect.Client[RegisterRequest, AuthResponse]
	login          *connect.Client[LoginRequest, AuthResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewAuthServiceClient creates a client for the server at baseURL, e.g.
// http://localhost:8080.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	return &AuthServiceClient{
		register:       newClient[RegisterRequest, AuthResponse](httpClient, baseURL, AuthServiceRegisterProcedure, opts),
		login:          newClient[LoginRequest, AuthResponse](httpClient, baseURL, AuthServiceLoginProcedure, opts),
		getCurrentUser: newClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL, AuthServiceGetCurrentUserProcedure, opts),
	}
}

func (c *AuthServiceClient) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *AuthServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}
