// Package api defines the roomledger wire contract: request and response
// messages, the JSON codec they travel in, and the Connect handler and
// client constructors for each service.
//
// Money crosses the wire as a decimal string with two places ("40.00"),
// calendar dates as YYYY-MM-DD and instants as RFC 3339.
package api

// Expense is the wire form of models.Expense.
type Expense struct {
	ID                string `json:"id"`
	Description       string `json:"description"`
	Date              string `json:"date"`
	Amount            string `json:"amount"`
	MemberID          string `json:"memberId,omitempty"`
	ClearedAmount     string `json:"clearedAmount"`
	RemainingAmount   string `json:"remainingAmount"`
	Cleared           bool   `json:"cleared"`
	LastClearedAmount string `json:"lastClearedAmount,omitempty"`
	LastClearedBy     string `json:"lastClearedBy,omitempty"`
	LastClearedAt     string `json:"lastClearedAt,omitempty"`
	ClearedBy         string `json:"clearedBy,omitempty"`
	ClearedAt         string `json:"clearedAt,omitempty"`
	IsDeleted         bool   `json:"isDeleted,omitempty"`
	DeletedBy         string `json:"deletedBy,omitempty"`
	DeletedAt         string `json:"deletedAt,omitempty"`
	Version           int64  `json:"version"`
	CreatedAt         int64  `json:"createdAt"`
}

// Payment is the wire form of models.PaymentHistory.
type Payment struct {
	ID        string `json:"id"`
	ExpenseID string `json:"expenseId"`
	Amount    string `json:"amount"`
	ClearedBy string `json:"clearedBy"`
	Timestamp string `json:"timestamp"`
}

type Member struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"`
}

// User never carries the password hash.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	CreatedAt   int64  `json:"createdAt"`
}

// LedgerService messages.

type ListActiveRequest struct{}

type ListMonthlyRequest struct{}

type ListYearlyRequest struct{}

type ListUnassignedRequest struct{}

type ListByDateRangeRequest struct {
	Start string `json:"start" validate:"required,datetime=2006-01-02"`
	End   string `json:"end" validate:"required,datetime=2006-01-02"`
}

type ListByMemberRequest struct {
	MemberID string `json:"memberId" validate:"required"`
}

type ListByMemberNameRequest struct {
	Name string `json:"name" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
}

type ExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

// AddExpenseRequest leaves MemberID empty for an unassigned expense.
type AddExpenseRequest struct {
	Description string `json:"description" validate:"required,max=200"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Amount      string `json:"amount" validate:"required,money"`
	MemberID    string `json:"memberId,omitempty"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string `json:"expenseId" validate:"required"`
	Description string `json:"description" validate:"required,max=200"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Amount      string `json:"amount" validate:"required,money"`
	MemberID    string `json:"memberId,omitempty"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
}

type DeleteExpenseResponse struct{}

type SoftDeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
}

type SoftDeleteExpenseResponse struct{}

type ApplyPaymentRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
	MemberID  string `json:"memberId" validate:"required"`
	Amount    string `json:"amount" validate:"required,money"`
}

type HistoryOfRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
}

type HistoryOfResponse struct {
	Payments []*Payment `json:"payments"`
}

type SummaryRequest struct{}

// SummaryResponse maps member name to a decimal total.
type SummaryResponse struct {
	Totals map[string]string `json:"totals"`
}

// MemberService messages.

type CreateMemberRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type GetMemberRequest struct {
	MemberID string `json:"memberId" validate:"required"`
}

type MemberResponse struct {
	Member *Member `json:"member"`
}

type SearchMembersRequest struct {
	Name string `json:"name"`
}

type SearchMembersResponse struct {
	Members []*Member `json:"members"`
}

// AuthService messages.

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Password    string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
