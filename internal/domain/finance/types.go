// Package finance declares the contract with the financial data backend.
// The assistant never touches ledger storage directly; every read and write
// goes through this interface, and only via registered tools.
package finance

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Category is a spending/income category owned by the backend.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// Transaction is a single ledger entry.
type Transaction struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	WalletID   string          `json:"wallet_id,omitempty"`
	CategoryID string          `json:"category_id"`
	Category   string          `json:"category"`
	Type       TransactionType `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Budget is a per-category monthly limit with running spend.
type Budget struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	CategoryID string          `json:"category_id"`
	Category   string          `json:"category"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
}

// Goal is a savings goal with progress.
type Goal struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	SavedAmount  decimal.Decimal `json:"saved_amount"`
	Deadline     *time.Time      `json:"deadline,omitempty"`
	IsActive     bool            `json:"is_active"`
}

// Summary aggregates a user's position over a period.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	NetSavings    decimal.Decimal `json:"net_savings"`
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	Currency      string          `json:"currency"`
	PeriodStart   time.Time       `json:"period_start"`
	PeriodEnd     time.Time       `json:"period_end"`
}

// DashboardMetrics is the aggregate payload the dashboard tool exposes.
type DashboardMetrics struct {
	MonthIncome      decimal.Decimal            `json:"month_income"`
	MonthExpense     decimal.Decimal            `json:"month_expense"`
	WalletBalance    decimal.Decimal            `json:"wallet_balance"`
	BudgetCount      int                        `json:"budget_count"`
	GoalCount        int                        `json:"goal_count"`
	TopCategories    []CategorySpend            `json:"top_categories"`
	SpendByCategory  map[string]decimal.Decimal `json:"spend_by_category"`
	TransactionCount int                        `json:"transaction_count"`
}

// CategorySpend is one category's share of period spending.
type CategorySpend struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Share    float64         `json:"share"`
}

// CreateBudgetRequest creates a per-category limit for the current period.
type CreateBudgetRequest struct {
	CategoryID string          `json:"category_id"`
	Limit      decimal.Decimal `json:"limit"`
	Month      int             `json:"month"`
	Year       int             `json:"year"`
}

// CreateTransactionRequest appends one ledger entry.
type CreateTransactionRequest struct {
	CategoryID string          `json:"category_id"`
	WalletID   string          `json:"wallet_id,omitempty"`
	Type       TransactionType `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Backend is the trusted financial CRUD service behind the six tools.
type Backend interface {
	GetSummary(ctx context.Context, userID string, from, to time.Time) (*Summary, error)
	ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]Transaction, error)
	ListBudgets(ctx context.Context, userID string, month, year int) ([]Budget, error)
	ListGoals(ctx context.Context, userID string) ([]Goal, error)
	ListCategories(ctx context.Context, userID string) ([]Category, error)
	CreateBudget(ctx context.Context, userID string, req CreateBudgetRequest) (*Budget, error)
	CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (*Transaction, error)
	GetDashboardMetrics(ctx context.Context, userID string) (*DashboardMetrics, error)
}
