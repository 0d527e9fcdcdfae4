package financeapi

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/finance"
)

// Client implements finance.Backend against the finance service HTTP API.
// Caller identity travels as a header; the backend enforces ownership.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed finance client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(timeout),
	}
}

func (c *Client) request(ctx context.Context, userID string) *resty.Request {
	return c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-User-ID", userID)
}

// GetSummary fetches aggregated income/expense/balance for the period.
func (c *Client) GetSummary(ctx context.Context, userID string, from, to time.Time) (*finance.Summary, error) {
	var summary finance.Summary
	resp, err := c.request(ctx, userID).
		SetQueryParam("from", from.Format(time.RFC3339)).
		SetQueryParam("to", to.Format(time.RFC3339)).
		SetResult(&summary).
		Get("/v1/summary")
	if err != nil {
		return nil, fmt.Errorf("finance summary request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finance api error: %s", resp.String())
	}
	return &summary, nil
}

// ListTransactions fetches ledger entries within the period.
func (c *Client) ListTransactions(ctx context.Context, userID string, from, to time.Time) ([]finance.Transaction, error) {
	var transactions []finance.Transaction
	resp, err := c.request(ctx, userID).
		SetQueryParam("from", from.Format(time.RFC3339)).
		SetQueryParam("to", to.Format(time.RFC3339)).
		SetResult(&transactions).
		Get("/v1/transactions")
	if err != nil {
		return nil, fmt.Errorf("finance transactions request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finance api error: %s", resp.String())
	}
	return transactions, nil
}

// ListBudgets fetches the period's budgets with running spend.
func (c *Client) ListBudgets(ctx context.Context, userID string, month, year int) ([]finance.Budget, error) {
	var budgets []finance.Budget
	resp, err := c.request(ctx, userID).
		SetQueryParam("month", fmt.Sprintf("%d", month)).
		SetQueryParam("year", fmt.Sprintf("%d", year)).
		SetResult(&budgets).
		Get("/v1/budgets")
	if err != nil {
		return nil, fmt.Errorf("finance budgets request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finance api error: %s", resp.String())
	}
	return budgets, nil
}

// ListGoals fetches the user's savings goals.
func (c *Client) ListGoals(ctx context.Context, userID string) ([]finance.Goal, error) {
	var goals []finance.Goal
	resp, err := c.request(ctx, userID).
		SetResult(&goals).
		Get("/v1/goals")
	if err != nil {
		return nil, fmt.Errorf("finance goals request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finance api error: %s", resp.String())
	}
	return goals, nil
}

// ListCategories fetches the category catalog visible to the user.
func (c *Client) ListCategories(ctx context.Context, userID string) ([]finance.Category, error) {
	var categories []finance.Category
	resp, err := c.request(ctx, userID).
		SetResult(&categories).
		Get("/v1/categories")
	if err != nil {
		return nil, fmt.Errorf("finance categories request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finance api error: %s", resp.String())
	}
	return categories, nil
}

// CreateBudget creates a budget row. The backend rejects duplicates for the
// same (category, month, year), which keeps this call safe at-most-once.
func (c *Client) CreateBudget(ctx context.Context, userID string, req finance.CreateBudgetRequest) (*finance.Budget, error) {
	var budget finance.Budget
	resp, err := c.request(ctx, userID).
		SetBody(req).
		SetResult(&budget).
		Post("/v1/budgets")
	if err != nil {
		return nil, fmt.Errorf("finance create budget request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finance api error: %s", resp.String())
	}
	return &budget, nil
}

// CreateTransaction appends one ledger entry.
func (c *Client) CreateTransaction(ctx context.Context, userID string, req finance.CreateTransactionRequest) (*finance.Transaction, error) {
	var transaction finance.Transaction
	resp, err := c.request(ctx, userID).
		SetBody(req).
		SetResult(&transaction).
		Post("/v1/transactions")
	if err != nil {
		return nil, fmt.Errorf("finance create transaction request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finance api error: %s", resp.String())
	}
	return &transaction, nil
}

// GetDashboardMetrics fetches the dashboard aggregate.
func (c *Client) GetDashboardMetrics(ctx context.Context, userID string) (*finance.DashboardMetrics, error) {
	var metrics finance.DashboardMetrics
	resp, err := c.request(ctx, userID).
		SetResult(&metrics).
		Get("/v1/dashboard/metrics")
	if err != nil {
		return nil, fmt.Errorf("finance dashboard request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("finance api error: %s", resp.String())
	}
	return &metrics, nil
}

var _ finance.Backend = (*Client)(nil)
