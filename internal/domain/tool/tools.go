package tool

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/finance"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/simulation"
)

// Fixed tool names. Exactly six tools are exposed; each wraps one backend
// operation.
const (
	NameFinancialSummary   = "get_financial_summary"
	NameCreateBudget       = "create_budget"
	NameAddTransaction     = "add_transaction"
	NameAnalyzeSpending    = "analyze_spending"
	NameSimulateInvestment = "simulate_investment"
	NameDashboardMetrics   = "get_dashboard_metrics"
)

// overspendWarningRatio marks a budget as at-risk once spend crosses this
// share of its limit.
const overspendWarningRatio = 0.8

// RegisterAll wires the six base tools into the registry.
func RegisterAll(registry *Registry, backend finance.Backend, simulations *simulation.Service) error {
	defs := []Definition{
		newFinancialSummaryTool(backend),
		newCreateBudgetTool(backend),
		newAddTransactionTool(backend),
		newAnalyzeSpendingTool(backend),
		newSimulateInvestmentTool(simulations),
		newDashboardMetricsTool(backend),
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// ---- get_financial_summary ----

type FinancialSummaryArgs struct {
	Month int `json:"month,omitempty" jsonschema:"description=Month 1-12; defaults to the current month" validate:"omitempty,min=1,max=12"`
	Year  int `json:"year,omitempty" jsonschema:"description=Four digit year; defaults to the current year" validate:"omitempty,min=2000,max=2100"`
}

type FinancialSummaryResult struct {
	TotalIncome   float64 `json:"total_income"`
	TotalExpense  float64 `json:"total_expense"`
	NetSavings    float64 `json:"net_savings"`
	WalletBalance float64 `json:"wallet_balance"`
	Currency      string  `json:"currency" validate:"required"`
	Month         int     `json:"month" validate:"min=1,max=12"`
	Year          int     `json:"year" validate:"min=2000"`
}

func newFinancialSummaryTool(backend finance.Backend) Definition {
	return NewDefinition(NameFinancialSummary,
		"Retrieve the user's income, expenses, savings and wallet balance for a month.",
		KindRead,
		func(ctx context.Context, caller Caller, args FinancialSummaryArgs) (FinancialSummaryResult, error) {
			month, year := defaultPeriod(args.Month, args.Year)
			from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			to := from.AddDate(0, 1, 0)

			summary, err := backend.GetSummary(ctx, caller.UserID, from, to)
			if err != nil {
				return FinancialSummaryResult{}, err
			}

			currency := summary.Currency
			if currency == "" {
				currency = "PKR"
			}
			return FinancialSummaryResult{
				TotalIncome:   toFloat(summary.TotalIncome),
				TotalExpense:  toFloat(summary.TotalExpense),
				NetSavings:    toFloat(summary.NetSavings),
				WalletBalance: toFloat(summary.WalletBalance),
				Currency:      currency,
				Month:         month,
				Year:          year,
			}, nil
		})
}

// ---- create_budget ----

type CreateBudgetArgs struct {
	Category string  `json:"category" jsonschema:"description=Category name such as Food or Transport" validate:"required"`
	Amount   float64 `json:"amount" jsonschema:"description=Monthly limit in the user's currency" validate:"required,gt=0"`
	Month    int     `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year     int     `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
}

type CreateBudgetResult struct {
	BudgetID string  `json:"budget_id" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Month    int     `json:"month" validate:"min=1,max=12"`
	Year     int     `json:"year" validate:"min=2000"`
}

func newCreateBudgetTool(backend finance.Backend) Definition {
	return NewDefinition(NameCreateBudget,
		"Create a monthly budget limit for an existing spending category.",
		KindWrite,
		func(ctx context.Context, caller Caller, args CreateBudgetArgs) (CreateBudgetResult, error) {
			category, err := resolveCategory(ctx, backend, caller.UserID, args.Category)
			if err != nil {
				return CreateBudgetResult{}, err
			}

			month, year := defaultPeriod(args.Month, args.Year)
			budget, err := backend.CreateBudget(ctx, caller.UserID, finance.CreateBudgetRequest{
				CategoryID: category.ID,
				Limit:      decimal.NewFromFloat(args.Amount),
				Month:      month,
				Year:       year,
			})
			if err != nil {
				return CreateBudgetResult{}, err
			}

			return CreateBudgetResult{
				BudgetID: budget.ID,
				Category: budget.Category,
				Amount:   toFloat(budget.Limit),
				Month:    budget.Month,
				Year:     budget.Year,
			}, nil
		})
}

// ---- add_transaction ----

type AddTransactionArgs struct {
	Type       string  `json:"type" jsonschema:"description=Either income or expense" validate:"required,oneof=income expense"`
	Amount     float64 `json:"amount" validate:"required,gt=0"`
	Category   string  `json:"category" validate:"required"`
	Note       string  `json:"note,omitempty" validate:"omitempty,max=500"`
	OccurredAt string  `json:"occurred_at,omitempty" jsonschema:"description=RFC3339 timestamp; defaults to now" validate:"omitempty"`
}

type AddTransactionResult struct {
	TransactionID string  `json:"transaction_id" validate:"required"`
	Type          string  `json:"type" validate:"required,oneof=income expense"`
	Amount        float64 `json:"amount" validate:"gt=0"`
	Category      string  `json:"category" validate:"required"`
	OccurredAt    string  `json:"occurred_at" validate:"required"`
}

func newAddTransactionTool(backend finance.Backend) Definition {
	return NewDefinition(NameAddTransaction,
		"Record an income or expense transaction in the ledger.",
		KindWrite,
		func(ctx context.Context, caller Caller, args AddTransactionArgs) (AddTransactionResult, error) {
			category, err := resolveCategory(ctx, backend, caller.UserID, args.Category)
			if err != nil {
				return AddTransactionResult{}, err
			}

			occurredAt := time.Now()
			if args.OccurredAt != "" {
				parsed, err := time.Parse(time.RFC3339, args.OccurredAt)
				if err != nil {
					return AddTransactionResult{}, fmt.Errorf("invalid occurred_at timestamp: %w", err)
				}
				occurredAt = parsed
			}

			transaction, err := backend.CreateTransaction(ctx, caller.UserID, finance.CreateTransactionRequest{
				CategoryID: category.ID,
				Type:       finance.TransactionType(args.Type),
				Amount:     decimal.NewFromFloat(args.Amount),
				Note:       args.Note,
				OccurredAt: occurredAt,
			})
			if err != nil {
				return AddTransactionResult{}, err
			}

			return AddTransactionResult{
				TransactionID: transaction.ID,
				Type:          string(transaction.Type),
				Amount:        toFloat(transaction.Amount),
				Category:      transaction.Category,
				OccurredAt:    transaction.OccurredAt.Format(time.RFC3339),
			}, nil
		})
}

// ---- analyze_spending ----

type AnalyzeSpendingArgs struct {
	Month int `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Year  int `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
}

type CategoryBreakdown struct {
	Category string  `json:"category" validate:"required"`
	Amount   float64 `json:"amount"`
	Share    float64 `json:"share"`
}

type AnalyzeSpendingResult struct {
	Month              int                 `json:"month" validate:"min=1,max=12"`
	Year               int                 `json:"year" validate:"min=2000"`
	TotalSpend         float64             `json:"total_spend"`
	PreviousTotalSpend float64             `json:"previous_total_spend"`
	ChangePercent      float64             `json:"change_percent"`
	ByCategory         []CategoryBreakdown `json:"by_category"`
	AtRiskBudgets      []string            `json:"at_risk_budgets,omitempty"`
}

func newAnalyzeSpendingTool(backend finance.Backend) Definition {
	return NewDefinition(NameAnalyzeSpending,
		"Analyze spending by category for a month, compared against the previous month and budget limits.",
		KindRead,
		func(ctx context.Context, caller Caller, args AnalyzeSpendingArgs) (AnalyzeSpendingResult, error) {
			month, year := defaultPeriod(args.Month, args.Year)
			from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			to := from.AddDate(0, 1, 0)
			previousFrom := from.AddDate(0, -1, 0)

			current, err := backend.ListTransactions(ctx, caller.UserID, from, to)
			if err != nil {
				return AnalyzeSpendingResult{}, err
			}
			previous, err := backend.ListTransactions(ctx, caller.UserID, previousFrom, from)
			if err != nil {
				return AnalyzeSpendingResult{}, err
			}
			budgets, err := backend.ListBudgets(ctx, caller.UserID, month, year)
			if err != nil {
				return AnalyzeSpendingResult{}, err
			}

			total, byCategory := aggregateSpend(current)
			previousTotal, _ := aggregateSpend(previous)

			var changePercent float64
			if previousTotal > 0 {
				changePercent = (total - previousTotal) / previousTotal * 100
			}

			var atRisk []string
			for _, b := range budgets {
				limit := toFloat(b.Limit)
				if limit > 0 && toFloat(b.Spent)/limit >= overspendWarningRatio {
					atRisk = append(atRisk, b.Category)
				}
			}
			sort.Strings(atRisk)

			return AnalyzeSpendingResult{
				Month:              month,
				Year:               year,
				TotalSpend:         total,
				PreviousTotalSpend: previousTotal,
				ChangePercent:      changePercent,
				ByCategory:         byCategory,
				AtRiskBudgets:      atRisk,
			}, nil
		})
}

// ---- simulate_investment ----

type SimulateInvestmentArgs struct {
	Amount        float64 `json:"amount" jsonschema:"description=Amount to invest" validate:"required,gt=0"`
	HorizonMonths int     `json:"horizon_months" jsonschema:"description=Investment horizon in months" validate:"required,min=1,max=600"`
	Currency      string  `json:"currency,omitempty" validate:"omitempty,len=3"`
}

type SimulateInvestmentResult struct {
	SimulationID string                 `json:"simulation_id" validate:"required"`
	Projections  simulation.Projections `json:"projections"`
	Feasibility  simulation.Feasibility `json:"feasibility"`
	Disclaimer   string                 `json:"disclaimer" validate:"required"`
}

func newSimulateInvestmentTool(simulations *simulation.Service) Definition {
	return NewDefinition(NameSimulateInvestment,
		"Project an investment amount over a horizon under conservative, moderate and aggressive return scenarios.",
		KindRead,
		func(ctx context.Context, caller Caller, args SimulateInvestmentArgs) (SimulateInvestmentResult, error) {
			var conversationID *string
			if caller.ConversationID != "" {
				conversationID = &caller.ConversationID
			}

			sim, err := simulations.Simulate(ctx, caller.UserID, conversationID, args.Amount, args.HorizonMonths, args.Currency)
			if err != nil {
				return SimulateInvestmentResult{}, err
			}

			return SimulateInvestmentResult{
				SimulationID: sim.PublicID,
				Projections:  sim.Projections,
				Feasibility:  sim.Feasibility,
				Disclaimer:   sim.Disclaimer,
			}, nil
		})
}

// ---- get_dashboard_metrics ----

type DashboardMetricsArgs struct{}

type DashboardMetricsResult struct {
	MonthIncome      float64             `json:"month_income"`
	MonthExpense     float64             `json:"month_expense"`
	WalletBalance    float64             `json:"wallet_balance"`
	BudgetCount      int                 `json:"budget_count"`
	GoalCount        int                 `json:"goal_count"`
	TopCategories    []CategoryBreakdown `json:"top_categories"`
	TransactionCount int                 `json:"transaction_count"`
}

func newDashboardMetricsTool(backend finance.Backend) Definition {
	return NewDefinition(NameDashboardMetrics,
		"Retrieve the aggregated dashboard metrics for the current month.",
		KindRead,
		func(ctx context.Context, caller Caller, args DashboardMetricsArgs) (DashboardMetricsResult, error) {
			metrics, err := backend.GetDashboardMetrics(ctx, caller.UserID)
			if err != nil {
				return DashboardMetricsResult{}, err
			}

			top := make([]CategoryBreakdown, 0, len(metrics.TopCategories))
			for _, c := range metrics.TopCategories {
				top = append(top, CategoryBreakdown{
					Category: c.Category,
					Amount:   toFloat(c.Amount),
					Share:    c.Share,
				})
			}

			return DashboardMetricsResult{
				MonthIncome:      toFloat(metrics.MonthIncome),
				MonthExpense:     toFloat(metrics.MonthExpense),
				WalletBalance:    toFloat(metrics.WalletBalance),
				BudgetCount:      metrics.BudgetCount,
				GoalCount:        metrics.GoalCount,
				TopCategories:    top,
				TransactionCount: metrics.TransactionCount,
			}, nil
		})
}

// ---- helpers ----

func defaultPeriod(month, year int) (int, int) {
	now := time.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

func resolveCategory(ctx context.Context, backend finance.Backend, userID, name string) (*finance.Category, error) {
	categories, err := backend.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if strings.EqualFold(categories[i].Name, strings.TrimSpace(name)) {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q does not exist", name)
}

func aggregateSpend(transactions []finance.Transaction) (float64, []CategoryBreakdown) {
	perCategory := make(map[string]float64)
	var total float64
	for _, t := range transactions {
		if t.Type != finance.TransactionExpense {
			continue
		}
		amount := toFloat(t.Amount)
		perCategory[t.Category] += amount
		total += amount
	}

	breakdown := make([]CategoryBreakdown, 0, len(perCategory))
	for category, amount := range perCategory {
		share := 0.0
		if total > 0 {
			share = amount / total
		}
		breakdown = append(breakdown, CategoryBreakdown{
			Category: category,
			Amount:   amount,
			Share:    share,
		})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Amount == breakdown[j].Amount {
			return breakdown[i].Category < breakdown[j].Category
		}
		return breakdown[i].Amount > breakdown[j].Amount
	})
	return total, breakdown
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
