package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/intent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/tool"
)

// SpendingAgent handles query and analyze intents. Queries read the monthly
// summary; analysis compares spend against the previous period and flags
// budgets near their limit.
type SpendingAgent struct {
	tools *tool.Scoped
	log   zerolog.Logger
}

func NewSpendingAgent(tools *tool.Scoped, log zerolog.Logger) *SpendingAgent {
	return &SpendingAgent{
		tools: tools,
		log:   log.With().Str("agent", string(TypeSpending)).Logger(),
	}
}

func (a *SpendingAgent) Type() Type { return TypeSpending }

func (a *SpendingAgent) Respond(ctx context.Context, req *Request) (*Reply, error) {
	if req.Classification != nil && req.Classification.Intent == intent.IntentAnalyze {
		return a.analyze(ctx, req)
	}
	return a.summarize(ctx, req)
}

func (a *SpendingAgent) summarize(ctx context.Context, req *Request) (*Reply, error) {
	month, year := parsePeriod(req)

	args, _ := json.Marshal(tool.FinancialSummaryArgs{Month: month, Year: year})
	result, err := a.tools.Invoke(ctx, tool.NameFinancialSummary, args, req.Caller())
	if err != nil {
		return nil, err
	}

	var summary tool.FinancialSummaryResult
	if err := json.Unmarshal(result.Data, &summary); err != nil {
		return nil, err
	}

	reply := &Reply{
		Text: fmt.Sprintf("For %02d/%d: income %s %s, expenses %s %s, net savings %s %s. Wallet balance is %s %s.",
			summary.Month, summary.Year,
			summary.Currency, formatAmount(summary.TotalIncome),
			summary.Currency, formatAmount(summary.TotalExpense),
			summary.Currency, formatAmount(summary.NetSavings),
			summary.Currency, formatAmount(summary.WalletBalance)),
	}
	reply.recordCall(result, args)
	return reply, nil
}

func (a *SpendingAgent) analyze(ctx context.Context, req *Request) (*Reply, error) {
	month, year := parsePeriod(req)

	args, _ := json.Marshal(tool.AnalyzeSpendingArgs{Month: month, Year: year})
	result, err := a.tools.Invoke(ctx, tool.NameAnalyzeSpending, args, req.Caller())
	if err != nil {
		return nil, err
	}

	var analysis tool.AnalyzeSpendingResult
	if err := json.Unmarshal(result.Data, &analysis); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You spent %s in %02d/%d", formatAmount(analysis.TotalSpend), analysis.Month, analysis.Year)
	switch {
	case analysis.PreviousTotalSpend == 0:
		b.WriteString(".")
	case analysis.ChangePercent >= 0:
		fmt.Fprintf(&b, ", up %.1f%% from the previous month.", analysis.ChangePercent)
	default:
		fmt.Fprintf(&b, ", down %.1f%% from the previous month.", -analysis.ChangePercent)
	}

	for i, c := range analysis.ByCategory {
		if i >= 3 {
			break
		}
		if i == 0 {
			b.WriteString(" Top categories: ")
		} else {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%s)", c.Category, formatAmount(c.Amount))
	}
	if len(analysis.ByCategory) > 0 {
		b.WriteString(".")
	}

	if len(analysis.AtRiskBudgets) > 0 {
		fmt.Fprintf(&b, " Heads up: you have used over 80%% of your budget for %s.",
			strings.Join(analysis.AtRiskBudgets, ", "))
	}

	reply := &Reply{Text: b.String()}
	reply.recordCall(result, args)
	return reply, nil
}

// parsePeriod reads month/year entities when present; zero means the tool
// defaults to the current period.
func parsePeriod(req *Request) (int, int) {
	rawMonth := strings.TrimSpace(req.Entity("month"))
	month, err := strconv.Atoi(rawMonth)
	if err != nil && rawMonth != "" {
		if t, perr := time.Parse("January", rawMonth); perr == nil {
			month = int(t.Month())
		}
	}
	year, _ := strconv.Atoi(req.Entity("year"))
	if month < 1 || month > 12 {
		month = 0
	}
	if year < 2000 {
		year = 0
	}
	return month, year
}
