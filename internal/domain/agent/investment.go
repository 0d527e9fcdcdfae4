package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/memory"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/tool"
)

// defaultHorizonMonths is used when the user names an amount but no horizon.
const defaultHorizonMonths = 12

// lastAmountKey stores the most recent simulated amount so a follow-up like
// "what about over five years?" can reuse it.
const lastAmountKey = "last_investment_amount"

// InvestmentAgent handles predict intents by running the investment
// simulation tool. Every reply carries the simulation disclaimer verbatim.
type InvestmentAgent struct {
	tools    *tool.Scoped
	memories *memory.Service
	log      zerolog.Logger
}

func NewInvestmentAgent(tools *tool.Scoped, memories *memory.Service, log zerolog.Logger) *InvestmentAgent {
	return &InvestmentAgent{
		tools:    tools,
		memories: memories,
		log:      log.With().Str("agent", string(TypeInvestment)).Logger(),
	}
}

func (a *InvestmentAgent) Type() Type { return TypeInvestment }

func (a *InvestmentAgent) Respond(ctx context.Context, req *Request) (*Reply, error) {
	amount, ok := parseAmount(req.Entity("amount"))
	if !ok || amount <= 0 {
		amount, ok = a.recallAmount(ctx, req.UserID)
		if !ok {
			return &Reply{Text: "How much are you thinking of investing?"}, nil
		}
	}

	horizon := parseHorizonMonths(req.Entity("horizon_months"))
	if horizon == 0 {
		horizon = defaultHorizonMonths
	}

	args, _ := json.Marshal(tool.SimulateInvestmentArgs{Amount: amount, HorizonMonths: horizon})
	result, err := a.tools.Invoke(ctx, tool.NameSimulateInvestment, args, req.Caller())
	if err != nil {
		return nil, err
	}

	var sim tool.SimulateInvestmentResult
	if err := json.Unmarshal(result.Data, &sim); err != nil {
		return nil, err
	}

	if err := a.memories.Remember(ctx, req.UserID, memory.AgentInvestment, lastAmountKey,
		strconv.FormatFloat(amount, 'f', -1, 64), 0.6, 0); err != nil {
		a.log.Warn().Err(err).Msg("could not remember simulation amount")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Investing %s over %d months could grow to roughly %s (conservative), %s (moderate) or %s (aggressive).",
		formatAmount(amount), horizon,
		formatAmount(sim.Projections.Conservative.ExpectedValue),
		formatAmount(sim.Projections.Moderate.ExpectedValue),
		formatAmount(sim.Projections.Aggressive.ExpectedValue))

	if sim.Feasibility.RequiredMonthlySavings > 0 {
		fmt.Fprintf(&b, " Based on your recent average surplus of %s per month, feasibility is %.0f%%.",
			formatAmount(sim.Feasibility.AverageMonthlySurplus), sim.Feasibility.Score*100)
	}

	b.WriteString("\n\n")
	b.WriteString(sim.Disclaimer)

	reply := &Reply{Text: b.String()}
	reply.recordCall(result, args)
	return reply, nil
}

// recallAmount falls back to the amount of the user's last simulation when
// the turn names none, so horizon-only follow-ups work.
func (a *InvestmentAgent) recallAmount(ctx context.Context, userID string) (float64, bool) {
	entries, err := a.memories.Recall(ctx, userID, memory.AgentInvestment)
	if err != nil {
		a.log.Warn().Err(err).Msg("memory recall failed")
		return 0, false
	}
	for _, entry := range entries {
		if entry.Key != lastAmountKey {
			continue
		}
		if amount, err := strconv.ParseFloat(entry.Content, 64); err == nil && amount > 0 {
			return amount, true
		}
	}
	return 0, false
}

// parseHorizonMonths accepts "24", "24 months", "2 years".
func parseHorizonMonths(raw string) int {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0
	}

	years := false
	for _, suffix := range []string{"years", "year", "saal"} {
		if strings.HasSuffix(s, suffix) {
			years = true
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	for _, suffix := range []string{"months", "month", "mahine", "mahina"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}

	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	if years {
		n *= 12
	}
	if n > 600 {
		n = 600
	}
	return n
}
