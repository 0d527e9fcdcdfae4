package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/tool"
)

// BudgetAgent handles create and update intents: budget limits and ledger
// entries. Amounts are validated positive and categories resolved against
// the user's catalog before any write tool runs.
type BudgetAgent struct {
	tools *tool.Scoped
	log   zerolog.Logger
}

func NewBudgetAgent(tools *tool.Scoped, log zerolog.Logger) *BudgetAgent {
	return &BudgetAgent{
		tools: tools,
		log:   log.With().Str("agent", string(TypeBudget)).Logger(),
	}
}

func (a *BudgetAgent) Type() Type { return TypeBudget }

func (a *BudgetAgent) Respond(ctx context.Context, req *Request) (*Reply, error) {
	if req.Entity("transaction_type") != "" {
		return a.addTransaction(ctx, req)
	}
	return a.upsertBudget(ctx, req)
}

func (a *BudgetAgent) upsertBudget(ctx context.Context, req *Request) (*Reply, error) {
	category := req.Entity("category")
	if category == "" {
		return &Reply{Text: "Which category should this budget apply to?"}, nil
	}

	amount, ok := parseAmount(req.Entity("amount"))
	if !ok || amount <= 0 {
		return &Reply{Text: "What amount should I set for the " + category + " budget? Please give a positive number."}, nil
	}

	args, _ := json.Marshal(tool.CreateBudgetArgs{Category: category, Amount: amount})
	result, err := a.tools.Invoke(ctx, tool.NameCreateBudget, args, req.Caller())
	if err != nil {
		return nil, err
	}

	var created tool.CreateBudgetResult
	if err := json.Unmarshal(result.Data, &created); err != nil {
		return nil, err
	}

	reply := &Reply{
		Text: fmt.Sprintf("Done. I set a monthly budget of %s for %s (%02d/%d).",
			formatAmount(created.Amount), created.Category, created.Month, created.Year),
	}
	reply.recordCall(result, args)
	return reply, nil
}

func (a *BudgetAgent) addTransaction(ctx context.Context, req *Request) (*Reply, error) {
	category := req.Entity("category")
	if category == "" {
		return &Reply{Text: "Which category is this transaction for?"}, nil
	}

	amount, ok := parseAmount(req.Entity("amount"))
	if !ok || amount <= 0 {
		return &Reply{Text: "How much was it? Please give a positive amount."}, nil
	}

	txType := strings.ToLower(req.Entity("transaction_type"))
	if txType != "income" && txType != "expense" {
		txType = "expense"
	}

	args, _ := json.Marshal(tool.AddTransactionArgs{
		Type:     txType,
		Amount:   amount,
		Category: category,
		Note:     req.Entity("note"),
	})
	result, err := a.tools.Invoke(ctx, tool.NameAddTransaction, args, req.Caller())
	if err != nil {
		return nil, err
	}

	var created tool.AddTransactionResult
	if err := json.Unmarshal(result.Data, &created); err != nil {
		return nil, err
	}

	reply := &Reply{
		Text: fmt.Sprintf("Recorded a %s of %s under %s.",
			created.Type, formatAmount(created.Amount), created.Category),
	}
	reply.recordCall(result, args)
	return reply, nil
}

// parseAmount reads an entity amount, tolerating thousand separators and a
// currency suffix ("15,000", "15000 PKR", "15k").
func parseAmount(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer(",", "", "rs", "", "pkr", "", " ", "").Replace(s)

	multiplier := 1.0
	if strings.HasSuffix(s, "k") {
		multiplier = 1000
		s = strings.TrimSuffix(s, "k")
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return value * multiplier, true
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return groupThousands(strconv.FormatInt(int64(v), 10))
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
