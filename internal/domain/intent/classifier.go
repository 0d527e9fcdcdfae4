package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/llm"
)

const classifierSystemPrompt = `You classify messages sent to a personal finance assistant.

Return ONLY a JSON object, no prose, with exactly these fields:
{"intent": "...", "confidence": 0.0, "entities": {}, "language": "..."}

intent must be one of:
- query: asking about balances, expenses, budgets, goals, summaries
- create: asking to record a transaction or create a budget or goal
- update: asking to change an existing budget or goal
- analyze: asking for spending analysis, comparisons, or financial health
- predict: asking about investment projections or future outcomes
- smalltalk: greetings and pleasantries
- out_of_scope: anything not about the user's personal finances

confidence is your certainty in [0,1]. Be conservative: if the request is
ambiguous, lower the confidence instead of picking an intent.

entities holds extracted values as strings, using keys when present:
amount, category, period, month, year, horizon_months, transaction_type, note.
Amounts keep digits only (strip commas and currency words).

language is "en", "ur" (Urdu script), or "ur-Latn" (Romanized Urdu).`

// Classifier resolves a user message to an intent with confidence.
type Classifier interface {
	Classify(ctx context.Context, message string, history []llm.ChatMessage) (*Classification, error)
}

// LLMClassifier asks the completion provider for a structured classification.
type LLMClassifier struct {
	provider llm.Provider
	model    string
	log      zerolog.Logger
}

// NewLLMClassifier builds the provider-backed classifier.
func NewLLMClassifier(provider llm.Provider, model string, log zerolog.Logger) *LLMClassifier {
	return &LLMClassifier{
		provider: provider,
		model:    model,
		log:      log.With().Str("component", "intent-classifier").Logger(),
	}
}

// Classify sends the message plus bounded history to the provider and parses
// the strict JSON reply.
func (c *LLMClassifier) Classify(ctx context.Context, message string, history []llm.ChatMessage) (*Classification, error) {
	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{Role: "system", Content: classifierSystemPrompt})
	messages = append(messages, history...)
	messages = append(messages, llm.ChatMessage{Role: "user", Content: message})

	temperature := 0.0
	resp, err := c.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model:          c.model,
		Messages:       messages,
		Temperature:    &temperature,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("classify message: %w", err)
	}

	classification, err := ParseClassification(resp.Choices[0].Message.Content)
	if err != nil {
		// Broken output degrades to a clarification turn, not a guess.
		c.log.Warn().Err(err).Str("raw", truncate(resp.Choices[0].Message.Content, 200)).Msg("unparseable classification")
		return &Classification{Intent: IntentOutOfScope, Confidence: 0}, nil
	}

	return classification, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "") + "..."
}

var _ Classifier = (*LLMClassifier)(nil)
