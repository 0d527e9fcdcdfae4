package language

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/llm"
)

const translateSystemPrompt = `You are a precise translator for a personal finance assistant.
Translate the user's message into the requested target language.
Preserve all numbers, currency amounts, percentages and category names exactly as written.
Return only the translated text with no commentary.`

// Translator renders assistant text into the conversation's language using
// the language model. Failures fall back to the untranslated text.
type Translator struct {
	provider llm.Provider
	model    string
	logger   zerolog.Logger
}

func NewTranslator(provider llm.Provider, model string, logger zerolog.Logger) *Translator {
	return &Translator{
		provider: provider,
		model:    model,
		logger:   logger.With().Str("component", "translator").Logger(),
	}
}

// Translate converts text into target. Text already in the target language,
// or empty text, is returned unchanged.
func (t *Translator) Translate(ctx context.Context, text string, target Tag) (string, error) {
	if strings.TrimSpace(text) == "" || Detect(text) == target {
		return text, nil
	}

	targetName := "English"
	if target == Urdu {
		targetName = "Urdu (in Urdu script)"
	}

	temperature := 0.0
	resp, err := t.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model:       t.model,
		Temperature: &temperature,
		Messages: []llm.ChatMessage{
			{Role: "system", Content: translateSystemPrompt},
			{Role: "user", Content: "Target language: " + targetName + "\n\n" + text},
		},
	})
	if err != nil {
		t.logger.Warn().Err(err).Msg("translation failed, returning original text")
		return text, err
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return text, nil
	}
	return translated, nil
}
