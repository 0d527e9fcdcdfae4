package agent

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/language"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/memory"
)

// preferenceKey is the memory key under which the user's explicit language
// choice is stored. Explicit preferences never expire.
const preferenceKey = "preferred_language"

// LanguageAgent resolves which language a turn should be answered in and
// renders replies into it. It is consulted by the orchestrator on every
// turn rather than dispatched by intent. Precedence: explicit preference,
// then detected input language, then the conversation default.
type LanguageAgent struct {
	translator *language.Translator
	memories   *memory.Service
	log        zerolog.Logger
}

func NewLanguageAgent(translator *language.Translator, memories *memory.Service, log zerolog.Logger) *LanguageAgent {
	return &LanguageAgent{
		translator: translator,
		memories:   memories,
		log:        log.With().Str("agent", string(TypeLanguage)).Logger(),
	}
}

func (a *LanguageAgent) Type() Type { return TypeLanguage }

// Respond exists to satisfy the Agent interface; the orchestrator calls
// Resolve and Render directly.
func (a *LanguageAgent) Respond(ctx context.Context, req *Request) (*Reply, error) {
	return &Reply{Text: req.Message}, nil
}

// Resolve picks the response language for a turn.
func (a *LanguageAgent) Resolve(ctx context.Context, userID, text string, conversationDefault language.Tag) language.Tag {
	if entry, err := a.memories.Lookup(ctx, userID, memory.AgentLanguage, preferenceKey); err == nil && entry != nil {
		if tag := language.Tag(entry.Content); tag.Valid() {
			return tag
		}
	}
	if detected := language.Detect(text); detected == language.Urdu {
		return language.Urdu
	}
	if conversationDefault.Valid() {
		return conversationDefault
	}
	return language.English
}

// SetPreference stores an explicit, durable language choice.
func (a *LanguageAgent) SetPreference(ctx context.Context, userID string, tag language.Tag) error {
	return a.memories.Remember(ctx, userID, memory.AgentLanguage, preferenceKey, string(tag), 1, -1)
}

// Render translates reply text into the target language. Translation
// failures degrade to the untranslated text rather than failing the turn.
func (a *LanguageAgent) Render(ctx context.Context, text string, target language.Tag) string {
	rendered, err := a.translator.Translate(ctx, text, target)
	if err != nil {
		a.log.Warn().Err(err).Str("target", string(target)).Msg("falling back to untranslated reply")
		return text
	}
	return rendered
}
