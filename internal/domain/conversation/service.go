package conversation

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/llm"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/idgen"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// ContextWindowSize bounds how much history grounds a turn. Never unbounded:
// this caps both provider cost and staleness.
const ContextWindowSize = 20

const maxTitleLength = 60

// Service owns conversation lifecycle and context-window assembly.
type Service struct {
	conversations Repository
	messages      MessageRepository
	idleTTL       time.Duration
	log           zerolog.Logger
}

// NewService wires the conversation manager.
func NewService(conversations Repository, messages MessageRepository, idleTTL time.Duration, log zerolog.Logger) *Service {
	return &Service{
		conversations: conversations,
		messages:      messages,
		idleTTL:       idleTTL,
		log:           log.With().Str("component", "conversation-service").Logger(),
	}
}

// Resolve loads the caller's conversation or opens a new one. A foreign or
// inactive conversation id is reported as not found, never as forbidden, so
// ids cannot be probed.
func (s *Service) Resolve(ctx context.Context, userID, publicID, firstMessage string) (*Conversation, error) {
	if strings.TrimSpace(publicID) == "" {
		return s.open(ctx, userID, firstMessage)
	}

	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID || !conv.IsActive {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil,
			map[string]any{"conversation_id": publicID})
	}
	return conv, nil
}

func (s *Service) open(ctx context.Context, userID, firstMessage string) (*Conversation, error) {
	title := deriveTitle(firstMessage)
	conv := &Conversation{
		PublicID: idgen.NewPublicID("conv"),
		UserID:   userID,
		Title:    &title,
		Language: LanguageEnglish,
		IsActive: true,
	}
	if err := s.conversations.Create(ctx, conv); err != nil {
		return nil, err
	}
	s.log.Info().Str("conversation_id", conv.PublicID).Str("user_id", userID).Msg("conversation opened")
	return conv, nil
}

// ContextWindow returns the last ContextWindowSize messages as provider
// messages, oldest first.
func (s *Service) ContextWindow(ctx context.Context, conv *Conversation) ([]llm.ChatMessage, error) {
	recent, err := s.messages.ListRecent(ctx, conv.ID, ContextWindowSize)
	if err != nil {
		return nil, err
	}

	window := make([]llm.ChatMessage, 0, len(recent))
	for _, msg := range recent {
		window = append(window, llm.ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return window, nil
}

// AppendTurn persists one exchange atomically.
func (s *Service) AppendTurn(ctx context.Context, conv *Conversation, userMsg, assistantMsg *Message) error {
	return s.messages.AppendTurn(ctx, conv, userMsg, assistantMsg)
}

// List returns the caller's conversations, newest activity first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Conversation, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.conversations.ListByUser(ctx, userID, limit, offset)
}

// History returns one page of a conversation's messages after an ownership
// check.
func (s *Service) History(ctx context.Context, userID, publicID string, limit, offset int, before string) (*HistoryPage, error) {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != userID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil)
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.messages.ListPage(ctx, conv.ID, limit, offset, before)
}

// Close deactivates a conversation explicitly. The row is retained.
func (s *Service) Close(ctx context.Context, userID, publicID string) error {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if conv.UserID != userID {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil)
	}
	return s.conversations.Deactivate(ctx, conv.ID)
}

// SetLanguage updates the conversation's active language tag.
func (s *Service) SetLanguage(ctx context.Context, conv *Conversation, language string) error {
	if language != LanguageEnglish && language != LanguageUrdu {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "unsupported language: "+language, nil)
	}
	conv.Language = language
	return s.conversations.SetLanguage(ctx, conv.ID, language)
}

// SweepIdle deactivates conversations idle past the TTL. Called by the
// background sweeper, never on the request path.
func (s *Service) SweepIdle(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.idleTTL)
	count, err := s.conversations.DeactivateIdle(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info().Int64("count", count).Msg("idle conversations deactivated")
	}
	return count, nil
}

func deriveTitle(firstMessage string) string {
	title := strings.TrimSpace(firstMessage)
	if title == "" {
		return "New conversation"
	}
	if len(title) > maxTitleLength {
		// Cut on a rune boundary; a byte-offset slice would split multi-byte
		// Urdu characters and produce invalid UTF-8.
		cut := maxTitleLength
		for cut > 0 && !utf8.RuneStart(title[cut]) {
			cut--
		}
		title = strings.TrimSpace(title[:cut]) + "…"
	}
	return title
}
