// Package chat implements the master orchestrator: the single entry point
// for a conversational turn. It classifies intent, routes to sub-agents,
// and persists the exchange atomically. No financial figure ever reaches a
// reply except through a tool result recorded in the same turn.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/agent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/intent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/language"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/llm"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/llmprovider"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/metrics"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/idgen"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// Fixed response texts. These are returned verbatim (then translated), never
// generated, so behavior under refusal paths is exactly reproducible.
const (
	redirectionText = "I can help with your personal finances: budgets, spending, savings, goals and investments. For other topics I'm not the right assistant."

	clarificationText = "I want to make sure I get this right. Could you rephrase that with a bit more detail, like the amount or category you mean?"

	smalltalkText = "Hello! I'm your financial assistant. You can ask me about your spending, set budgets, record transactions, or explore investment projections."

	unavailableActionText = "I wasn't able to complete that action right now. Please try again in a moment."

	maxMessageLength = 4000
)

// Request is one inbound user turn. Language, when set, overrides preference
// and detection for this turn only.
type Request struct {
	UserID                  string
	ConversationID          string
	Message                 string
	Language                string
	InputMethod             conversation.InputMethod
	TranscriptionConfidence *float64
}

// Response is the completed turn returned to the transport layer. Reply
// always carries the canonical English text; ReplyTranslated is set when the
// turn rendered into another language. Language is the language the reply was
// rendered in; LanguageDetected is what the input was classified as, which
// may be a finer tag like "ur-Latn".
type Response struct {
	ConversationID   string                        `json:"conversation_id"`
	MessageID        string                        `json:"message_id"`
	Reply            string                        `json:"response"`
	ReplyTranslated  *string                       `json:"response_translated,omitempty"`
	Language         string                        `json:"language"`
	LanguageDetected string                        `json:"language_detected"`
	Intent           string                        `json:"intent,omitempty"`
	Entities         map[string]string             `json:"entities,omitempty"`
	Confidence       float64                       `json:"confidence"`
	State            TurnState                     `json:"state"`
	ToolCalls        []conversation.ToolCallRecord `json:"tool_calls,omitempty"`
	LatencyMS        int64                         `json:"latency_ms"`
}

// turn carries one exchange through the pipeline.
type turn struct {
	state          TurnState
	started        time.Time
	classification *intent.Classification
	replyText      string
	renderedText   string
	target         language.Tag
	detected       string
	toolCalls      []conversation.ToolCallRecord
}

// Orchestrator routes classified turns to sub-agents and owns turn
// persistence.
type Orchestrator struct {
	conversations *conversation.Service
	classifier    intent.Classifier
	agents        *agent.Registry
	languageAgent *agent.LanguageAgent
	voiceAgent    *agent.VoiceAgent
	locks         *turnLocks
	log           zerolog.Logger
}

func NewOrchestrator(
	conversations *conversation.Service,
	classifier intent.Classifier,
	agents *agent.Registry,
	languageAgent *agent.LanguageAgent,
	voiceAgent *agent.VoiceAgent,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		conversations: conversations,
		classifier:    classifier,
		agents:        agents,
		languageAgent: languageAgent,
		voiceAgent:    voiceAgent,
		locks:         newTurnLocks(),
		log:           log.With().Str("component", "orchestrator").Logger(),
	}
}

// Converse runs one full turn. Turns for the same conversation are
// serialized; the second caller waits.
func (o *Orchestrator) Converse(ctx context.Context, req *Request) (*Response, error) {
	started := time.Now()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "message must not be empty", nil)
	}
	if len(message) > maxMessageLength {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "message exceeds maximum length", nil)
	}
	if req.InputMethod == "" {
		req.InputMethod = conversation.InputText
	}

	conv, err := o.conversations.Resolve(ctx, req.UserID, req.ConversationID, message)
	if err != nil {
		return nil, err
	}

	o.locks.lock(conv.PublicID)
	defer o.locks.unlock(conv.PublicID)

	t := &turn{state: StateReceived, started: started}
	resp, err := o.runTurn(ctx, req, conv, t, message)

	elapsed := time.Since(started)
	intentLabel := "none"
	if t.classification != nil {
		intentLabel = string(t.classification.Intent)
	}
	if err != nil {
		t.state = StateFailed
	}
	metrics.TurnDuration.WithLabelValues(intentLabel, string(t.state)).Observe(elapsed.Seconds())

	if err != nil {
		o.log.Error().Err(err).
			Str("conversation_id", conv.PublicID).
			Str("user_id", req.UserID).
			Dur("elapsed", elapsed).
			Msg("turn failed")
		return nil, err
	}

	resp.LatencyMS = elapsed.Milliseconds()
	return resp, nil
}

func (o *Orchestrator) runTurn(ctx context.Context, req *Request, conv *conversation.Conversation, t *turn, message string) (*Response, error) {
	t.detected = string(language.Detect(message))
	if requested := language.Tag(req.Language); requested.Valid() {
		t.target = requested
	} else {
		t.target = o.languageAgent.Resolve(ctx, req.UserID, message, language.Tag(conv.Language))
	}

	// Low-confidence voice transcripts are confirmed before anything acts
	// on them. No classification, no tools.
	if req.InputMethod == conversation.InputVoice &&
		req.TranscriptionConfidence != nil &&
		!o.voiceAgent.Acceptable(*req.TranscriptionConfidence) {
		t.advance(StateClarifying)
		t.replyText = agent.ConfirmTranscriptPrompt(message)
		return o.finish(ctx, req, conv, t, message)
	}

	window, err := o.conversations.ContextWindow(ctx, conv)
	if err != nil {
		return nil, err
	}

	classification, err := o.classify(ctx, message, window)
	if err != nil {
		return nil, err
	}
	t.classification = classification
	t.advance(StateClassified)

	// The classifier's read of the input language is finer than the local
	// heuristic: it distinguishes Romanized Urdu ("ur-Latn") from script.
	if classification.Language != "" {
		t.detected = classification.Language
	}

	metrics.IntentConfidence.Observe(classification.Confidence)

	switch {
	case classification.NeedsClarification():
		metrics.IntentsTotal.WithLabelValues(string(classification.Intent), "clarification").Inc()
		t.advance(StateClarifying)
		t.replyText = clarificationText

	case classification.Intent == intent.IntentOutOfScope:
		metrics.IntentsTotal.WithLabelValues(string(classification.Intent), "redirected").Inc()
		t.replyText = redirectionText

	case classification.Intent == intent.IntentSmalltalk:
		metrics.IntentsTotal.WithLabelValues(string(classification.Intent), "smalltalk").Inc()
		t.replyText = smalltalkText

	default:
		metrics.IntentsTotal.WithLabelValues(string(classification.Intent), "dispatched").Inc()
		if err := o.dispatch(ctx, req, conv, t, message); err != nil {
			return nil, err
		}
	}

	return o.finish(ctx, req, conv, t, message)
}

func (o *Orchestrator) classify(ctx context.Context, message string, window []llm.ChatMessage) (*intent.Classification, error) {
	classification, err := o.classifier.Classify(ctx, message, window)
	if err != nil {
		if errors.Is(err, llmprovider.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeTimeout, "assistant temporarily unavailable", err)
		}
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, "intent classification failed", err)
	}
	return classification, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, req *Request, conv *conversation.Conversation, t *turn, message string) error {
	handler, ok := o.agents.Resolve(t.classification.Intent)
	if !ok {
		t.replyText = redirectionText
		return nil
	}
	t.advance(StateDispatched)

	reply, err := handler.Respond(ctx, &agent.Request{
		UserID:         req.UserID,
		ConversationID: conv.PublicID,
		Message:        message,
		Classification: t.classification,
		Language:       t.target,
	})
	if err != nil {
		// Tool failures are reported as an inability to act. The audit log
		// already carries the failed invocation; the turn itself completes.
		if platformerrors.IsType(err, platformerrors.ErrorTypeExternal) {
			o.log.Warn().Err(err).
				Str("conversation_id", conv.PublicID).
				Str("intent", string(t.classification.Intent)).
				Msg("agent action failed, replying with apology")
			t.replyText = unavailableActionText
			return nil
		}
		return err
	}

	if len(reply.ToolCalls) > 0 {
		t.advance(StateToolExecuted)
		t.toolCalls = reply.ToolCalls
	}
	t.replyText = reply.Text
	return nil
}

// finish renders the reply into the target language, persists both sides of
// the exchange atomically, and builds the response.
func (o *Orchestrator) finish(ctx context.Context, req *Request, conv *conversation.Conversation, t *turn, message string) (*Response, error) {
	t.renderedText = t.replyText
	if t.target == language.Urdu {
		t.renderedText = o.languageAgent.Render(ctx, t.replyText, t.target)
	}
	t.advance(StateFormatted)

	userMsg := &conversation.Message{
		PublicID:    idgen.NewPublicID("msg"),
		Role:        conversation.RoleUser,
		Content:     message,
		InputMethod: req.InputMethod,
	}
	if t.classification != nil {
		intentName := string(t.classification.Intent)
		confidence := t.classification.Confidence
		userMsg.Intent = &intentName
		userMsg.Entities = t.classification.Entities
		userMsg.Confidence = &confidence
	}
	if req.TranscriptionConfidence != nil && userMsg.Confidence == nil {
		userMsg.Confidence = req.TranscriptionConfidence
	}

	latency := time.Since(t.started).Milliseconds()
	assistantMsg := &conversation.Message{
		PublicID:    idgen.NewPublicID("msg"),
		Role:        conversation.RoleAssistant,
		Content:     t.replyText,
		ToolCalls:   t.toolCalls,
		InputMethod: conversation.InputText,
		LatencyMS:   &latency,
	}
	if t.renderedText != t.replyText {
		assistantMsg.ContentTranslated = &t.renderedText
	}

	if err := o.conversations.AppendTurn(ctx, conv, userMsg, assistantMsg); err != nil {
		return nil, err
	}
	t.advance(StatePersisted)
	t.advance(StateReturned)

	// The conversation default follows the language the turn resolved to, so
	// follow-up turns without a preference or detectable script stay in it.
	if string(t.target) != conv.Language {
		if err := o.conversations.SetLanguage(ctx, conv, string(t.target)); err != nil {
			o.log.Warn().Err(err).Str("conversation_id", conv.PublicID).Msg("conversation language update failed")
		}
	}

	resp := &Response{
		ConversationID:   conv.PublicID,
		MessageID:        assistantMsg.PublicID,
		Reply:            t.replyText,
		Language:         string(t.target),
		LanguageDetected: t.detected,
		State:            t.state,
	}
	if t.renderedText != t.replyText {
		resp.ReplyTranslated = &t.renderedText
	}
	if t.classification != nil {
		resp.Intent = string(t.classification.Intent)
		resp.Entities = t.classification.Entities
		resp.Confidence = t.classification.Confidence
	}
	resp.ToolCalls = t.toolCalls
	return resp, nil
}
