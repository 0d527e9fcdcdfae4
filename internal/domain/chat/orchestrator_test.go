package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/agent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/chat"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/intent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/language"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/llm"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/memory"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/llmprovider"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// ---- conversation fakes ----

type fakeConversationRepo struct {
	byPublicID map[string]*conversation.Conversation
	nextID     uint
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{byPublicID: make(map[string]*conversation.Conversation)}
}

func (f *fakeConversationRepo) Create(ctx context.Context, conv *conversation.Conversation) error {
	f.nextID++
	conv.ID = f.nextID
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = conv.CreatedAt
	f.byPublicID[conv.PublicID] = conv
	return nil
}

func (f *fakeConversationRepo) FindByPublicID(ctx context.Context, publicID string) (*conversation.Conversation, error) {
	conv, ok := f.byPublicID[publicID]
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil)
	}
	return conv, nil
}

func (f *fakeConversationRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]conversation.Conversation, int64, error) {
	return nil, 0, nil
}

func (f *fakeConversationRepo) Deactivate(ctx context.Context, id uint) error { return nil }

func (f *fakeConversationRepo) DeactivateIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeConversationRepo) SetLanguage(ctx context.Context, id uint, lang string) error {
	for _, conv := range f.byPublicID {
		if conv.ID == id {
			conv.Language = lang
		}
	}
	return nil
}

type fakeMessageRepo struct {
	byConversation map[uint][]conversation.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{byConversation: make(map[uint][]conversation.Message)}
}

func (f *fakeMessageRepo) ListRecent(ctx context.Context, conversationID uint, limit int) ([]conversation.Message, error) {
	messages := f.byConversation[conversationID]
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages, nil
}

func (f *fakeMessageRepo) ListPage(ctx context.Context, conversationID uint, limit, offset int, beforePublicID string) (*conversation.HistoryPage, error) {
	return &conversation.HistoryPage{}, nil
}

func (f *fakeMessageRepo) AppendTurn(ctx context.Context, conv *conversation.Conversation, userMsg, assistantMsg *conversation.Message) error {
	userMsg.ConversationID = conv.ID
	assistantMsg.ConversationID = conv.ID
	f.byConversation[conv.ID] = append(f.byConversation[conv.ID], *userMsg, *assistantMsg)
	conv.MessageCount += 2
	conv.UpdatedAt = time.Now()
	return nil
}

func (f *fakeMessageRepo) count() int {
	total := 0
	for _, messages := range f.byConversation {
		total += len(messages)
	}
	return total
}

// ---- memory fake ----

type fakeMemoryRepo struct {
	entries map[string]*memory.Entry
}

func newFakeMemoryRepo() *fakeMemoryRepo {
	return &fakeMemoryRepo{entries: make(map[string]*memory.Entry)}
}

func (f *fakeMemoryRepo) Upsert(ctx context.Context, entry *memory.Entry) error {
	f.entries[entry.UserID+"/"+string(entry.AgentType)+"/"+entry.Key] = entry
	return nil
}

func (f *fakeMemoryRepo) FindActive(ctx context.Context, userID string, agentType memory.AgentType, now time.Time) ([]memory.Entry, error) {
	return nil, nil
}

func (f *fakeMemoryRepo) Get(ctx context.Context, userID string, agentType memory.AgentType, key string) (*memory.Entry, error) {
	return f.entries[userID+"/"+string(agentType)+"/"+key], nil
}

func (f *fakeMemoryRepo) Touch(ctx context.Context, id uint, accessedAt time.Time) error { return nil }

func (f *fakeMemoryRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

// ---- classifier and agent stubs ----

type stubClassifier struct {
	classification *intent.Classification
	err            error
	calls          int
}

func (s *stubClassifier) Classify(ctx context.Context, message string, history []llm.ChatMessage) (*intent.Classification, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.classification, nil
}

type stubAgent struct {
	agentType agent.Type
	reply     *agent.Reply
	err       error
	calls     int
}

func (s *stubAgent) Type() agent.Type { return s.agentType }

func (s *stubAgent) Respond(ctx context.Context, req *agent.Request) (*agent.Reply, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.reply, nil
}

type stubTranslatorProvider struct {
	reply string
	err   error
}

func (s *stubTranslatorProvider) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.ChatCompletionChoice{{Message: llm.ChatMessage{Role: "assistant", Content: s.reply}}},
	}, nil
}

// ---- harness ----

type harness struct {
	orchestrator  *chat.Orchestrator
	classifier    *stubClassifier
	agent         *stubAgent
	conversations *fakeConversationRepo
	messages      *fakeMessageRepo
	memories      *fakeMemoryRepo
}

func newHarness(t *testing.T, classifier *stubClassifier, agentStub *stubAgent, translated string) *harness {
	t.Helper()

	convRepo := newFakeConversationRepo()
	msgRepo := newFakeMessageRepo()
	conversations := conversation.NewService(convRepo, msgRepo, 30*time.Minute, zerolog.Nop())

	memRepo := newFakeMemoryRepo()
	memories := memory.NewService(memRepo, zerolog.Nop())

	translator := language.NewTranslator(&stubTranslatorProvider{reply: translated}, "test-model", zerolog.Nop())
	languageAgent := agent.NewLanguageAgent(translator, memories, zerolog.Nop())
	voiceAgent := agent.NewVoiceAgent(zerolog.Nop())

	agents := agent.NewRegistry()
	if agentStub != nil {
		require.NoError(t, agents.Register(agentStub, intent.IntentQuery, intent.IntentCreate))
	}

	return &harness{
		orchestrator:  chat.NewOrchestrator(conversations, classifier, agents, languageAgent, voiceAgent, zerolog.Nop()),
		classifier:    classifier,
		agent:         agentStub,
		conversations: convRepo,
		messages:      msgRepo,
		memories:      memRepo,
	}
}

func confident(it intent.Intent, entities map[string]string) *stubClassifier {
	return &stubClassifier{classification: &intent.Classification{
		Intent: it, Confidence: 0.92, Entities: entities,
	}}
}

func TestConverse_DispatchesAndPersists(t *testing.T) {
	agentStub := &stubAgent{agentType: agent.TypeSpending, reply: &agent.Reply{
		Text: "You spent 45,000 this month.",
		ToolCalls: []conversation.ToolCallRecord{
			{Name: "get_financial_summary", Status: "completed"},
		},
	}}
	h := newHarness(t, confident(intent.IntentQuery, nil), agentStub, "")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "How much did I spend this month?",
	})
	require.NoError(t, err)

	assert.Equal(t, "You spent 45,000 this month.", resp.Reply)
	assert.Equal(t, "query", resp.Intent)
	assert.Equal(t, chat.StateReturned, resp.State)
	assert.Equal(t, "en", resp.Language)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, 1, agentStub.calls)
	assert.Equal(t, 2, h.messages.count(), "both sides of the turn are persisted")
}

func TestConverse_PersistsAssistantLatency(t *testing.T) {
	agentStub := &stubAgent{agentType: agent.TypeSpending, reply: &agent.Reply{Text: "done"}}
	h := newHarness(t, confident(intent.IntentQuery, nil), agentStub, "")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "how much did I spend",
	})
	require.NoError(t, err)

	for _, messages := range h.messages.byConversation {
		assistant := messages[1]
		require.NotNil(t, assistant.LatencyMS, "assistant messages carry processing latency")
		assert.GreaterOrEqual(t, *assistant.LatencyMS, int64(0))
		assert.LessOrEqual(t, *assistant.LatencyMS, resp.LatencyMS)
	}
}

func TestConverse_LowConfidenceAsksForClarification(t *testing.T) {
	agentStub := &stubAgent{agentType: agent.TypeSpending, reply: &agent.Reply{Text: "should not run"}}
	classifier := &stubClassifier{classification: &intent.Classification{
		Intent: intent.IntentQuery, Confidence: 0.4,
	}}
	h := newHarness(t, classifier, agentStub, "")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "hmm the thing from before",
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Reply, "rephrase")
	assert.Zero(t, agentStub.calls, "no agent dispatch below the confidence threshold")
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, 2, h.messages.count(), "clarification turns still persist")
}

func TestConverse_OutOfScopeRedirects(t *testing.T) {
	h := newHarness(t, confident(intent.IntentOutOfScope, nil), nil, "")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "Write me a poem about the sea",
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Reply, "personal finances")
	assert.Equal(t, "out_of_scope", resp.Intent)
}

func TestConverse_SmalltalkAnswersDirectly(t *testing.T) {
	h := newHarness(t, confident(intent.IntentSmalltalk, nil), nil, "")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "hello there",
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Reply, "financial assistant")
	assert.Empty(t, resp.ToolCalls)
}

func TestConverse_LowVoiceConfidenceConfirmsTranscript(t *testing.T) {
	classifier := confident(intent.IntentQuery, nil)
	h := newHarness(t, classifier, nil, "")

	confidence := 0.4
	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:                  "user-1",
		Message:                 "send five thousand to groceries",
		InputMethod:             conversation.InputVoice,
		TranscriptionConfidence: &confidence,
	})
	require.NoError(t, err)

	assert.Contains(t, resp.Reply, "Did I get that right?")
	assert.Contains(t, resp.Reply, "send five thousand to groceries")
	assert.Zero(t, classifier.calls, "unconfirmed transcripts are never classified")
	assert.Empty(t, resp.Intent)
	assert.Equal(t, 2, h.messages.count())
}

func TestConverse_AcceptableVoiceConfidenceProceeds(t *testing.T) {
	agentStub := &stubAgent{agentType: agent.TypeSpending, reply: &agent.Reply{Text: "done"}}
	classifier := confident(intent.IntentQuery, nil)
	h := newHarness(t, classifier, agentStub, "")

	confidence := 0.9
	_, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:                  "user-1",
		Message:                 "how much did I spend",
		InputMethod:             conversation.InputVoice,
		TranscriptionConfidence: &confidence,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, classifier.calls)
	assert.Equal(t, 1, agentStub.calls)
}

func TestConverse_EmptyMessageRejected(t *testing.T) {
	h := newHarness(t, confident(intent.IntentQuery, nil), nil, "")

	_, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "   ",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
	assert.Zero(t, h.messages.count())
}

func TestConverse_ClassifierTimeoutFailsTurn(t *testing.T) {
	classifier := &stubClassifier{err: llmprovider.ErrTimeout}
	h := newHarness(t, classifier, nil, "")

	_, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "how much did I spend",
	})
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeTimeout))
	assert.Zero(t, h.messages.count(), "failed turns persist nothing")
}

func TestConverse_AgentExternalFailureDegrades(t *testing.T) {
	agentStub := &stubAgent{
		agentType: agent.TypeSpending,
		err: platformerrors.NewError(context.Background(), platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, "backend down", errors.New("connection refused")),
	}
	h := newHarness(t, confident(intent.IntentQuery, nil), agentStub, "")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "how much did I spend",
	})
	require.NoError(t, err, "tool unavailability completes the turn with an apology")

	assert.Contains(t, resp.Reply, "try again")
	assert.Empty(t, resp.ToolCalls)
	assert.Equal(t, 2, h.messages.count())
}

func TestConverse_UrduPreferenceRendersReply(t *testing.T) {
	agentStub := &stubAgent{agentType: agent.TypeSpending, reply: &agent.Reply{Text: "You spent 45,000 this month."}}
	h := newHarness(t, confident(intent.IntentQuery, nil), agentStub, "آپ نے اس مہینے 45,000 خرچ کیے۔")

	preference := &memory.Entry{
		UserID: "user-1", AgentType: memory.AgentLanguage,
		Key: "preferred_language", Content: "ur", Importance: 1,
	}
	require.NoError(t, h.memories.Upsert(context.Background(), preference))

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "How much did I spend this month?",
	})
	require.NoError(t, err)

	assert.Equal(t, "ur", resp.Language)
	assert.Equal(t, "You spent 45,000 this month.", resp.Reply, "canonical English is always returned")
	require.NotNil(t, resp.ReplyTranslated)
	assert.Equal(t, "آپ نے اس مہینے 45,000 خرچ کیے۔", *resp.ReplyTranslated)

	for _, messages := range h.messages.byConversation {
		assistant := messages[1]
		assert.Equal(t, "You spent 45,000 this month.", assistant.Content, "canonical English is stored")
		require.NotNil(t, assistant.ContentTranslated)
		assert.Equal(t, "آپ نے اس مہینے 45,000 خرچ کیے۔", *assistant.ContentTranslated)
	}
}

func TestConverse_RequestLanguageOverridesDetection(t *testing.T) {
	h := newHarness(t, confident(intent.IntentSmalltalk, nil), nil, "ہیلو")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:   "user-1",
		Message:  "hello there",
		Language: "ur",
	})
	require.NoError(t, err)
	assert.Equal(t, "ur", resp.Language)
	assert.Equal(t, "en", resp.LanguageDetected, "the override does not rewrite what was detected")
	require.NotNil(t, resp.ReplyTranslated)
	assert.Equal(t, "ہیلو", *resp.ReplyTranslated)
}

func TestConverse_RomanUrduInputDetected(t *testing.T) {
	h := newHarness(t, confident(intent.IntentSmalltalk, nil), nil, "ہیلو")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "mera kharcha kitna hai",
	})
	require.NoError(t, err)
	assert.Equal(t, "ur", resp.Language)
	assert.Equal(t, "ur", resp.LanguageDetected)
}

func TestConverse_ClassifierLanguageSurfaced(t *testing.T) {
	classifier := &stubClassifier{classification: &intent.Classification{
		Intent: intent.IntentSmalltalk, Confidence: 0.95, Language: "ur-Latn",
	}}
	h := newHarness(t, classifier, nil, "ہیلو")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "salam, kya haal hai",
	})
	require.NoError(t, err)
	assert.Equal(t, "ur-Latn", resp.LanguageDetected, "the classifier's finer tag wins over the local heuristic")
}

func TestConverse_PersistsResolvedConversationLanguage(t *testing.T) {
	h := newHarness(t, confident(intent.IntentSmalltalk, nil), nil, "ہیلو")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:   "user-1",
		Message:  "hello there",
		Language: "ur",
	})
	require.NoError(t, err)

	conv := h.conversations.byPublicID[resp.ConversationID]
	require.NotNil(t, conv)
	assert.Equal(t, conversation.LanguageUrdu, conv.Language,
		"the conversation default follows the resolved turn language")
}

func TestConverse_UnboundIntentRedirects(t *testing.T) {
	h := newHarness(t, confident(intent.IntentAnalyze, nil), nil, "")

	resp, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "analyze my spending",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Reply, "personal finances")
}

func TestConverse_ContinuesExistingConversation(t *testing.T) {
	agentStub := &stubAgent{agentType: agent.TypeSpending, reply: &agent.Reply{Text: "done"}}
	h := newHarness(t, confident(intent.IntentQuery, nil), agentStub, "")

	first, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:  "user-1",
		Message: "how much did I spend",
	})
	require.NoError(t, err)

	second, err := h.orchestrator.Converse(context.Background(), &chat.Request{
		UserID:         "user-1",
		ConversationID: first.ConversationID,
		Message:        "and last month?",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Equal(t, 4, h.messages.count())
}
