package conversation_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

type fakeConversationRepo struct {
	byPublicID  map[string]*conversation.Conversation
	nextID      uint
	deactivated []uint
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
	var out []conversation.Conversation
	for _, conv := range f.byPublicID {
		if conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeConversationRepo) Deactivate(ctx context.Context, id uint) error {
	for _, conv := range f.byPublicID {
		if conv.ID == id {
			conv.IsActive = false
		}
	}
	f.deactivated = append(f.deactivated, id)
	return nil
}

func (f *fakeConversationRepo) DeactivateIdle(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	for _, conv := range f.byPublicID {
		if conv.IsActive && conv.UpdatedAt.Before(cutoff) {
			conv.IsActive = false
			count++
		}
	}
	return count, nil
}

func (f *fakeConversationRepo) SetLanguage(ctx context.Context, id uint, language string) error {
	for _, conv := range f.byPublicID {
		if conv.ID == id {
			conv.Language = language
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
	messages := f.byConversation[conversationID]
	page := messages
	if offset < len(page) {
		page = page[offset:]
	} else {
		page = nil
	}
	if len(page) > limit {
		page = page[:limit]
	}
	return &conversation.HistoryPage{Messages: page, Total: int64(len(messages))}, nil
}

func (f *fakeMessageRepo) AppendTurn(ctx context.Context, conv *conversation.Conversation, userMsg, assistantMsg *conversation.Message) error {
	userMsg.ConversationID = conv.ID
	assistantMsg.ConversationID = conv.ID
	f.byConversation[conv.ID] = append(f.byConversation[conv.ID], *userMsg, *assistantMsg)
	conv.MessageCount += 2
	conv.UpdatedAt = time.Now()
	return nil
}

func newTestService(convRepo *fakeConversationRepo, msgRepo *fakeMessageRepo) *conversation.Service {
	return conversation.NewService(convRepo, msgRepo, 30*time.Minute, zerolog.Nop())
}

func TestService_ResolveOpensNewConversation(t *testing.T) {
	convRepo := newFakeConversationRepo()
	service := newTestService(convRepo, newFakeMessageRepo())

	conv, err := service.Resolve(context.Background(), "user-1", "", "How much did I spend on groceries?")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(conv.PublicID, "conv_"))
	assert.True(t, conv.IsActive)
	assert.Equal(t, conversation.LanguageEnglish, conv.Language)
	require.NotNil(t, conv.Title)
	assert.Equal(t, "How much did I spend on groceries?", *conv.Title)
}

func TestService_ResolveTruncatesLongTitle(t *testing.T) {
	service := newTestService(newFakeConversationRepo(), newFakeMessageRepo())

	long := strings.Repeat("spending ", 20)
	conv, err := service.Resolve(context.Background(), "user-1", "", long)
	require.NoError(t, err)

	require.NotNil(t, conv.Title)
	assert.LessOrEqual(t, len(*conv.Title), 64)
	assert.True(t, strings.HasSuffix(*conv.Title, "…"))
}

func TestService_ResolveTruncatesUrduTitleOnRuneBoundary(t *testing.T) {
	service := newTestService(newFakeConversationRepo(), newFakeMessageRepo())

	long := "میرے اخراجات کا حساب بتاؤ اور اس مہینے کے بجٹ کا موازنہ پچھلے مہینے سے کرو"
	require.Greater(t, len(long), 60)

	conv, err := service.Resolve(context.Background(), "user-1", "", long)
	require.NoError(t, err)

	require.NotNil(t, conv.Title)
	assert.True(t, utf8.ValidString(*conv.Title), "title must never split a multi-byte rune")
	assert.True(t, strings.HasSuffix(*conv.Title, "…"))
	assert.LessOrEqual(t, len(*conv.Title), 64)
}

func TestService_ResolveExistingConversation(t *testing.T) {
	convRepo := newFakeConversationRepo()
	service := newTestService(convRepo, newFakeMessageRepo())

	opened, err := service.Resolve(context.Background(), "user-1", "", "hello")
	require.NoError(t, err)

	resolved, err := service.Resolve(context.Background(), "user-1", opened.PublicID, "ignored")
	require.NoError(t, err)
	assert.Equal(t, opened.ID, resolved.ID)
}

func TestService_ResolveHidesForeignAndInactive(t *testing.T) {
	convRepo := newFakeConversationRepo()
	service := newTestService(convRepo, newFakeMessageRepo())

	opened, err := service.Resolve(context.Background(), "user-1", "", "hello")
	require.NoError(t, err)

	_, err = service.Resolve(context.Background(), "user-2", opened.PublicID, "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound),
		"foreign conversations read as not found, not forbidden")

	require.NoError(t, service.Close(context.Background(), "user-1", opened.PublicID))
	_, err = service.Resolve(context.Background(), "user-1", opened.PublicID, "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound))
}

func TestService_ContextWindowCapped(t *testing.T) {
	convRepo := newFakeConversationRepo()
	msgRepo := newFakeMessageRepo()
	service := newTestService(convRepo, msgRepo)

	conv, err := service.Resolve(context.Background(), "user-1", "", "hello")
	require.NoError(t, err)

	for i := 0; i < 15; i++ {
		user := &conversation.Message{Role: conversation.RoleUser, Content: fmt.Sprintf("q%d", i)}
		assistant := &conversation.Message{Role: conversation.RoleAssistant, Content: fmt.Sprintf("a%d", i)}
		require.NoError(t, service.AppendTurn(context.Background(), conv, user, assistant))
	}

	window, err := service.ContextWindow(context.Background(), conv)
	require.NoError(t, err)

	require.Len(t, window, conversation.ContextWindowSize)
	assert.Equal(t, "q5", window[0].Content, "window keeps the newest messages, oldest first")
	assert.Equal(t, "a14", window[len(window)-1].Content)
}

func TestService_HistoryChecksOwnership(t *testing.T) {
	convRepo := newFakeConversationRepo()
	msgRepo := newFakeMessageRepo()
	service := newTestService(convRepo, msgRepo)

	conv, err := service.Resolve(context.Background(), "user-1", "", "hello")
	require.NoError(t, err)
	user := &conversation.Message{Role: conversation.RoleUser, Content: "q"}
	assistant := &conversation.Message{Role: conversation.RoleAssistant, Content: "a"}
	require.NoError(t, service.AppendTurn(context.Background(), conv, user, assistant))

	page, err := service.History(context.Background(), "user-1", conv.PublicID, 20, 0, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	_, err = service.History(context.Background(), "user-2", conv.PublicID, 20, 0, "")
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeNotFound))
}

func TestService_SetLanguage(t *testing.T) {
	convRepo := newFakeConversationRepo()
	service := newTestService(convRepo, newFakeMessageRepo())

	conv, err := service.Resolve(context.Background(), "user-1", "", "hello")
	require.NoError(t, err)

	require.NoError(t, service.SetLanguage(context.Background(), conv, conversation.LanguageUrdu))
	assert.Equal(t, conversation.LanguageUrdu, conv.Language)

	err = service.SetLanguage(context.Background(), conv, "fr")
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
}

func TestService_SweepIdle(t *testing.T) {
	convRepo := newFakeConversationRepo()
	service := newTestService(convRepo, newFakeMessageRepo())

	stale, err := service.Resolve(context.Background(), "user-1", "", "old one")
	require.NoError(t, err)
	convRepo.byPublicID[stale.PublicID].UpdatedAt = time.Now().Add(-time.Hour)

	fresh, err := service.Resolve(context.Background(), "user-1", "", "new one")
	require.NoError(t, err)

	count, err := service.SweepIdle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.False(t, convRepo.byPublicID[stale.PublicID].IsActive)
	assert.True(t, convRepo.byPublicID[fresh.PublicID].IsActive)
}
