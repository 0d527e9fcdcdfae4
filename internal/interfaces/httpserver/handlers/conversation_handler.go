package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/auth"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver/dto"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// ConversationHandler exposes conversation listing, history and closing.
type ConversationHandler struct {
	service *conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service *conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /v1/conversations
// @Summary List conversations
// @Tags Conversations
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ConversationListResponse
// @Router /v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	conversations, total, err := h.service.List(c.Request.Context(), auth.UserID(c), limit, offset)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, dto.ConversationListResponse{
		Conversations: conversations,
		Total:         total,
		Limit:         limit,
		Offset:        offset,
	})
}

// Messages handles GET /v1/conversations/:conversation_id/messages
// @Summary Get conversation history
// @Tags Conversations
// @Produce json
// @Param conversation_id path string true "Conversation public ID"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Param before query string false "Message public ID cursor"
// @Success 200 {object} dto.MessagePageResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /v1/conversations/{conversation_id}/messages [get]
func (h *ConversationHandler) Messages(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	limit, offset := pagination(c)
	before := c.Query("before")

	page, err := h.service.History(c.Request.Context(), auth.UserID(c), conversationID, limit, offset, before)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, dto.MessagePageResponse{
		ConversationID: conversationID,
		Messages:       page.Messages,
		Total:          page.Total,
		Limit:          limit,
		Offset:         offset,
	})
}

// Close handles DELETE /v1/conversations/:conversation_id
// @Summary Close a conversation
// @Description Deactivates the conversation. History is retained; nothing is deleted.
// @Tags Conversations
// @Produce json
// @Param conversation_id path string true "Conversation public ID"
// @Success 204
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /v1/conversations/{conversation_id} [delete]
func (h *ConversationHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), auth.UserID(c), c.Param("conversation_id")); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.Status(http.StatusNoContent)
}

func pagination(c *gin.Context) (int, int) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
