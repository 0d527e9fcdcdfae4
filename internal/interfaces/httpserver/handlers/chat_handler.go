package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/chat"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/auth"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver/dto"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// ChatHandler exposes the conversational turn endpoint.
type ChatHandler struct {
	orchestrator *chat.Orchestrator
	log          zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(orchestrator *chat.Orchestrator, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		orchestrator: orchestrator,
		log:          log.With().Str("handler", "chat").Logger(),
	}
}

// Converse handles POST /v1/chat
// @Summary Send a chat message
// @Description Runs one conversational turn: classification, agent dispatch, tool execution and persistence.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat request"
// @Success 200 {object} chat.Response
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Router /v1/chat [post]
func (h *ChatHandler) Converse(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	resp, err := h.orchestrator.Converse(c.Request.Context(), &chat.Request{
		UserID:                  auth.UserID(c),
		ConversationID:          req.ConversationID,
		Message:                 req.Message,
		Language:                req.Language,
		InputMethod:             conversation.InputMethod(req.InputMethod),
		TranscriptionConfidence: req.TranscriptionConfidence,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, resp)
}
