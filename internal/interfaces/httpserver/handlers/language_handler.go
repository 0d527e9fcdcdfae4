package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/agent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/language"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/auth"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver/dto"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// LanguageHandler exposes the response-language preference endpoint.
type LanguageHandler struct {
	languageAgent *agent.LanguageAgent
	log           zerolog.Logger
}

// NewLanguageHandler constructs the handler.
func NewLanguageHandler(languageAgent *agent.LanguageAgent, log zerolog.Logger) *LanguageHandler {
	return &LanguageHandler{
		languageAgent: languageAgent,
		log:           log.With().Str("handler", "language").Logger(),
	}
}

// Update handles PUT /v1/language
// @Summary Set the preferred response language
// @Description Stores a durable en/ur preference that overrides detection on future turns.
// @Tags Language
// @Accept json
// @Produce json
// @Param request body dto.LanguageRequest true "Language preference"
// @Success 200 {object} dto.LanguageResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Router /v1/language [put]
func (h *LanguageHandler) Update(c *gin.Context) {
	var req dto.LanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	if err := h.languageAgent.SetPreference(c.Request.Context(), auth.UserID(c), language.Tag(req.Language)); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	confirmation := "Language preference updated. I will reply in English."
	if language.Tag(req.Language) == language.Urdu {
		confirmation = "زبان کی ترجیح محفوظ ہو گئی۔ اب میں اردو میں جواب دوں گی۔"
	}
	c.JSON(http.StatusOK, dto.LanguageResponse{Language: req.Language, Message: confirmation})
}
