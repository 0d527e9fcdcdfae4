package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/healthscore"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/auth"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver/dto"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// HealthScoreHandler exposes the financial health score endpoint.
type HealthScoreHandler struct {
	service *healthscore.Service
	log     zerolog.Logger
}

// NewHealthScoreHandler constructs the handler.
func NewHealthScoreHandler(service *healthscore.Service, log zerolog.Logger) *HealthScoreHandler {
	return &HealthScoreHandler{
		service: service,
		log:     log.With().Str("handler", "healthscore").Logger(),
	}
}

// Get handles GET /v1/health-score
// @Summary Compute the financial health score
// @Description Recomputes and stores the score for the requested period. Defaults to the current month.
// @Tags HealthScore
// @Produce json
// @Param month query int false "Month 1-12"
// @Param year query int false "Four digit year"
// @Success 200 {object} dto.HealthScoreResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Router /v1/health-score [get]
func (h *HealthScoreHandler) Get(c *gin.Context) {
	now := time.Now()
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		platformerrors.WriteValidationError(c, "month must be an integer")
		return
	}
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		platformerrors.WriteValidationError(c, "year must be an integer")
		return
	}

	report, err := h.service.Compute(c.Request.Context(), auth.UserID(c), month, year)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, dto.HealthScoreResponse{
		Score:           report.Score,
		Grade:           report.Grade,
		Trend:           report.Trend,
		PreviousOverall: report.PreviousOverall,
	})
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
