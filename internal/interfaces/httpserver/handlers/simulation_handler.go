package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/simulation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/auth"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver/dto"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// SimulationHandler exposes investment simulation endpoints.
type SimulationHandler struct {
	service *simulation.Service
	log     zerolog.Logger
}

// NewSimulationHandler constructs the handler.
func NewSimulationHandler(service *simulation.Service, log zerolog.Logger) *SimulationHandler {
	return &SimulationHandler{
		service: service,
		log:     log.With().Str("handler", "simulation").Logger(),
	}
}

// Create handles POST /v1/investment-simulations
// @Summary Run an investment simulation
// @Description Projects an amount over a horizon under three rate scenarios and persists the result.
// @Tags Simulations
// @Accept json
// @Produce json
// @Param request body dto.SimulationRequest true "Simulation request"
// @Success 200 {object} dto.SimulationResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Router /v1/investment-simulations [post]
func (h *SimulationHandler) Create(c *gin.Context) {
	var req dto.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	var conversationID *string
	if req.ConversationID != "" {
		conversationID = &req.ConversationID
	}

	sim, err := h.service.Simulate(c.Request.Context(), auth.UserID(c), conversationID,
		req.Amount, req.HorizonMonths, req.Currency)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, dto.SimulationResponse{Simulation: sim})
}

// List handles GET /v1/investment-simulations
// @Summary List past investment simulations
// @Tags Simulations
// @Produce json
// @Param limit query int false "Page size (default 10, max 50)"
// @Success 200 {object} dto.SimulationListResponse
// @Router /v1/investment-simulations [get]
func (h *SimulationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	simulations, err := h.service.List(c.Request.Context(), auth.UserID(c), limit)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, dto.SimulationListResponse{Simulations: simulations})
}
