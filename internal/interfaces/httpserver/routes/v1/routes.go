package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver/handlers"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/interfaces/httpserver/middlewares"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers          *handlers.Provider
	chatRatePerMinute float64
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider, chatRatePerMinute float64) *Routes {
	return &Routes{
		handlers:          handlerProvider,
		chatRatePerMinute: chatRatePerMinute,
	}
}

// Register attaches all v1 routes under the /v1 prefix.
func (r *Routes) Register(engine *gin.Engine) {
	group := engine.Group("/v1")

	group.POST("/chat", middlewares.RateLimitMiddleware(r.chatRatePerMinute), r.handlers.Chat.Converse)

	group.GET("/conversations", r.handlers.Conversation.List)
	group.GET("/conversations/:conversation_id/messages", r.handlers.Conversation.Messages)
	group.DELETE("/conversations/:conversation_id", r.handlers.Conversation.Close)

	group.GET("/health-score", r.handlers.HealthScore.Get)
	group.POST("/investment-simulations", r.handlers.Simulation.Create)
	group.GET("/investment-simulations", r.handlers.Simulation.List)
	group.PUT("/language", r.handlers.Language.Update)
}
