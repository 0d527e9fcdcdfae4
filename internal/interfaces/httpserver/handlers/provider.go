package handlers

import (
	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/agent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/chat"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/healthscore"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/simulation"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat         *ChatHandler
	Conversation *ConversationHandler
	HealthScore  *HealthScoreHandler
	Simulation   *SimulationHandler
	Language     *LanguageHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	orchestrator *chat.Orchestrator,
	conversations *conversation.Service,
	healthScores *healthscore.Service,
	simulations *simulation.Service,
	languageAgent *agent.LanguageAgent,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:         NewChatHandler(orchestrator, log),
		Conversation: NewConversationHandler(conversations, log),
		HealthScore:  NewHealthScoreHandler(healthScores, log),
		Simulation:   NewSimulationHandler(simulations, log),
		Language:     NewLanguageHandler(languageAgent, log),
	}
}
