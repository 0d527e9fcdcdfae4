package dto

import (
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/healthscore"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/simulation"
)

// ConversationListResponse is one page of the caller's conversations.
type ConversationListResponse struct {
	Conversations []conversation.Conversation `json:"conversations"`
	Total         int64                       `json:"total"`
	Limit         int                         `json:"limit"`
	Offset        int                         `json:"offset"`
}

// MessagePageResponse is one page of a conversation's history.
type MessagePageResponse struct {
	ConversationID string                 `json:"conversation_id"`
	Messages       []conversation.Message `json:"messages"`
	Total          int64                  `json:"total"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
}

// HealthScoreResponse mirrors the domain report.
type HealthScoreResponse struct {
	Score           *healthscore.Score `json:"score"`
	Grade           string             `json:"grade"`
	Trend           string             `json:"trend"`
	PreviousOverall *int               `json:"previous_overall,omitempty"`
}

// SimulationResponse wraps a stored simulation.
type SimulationResponse struct {
	Simulation *simulation.Simulation `json:"simulation"`
}

// SimulationListResponse is the caller's recent simulations, newest first.
type SimulationListResponse struct {
	Simulations []simulation.Simulation `json:"simulations"`
}

// LanguageResponse confirms a preference update.
type LanguageResponse struct {
	Language string `json:"language"`
	Message  string `json:"message"`
}
