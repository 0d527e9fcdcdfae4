package dto

// ChatRequest is the POST /v1/chat payload.
type ChatRequest struct {
	ConversationID          string   `json:"conversation_id,omitempty"`
	Message                 string   `json:"message" binding:"required"`
	Language                string   `json:"language,omitempty" binding:"omitempty,oneof=en ur"`
	InputMethod             string   `json:"input_method,omitempty" binding:"omitempty,oneof=text voice"`
	TranscriptionConfidence *float64 `json:"transcription_confidence,omitempty" binding:"omitempty,min=0,max=1"`
}

// SimulationRequest is the POST /v1/investment-simulations payload.
type SimulationRequest struct {
	ConversationID string  `json:"conversation_id,omitempty"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	HorizonMonths  int     `json:"horizon_months" binding:"required,min=1,max=600"`
	Currency       string  `json:"currency,omitempty" binding:"omitempty,len=3"`
}

// LanguageRequest is the PUT /v1/language payload.
type LanguageRequest struct {
	Language string `json:"language" binding:"required,oneof=en ur"`
}
