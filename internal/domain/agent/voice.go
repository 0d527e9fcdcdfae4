package agent

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// TranscriptionConfidenceFloor is the minimum transcription confidence at
// which a voice turn is acted upon. Below it the user is asked to confirm
// or re-record instead.
const TranscriptionConfidenceFloor = 0.6

// VoiceAgent gates voice-transcribed turns on transcription confidence. It
// never dispatches anything itself; the orchestrator consults it before
// classification.
type VoiceAgent struct {
	log zerolog.Logger
}

func NewVoiceAgent(log zerolog.Logger) *VoiceAgent {
	return &VoiceAgent{log: log.With().Str("agent", string(TypeVoice)).Logger()}
}

func (a *VoiceAgent) Type() Type { return TypeVoice }

func (a *VoiceAgent) Respond(ctx context.Context, req *Request) (*Reply, error) {
	return &Reply{Text: ConfirmTranscriptPrompt(req.Message)}, nil
}

// Acceptable reports whether a transcript is confident enough to act on.
func (a *VoiceAgent) Acceptable(confidence float64) bool {
	return confidence >= TranscriptionConfidenceFloor
}

// ConfirmTranscriptPrompt builds the confirm-or-re-record response for a
// low-confidence transcript.
func ConfirmTranscriptPrompt(transcript string) string {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "I could not make out that recording. Could you try again?"
	}
	return "I heard: \"" + transcript + "\". Did I get that right? Reply yes to continue, or record your message again."
}
