package intent

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	maxEntityFields = 20
	maxEntityLength = 500
)

// classifierPayload is the strict JSON shape the classification prompt
// instructs the model to produce.
type classifierPayload struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities"`
	Language   string            `json:"language"`
}

// ParseClassification validates the raw model output into a Classification.
// Anything outside the closed intent set or structurally broken is rejected;
// the caller degrades to a clarification turn rather than guessing.
func ParseClassification(raw string) (*Classification, error) {
	raw = stripCodeFence(strings.TrimSpace(raw))
	if raw == "" {
		return nil, fmt.Errorf("empty classifier output")
	}
	if !utf8.ValidString(raw) {
		return nil, fmt.Errorf("classifier output is not valid UTF-8")
	}

	var payload classifierPayload
	decoder := json.NewDecoder(strings.NewReader(raw))
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode classifier output: %w", err)
	}

	parsed := Intent(strings.ToLower(strings.TrimSpace(payload.Intent)))
	if !parsed.Valid() {
		return nil, fmt.Errorf("unknown intent %q", payload.Intent)
	}

	if len(payload.Entities) > maxEntityFields {
		return nil, fmt.Errorf("too many entities: %d", len(payload.Entities))
	}
	entities := make(map[string]string, len(payload.Entities))
	for key, value := range payload.Entities {
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if len(value) > maxEntityLength {
			value = value[:maxEntityLength]
		}
		entities[key] = value
	}

	return &Classification{
		Intent:     parsed,
		Confidence: clamp01(payload.Confidence),
		Entities:   entities,
		Language:   normalizeLanguage(payload.Language),
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeLanguage(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "ur", "urdu":
		return "ur"
	case "ur-latn", "roman urdu", "roman-urdu":
		return "ur-Latn"
	default:
		return "en"
	}
}

// stripCodeFence removes a markdown fence some models wrap JSON in.
func stripCodeFence(raw string) string {
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
