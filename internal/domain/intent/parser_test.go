package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClassification(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Intent
		wantErr bool
	}{
		{
			name: "plain json",
			raw:  `{"intent":"create","confidence":0.92,"entities":{"category":"Food","amount":"15000"},"language":"en"}`,
			want: IntentCreate,
		},
		{
			name: "fenced json",
			raw:  "```json\n{\"intent\":\"query\",\"confidence\":0.8,\"entities\":{},\"language\":\"en\"}\n```",
			want: IntentQuery,
		},
		{
			name: "uppercase intent is normalized",
			raw:  `{"intent":"PREDICT","confidence":0.75,"entities":{},"language":"en"}`,
			want: IntentPredict,
		},
		{
			name:    "unknown intent rejected",
			raw:     `{"intent":"transfer_funds","confidence":0.9,"entities":{},"language":"en"}`,
			wantErr: true,
		},
		{
			name:    "empty output rejected",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "prose instead of json rejected",
			raw:     "The user wants to create a budget.",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClassification(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

func TestParseClassification_ConfidenceClamped(t *testing.T) {
	got, err := ParseClassification(`{"intent":"query","confidence":1.7,"entities":{},"language":"en"}`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Confidence)

	got, err = ParseClassification(`{"intent":"query","confidence":-0.2,"entities":{},"language":"en"}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestParseClassification_EntityLimits(t *testing.T) {
	long := strings.Repeat("x", 600)
	got, err := ParseClassification(`{"intent":"create","confidence":0.9,"entities":{"note":"` + long + `","empty":""},"language":"en"}`)
	require.NoError(t, err)
	assert.Len(t, got.Entities["note"], 500)
	assert.NotContains(t, got.Entities, "empty")
}

func TestParseClassification_LanguageNormalization(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"en", "en"},
		{"Urdu", "ur"},
		{"ur", "ur"},
		{"roman urdu", "ur-Latn"},
		{"fr", "en"},
	}

	for _, tt := range tests {
		got, err := ParseClassification(`{"intent":"query","confidence":0.9,"entities":{},"language":"` + tt.raw + `"}`)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Language, "language %q", tt.raw)
	}
}

func TestNeedsClarification(t *testing.T) {
	assert.True(t, (&Classification{Confidence: 0.69}).NeedsClarification())
	assert.False(t, (&Classification{Confidence: 0.7}).NeedsClarification())
	assert.False(t, (&Classification{Confidence: 0.95}).NeedsClarification())
}

func TestIntentActionable(t *testing.T) {
	assert.True(t, IntentCreate.Actionable())
	assert.True(t, IntentPredict.Actionable())
	assert.False(t, IntentSmalltalk.Actionable())
	assert.False(t, IntentOutOfScope.Actionable())
}
