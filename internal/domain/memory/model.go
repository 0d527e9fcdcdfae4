// Package memory holds session-scoped agent memory: keyed, TTL-bearing
// records persisted outside the process so restarts lose nothing and multiple
// instances can share state.
package memory

import (
	"context"
	"time"
)

// AgentType tags which sub-agent owns an entry.
type AgentType string

const (
	AgentBudget     AgentType = "budget"
	AgentSpending   AgentType = "spending"
	AgentInvestment AgentType = "investment"
	AgentLanguage   AgentType = "language"
	AgentVoice      AgentType = "voice"
)

// Entry is one memory record, unique per (user, agent type, key).
type Entry struct {
	ID             uint       `json:"-"`
	UserID         string     `json:"user_id"`
	AgentType      AgentType  `json:"agent_type"`
	MemoryType     string     `json:"memory_type"`
	Key            string     `json:"key"`
	Content        string     `json:"content"`
	Importance     float64    `json:"importance"`
	AccessCount    int        `json:"access_count"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Expired reports whether the entry is past its TTL at the given instant.
// Expired entries are inert immediately, independent of sweep timing.
func (e *Entry) Expired(now time.Time) bool {
	return e.ExpiresAt != nil && !e.ExpiresAt.After(now)
}

// Repository persists agent memory entries.
type Repository interface {
	Upsert(ctx context.Context, entry *Entry) error
	// FindActive returns non-expired entries for the user and agent type,
	// most important first. The expiry predicate lives in the query so stale
	// rows never reach context assembly.
	FindActive(ctx context.Context, userID string, agentType AgentType, now time.Time) ([]Entry, error)
	Get(ctx context.Context, userID string, agentType AgentType, key string) (*Entry, error)
	Touch(ctx context.Context, id uint, accessedAt time.Time) error
	// DeleteExpired purges rows past expiry and returns how many went.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
