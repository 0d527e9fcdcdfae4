package memory

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// DefaultTTL bounds how long session memory lives without renewal.
const DefaultTTL = 24 * time.Hour

// Service mediates agent access to persisted memory.
type Service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService wires the memory manager.
func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "memory-service").Logger(),
	}
}

// Remember upserts an entry under (user, agent type, key). A zero TTL uses
// the default; a negative TTL stores a durable entry with no expiry.
func (s *Service) Remember(ctx context.Context, userID string, agentType AgentType, key, content string, importance float64, ttl time.Duration) error {
	key = strings.TrimSpace(key)
	if key == "" || strings.TrimSpace(content) == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "memory key and content are required", nil)
	}
	if importance < 0 {
		importance = 0
	}
	if importance > 1 {
		importance = 1
	}

	entry := &Entry{
		UserID:     userID,
		AgentType:  agentType,
		MemoryType: "session",
		Key:        key,
		Content:    content,
		Importance: importance,
	}
	switch {
	case ttl == 0:
		expires := time.Now().Add(DefaultTTL)
		entry.ExpiresAt = &expires
	case ttl > 0:
		expires := time.Now().Add(ttl)
		entry.ExpiresAt = &expires
	}

	return s.repo.Upsert(ctx, entry)
}

// Recall returns the agent's live entries for the user and bumps their access
// accounting. Entries past expiry never appear, purged or not.
func (s *Service) Recall(ctx context.Context, userID string, agentType AgentType) ([]Entry, error) {
	now := time.Now()
	entries, err := s.repo.FindActive(ctx, userID, agentType, now)
	if err != nil {
		return nil, err
	}

	for i := range entries {
		if err := s.repo.Touch(ctx, entries[i].ID, now); err != nil {
			s.log.Warn().Err(err).Str("key", entries[i].Key).Msg("memory access bump failed")
		}
	}
	return entries, nil
}

// Lookup fetches one entry by key, treating expired entries as absent.
func (s *Service) Lookup(ctx context.Context, userID string, agentType AgentType, key string) (*Entry, error) {
	entry, err := s.repo.Get(ctx, userID, agentType, key)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Expired(time.Now()) {
		return nil, nil
	}
	return entry, nil
}

// SweepExpired physically purges expired entries. Runs off the request path.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.log.Info().Int64("count", count).Msg("expired memory entries purged")
	}
	return count, nil
}
