// Package agent contains the specialized sub-agents the orchestrator
// dispatches classified turns to, and the registry that maps intents to
// them. Agents never free-generate financial figures: every number in a
// reply is read back out of a tool result produced in the same turn.
package agent

import (
	"context"
	"fmt"
	"sync"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/intent"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/language"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/tool"
)

// Type identifies a sub-agent.
type Type string

const (
	TypeBudget     Type = "budget"
	TypeSpending   Type = "spending"
	TypeInvestment Type = "investment"
	TypeLanguage   Type = "language"
	TypeVoice      Type = "voice"
)

// Request is one dispatched turn: the user message plus its classification.
// Each agent reaches financial data only through the scoped tool handle it
// was constructed with.
type Request struct {
	UserID         string
	ConversationID string
	Message        string
	Classification *intent.Classification
	Language       language.Tag
}

// Caller builds the tool caller identity for this request.
func (r *Request) Caller() tool.Caller {
	return tool.Caller{UserID: r.UserID, ConversationID: r.ConversationID}
}

// Entity returns a classified entity value, or "" when absent.
func (r *Request) Entity(key string) string {
	if r.Classification == nil {
		return ""
	}
	return r.Classification.Entities[key]
}

// Reply is an agent's response text plus the tool invocations that back it.
type Reply struct {
	Text      string
	ToolCalls []conversation.ToolCallRecord
}

func (r *Reply) recordCall(result *tool.Result, args []byte) {
	r.ToolCalls = append(r.ToolCalls, conversation.ToolCallRecord{
		Name:       result.ToolName,
		Arguments:  args,
		Result:     result.Data,
		Status:     result.Status,
		DurationMS: result.DurationMS,
	})
}

// Agent handles turns for one or more intents.
type Agent interface {
	Type() Type
	Respond(ctx context.Context, req *Request) (*Reply, error)
}

// Registry maps intents to agents. The agent set is small and fixed; adding
// one means adding a registry entry and a handler.
type Registry struct {
	mu     sync.RWMutex
	agents map[intent.Intent]Agent
}

func NewRegistry() *Registry {
	return &Registry{agents: make(map[intent.Intent]Agent)}
}

// Register binds an agent to the given intents.
func (r *Registry) Register(agent Agent, intents ...intent.Intent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, it := range intents {
		if existing, ok := r.agents[it]; ok {
			return fmt.Errorf("intent %s already bound to agent %s", it, existing.Type())
		}
		r.agents[it] = agent
	}
	return nil
}

// Resolve returns the agent bound to an intent.
func (r *Registry) Resolve(it intent.Intent) (Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, ok := r.agents[it]
	return agent, ok
}
