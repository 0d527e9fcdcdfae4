// Package tool implements the schema-validated registry every agent goes
// through to reach financial data. The registry adds validation, auditing,
// and timeouts around backend calls, and nothing else.
package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/metrics"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

// Kind separates read tools (retryable once) from write tools (never
// auto-retried).
type Kind string

const (
	KindRead  Kind = "read"
	KindWrite Kind = "write"
)

// Caller identifies who is invoking a tool and within which turn.
type Caller struct {
	UserID         string
	ConversationID string
}

// Result is a completed invocation: the validated output plus audit fields.
type Result struct {
	ToolName   string
	Data       json.RawMessage
	Status     string
	DurationMS int64
}

// Invocation is the audit record persisted for every call, success or not.
// This log is the evidence trail behind the no-fabricated-data guarantee.
type Invocation struct {
	ID             uint
	UserID         string
	ConversationID string
	ToolName       string
	Arguments      json.RawMessage
	Result         json.RawMessage
	Status         string
	ErrorMessage   string
	DurationMS     int64
	CreatedAt      time.Time
}

// AuditRepository persists invocation records.
type AuditRepository interface {
	Record(ctx context.Context, inv *Invocation) error
}

// Definition describes one registered tool.
type Definition struct {
	Name        string
	Description string
	Kind        Kind

	inputSchema  map[string]any
	outputSchema map[string]any
	newArgs      func() any
	invoke       func(ctx context.Context, caller Caller, args any) (any, error)
}

// NewDefinition builds a Definition from a typed handler, reflecting input
// and output schemas from the argument and result types.
func NewDefinition[A any, R any](name, description string, kind Kind, handler func(ctx context.Context, caller Caller, args A) (R, error)) Definition {
	return Definition{
		Name:         name,
		Description:  description,
		Kind:         kind,
		inputSchema:  reflectSchema(new(A)),
		outputSchema: reflectSchema(new(R)),
		newArgs:      func() any { return new(A) },
		invoke: func(ctx context.Context, caller Caller, args any) (any, error) {
			return handler(ctx, caller, *args.(*A))
		},
	}
}

func reflectSchema(v any) map[string]any {
	reflector := jsonschema.Reflector{
		DoNotReference:            true,
		AllowAdditionalProperties: false,
	}
	schema := reflector.Reflect(v)

	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("reflect tool schema: %v", err))
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("decode tool schema: %v", err))
	}
	return out
}

// Registry holds the fixed tool set and runs validated invocations.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Definition
	audit    AuditRepository
	validate *validator.Validate
	timeout  time.Duration
	log      zerolog.Logger
}

// NewRegistry constructs an empty registry.
func NewRegistry(audit AuditRepository, timeout time.Duration, log zerolog.Logger) *Registry {
	return &Registry{
		tools:    make(map[string]Definition),
		audit:    audit,
		validate: validator.New(),
		timeout:  timeout,
		log:      log.With().Str("component", "tool-registry").Logger(),
	}
}

// Register adds a tool. Registering the same name twice is a wiring bug.
func (r *Registry) Register(def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool already registered: %s", def.Name)
	}
	r.tools[def.Name] = def
	return nil
}

// Names returns the registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke validates arguments against the tool's schema, runs the handler
// under the registry timeout, validates the output, and records the audit
// row. Read tools get a single retry on failure; write tools never do.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage, caller Caller) (*Result, error) {
	r.mu.RLock()
	def, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "unknown tool: "+name, nil)
	}

	parsed, err := r.decodeArgs(ctx, def, args)
	if err != nil {
		r.record(ctx, caller, def.Name, args, nil, "rejected", err.Error(), 0)
		return nil, err
	}

	started := time.Now()
	output, invokeErr := r.run(ctx, def, caller, parsed)
	if invokeErr != nil && def.Kind == KindRead && ctx.Err() == nil {
		r.log.Warn().Err(invokeErr).Str("tool", def.Name).Msg("read tool failed, retrying once")
		output, invokeErr = r.run(ctx, def, caller, parsed)
	}
	duration := time.Since(started).Milliseconds()

	if invokeErr != nil {
		r.record(ctx, caller, def.Name, args, nil, "failed", invokeErr.Error(), duration)
		metrics.ToolCallsTotal.WithLabelValues(def.Name, "failed").Inc()
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, "tool execution failed: "+def.Name, invokeErr,
			map[string]any{"tool": def.Name, "conversation_id": caller.ConversationID})
	}

	if err := r.validate.Struct(output); err != nil {
		r.record(ctx, caller, def.Name, args, nil, "invalid_output", err.Error(), duration)
		metrics.ToolCallsTotal.WithLabelValues(def.Name, "invalid_output").Inc()
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, "tool produced schema-invalid output: "+def.Name, err)
	}

	data, err := json.Marshal(output)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "marshal tool output: "+def.Name, err)
	}

	r.record(ctx, caller, def.Name, args, data, "completed", "", duration)
	metrics.ToolCallsTotal.WithLabelValues(def.Name, "completed").Inc()
	metrics.ToolDuration.WithLabelValues(def.Name).Observe(float64(duration) / 1000)

	return &Result{
		ToolName:   def.Name,
		Data:       data,
		Status:     "completed",
		DurationMS: duration,
	}, nil
}

func (r *Registry) run(ctx context.Context, def Definition, caller Caller, args any) (any, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return def.invoke(ctx, caller, args)
}

// decodeArgs performs the strict schema gate: unknown fields, malformed JSON,
// and struct-tag violations are rejected, never silently coerced.
func (r *Registry) decodeArgs(ctx context.Context, def Definition, args json.RawMessage) (any, error) {
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage("{}")
	}

	parsed := def.newArgs()
	decoder := json.NewDecoder(bytes.NewReader(args))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(parsed); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, fmt.Sprintf("invalid arguments for %s", def.Name), err)
	}
	if err := r.validate.Struct(parsed); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, fmt.Sprintf("arguments for %s failed validation", def.Name), err)
	}
	return parsed, nil
}

func (r *Registry) record(ctx context.Context, caller Caller, name string, args, result json.RawMessage, status, errMsg string, durationMS int64) {
	inv := &Invocation{
		UserID:         caller.UserID,
		ConversationID: caller.ConversationID,
		ToolName:       name,
		Arguments:      args,
		Result:         result,
		Status:         status,
		ErrorMessage:   errMsg,
		DurationMS:     durationMS,
		CreatedAt:      time.Now(),
	}

	r.log.Info().
		Str("tool", name).
		Str("user_id", caller.UserID).
		Str("conversation_id", caller.ConversationID).
		Str("status", status).
		Int64("duration_ms", durationMS).
		Msg("tool invoked")

	if err := r.audit.Record(ctx, inv); err != nil {
		r.log.Error().Err(err).Str("tool", name).Msg("audit record failed")
	}
}

// Scoped returns a capability-restricted handle over the registry. Agents
// only ever receive scoped handles.
func (r *Registry) Scoped(names ...string) *Scoped {
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[name] = struct{}{}
	}
	return &Scoped{registry: r, allowed: allowed}
}

// Scoped is a registry view limited to an agent's permitted tools.
type Scoped struct {
	registry *Registry
	allowed  map[string]struct{}
}

// Invoke runs a permitted tool; anything outside the scope fails closed.
func (s *Scoped) Invoke(ctx context.Context, name string, args json.RawMessage, caller Caller) (*Result, error) {
	if _, ok := s.allowed[name]; !ok {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "tool not permitted for this agent: "+name, nil)
	}
	return s.registry.Invoke(ctx, name, args, caller)
}

// Names returns the scope's permitted tool names, sorted.
func (s *Scoped) Names() []string {
	s.registry.mu.RLock()
	defer s.registry.mu.RUnlock()

	names := make([]string, 0, len(s.allowed))
	for name := range s.allowed {
		if _, ok := s.registry.tools[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
