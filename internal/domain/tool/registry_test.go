package tool

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/utils/platformerrors"
)

type memoryAudit struct {
	mu   sync.Mutex
	rows []Invocation
}

func (m *memoryAudit) Record(ctx context.Context, inv *Invocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, *inv)
	return nil
}

func (m *memoryAudit) last(t *testing.T) Invocation {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.rows)
	return m.rows[len(m.rows)-1]
}

type echoArgs struct {
	Text string `json:"text" validate:"required"`
}

type echoResult struct {
	Echo string `json:"echo" validate:"required"`
}

func newTestRegistry(t *testing.T) (*Registry, *memoryAudit) {
	t.Helper()
	audit := &memoryAudit{}
	return NewRegistry(audit, time.Second, zerolog.Nop()), audit
}

func caller() Caller {
	return Caller{UserID: "user-1", ConversationID: "conv_abc"}
}

func TestRegistry_InvokeHappyPath(t *testing.T) {
	registry, audit := newTestRegistry(t)
	require.NoError(t, registry.Register(NewDefinition("echo", "echoes", KindRead,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			return echoResult{Echo: args.Text}, nil
		})))

	result, err := registry.Invoke(context.Background(), "echo", json.RawMessage(`{"text":"hi"}`), caller())
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)

	var out echoResult
	require.NoError(t, json.Unmarshal(result.Data, &out))
	assert.Equal(t, "hi", out.Echo)

	row := audit.last(t)
	assert.Equal(t, "echo", row.ToolName)
	assert.Equal(t, "completed", row.Status)
	assert.Equal(t, "user-1", row.UserID)
}

func TestRegistry_RejectsUnknownFields(t *testing.T) {
	registry, audit := newTestRegistry(t)
	require.NoError(t, registry.Register(NewDefinition("echo", "echoes", KindRead,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			return echoResult{Echo: args.Text}, nil
		})))

	_, err := registry.Invoke(context.Background(), "echo", json.RawMessage(`{"text":"hi","extra":1}`), caller())
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
	assert.Equal(t, "rejected", audit.last(t).Status)
}

func TestRegistry_RejectsInvalidArgs(t *testing.T) {
	registry, _ := newTestRegistry(t)
	invoked := false
	require.NoError(t, registry.Register(NewDefinition("echo", "echoes", KindRead,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			invoked = true
			return echoResult{Echo: args.Text}, nil
		})))

	_, err := registry.Invoke(context.Background(), "echo", json.RawMessage(`{}`), caller())
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
	assert.False(t, invoked, "handler must not run on schema-invalid args")
}

func TestRegistry_UnknownTool(t *testing.T) {
	registry, _ := newTestRegistry(t)
	_, err := registry.Invoke(context.Background(), "nope", json.RawMessage(`{}`), caller())
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeValidation))
}

func TestRegistry_ReadToolRetriedOnce(t *testing.T) {
	registry, _ := newTestRegistry(t)
	calls := 0
	require.NoError(t, registry.Register(NewDefinition("flaky", "fails once", KindRead,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			calls++
			if calls == 1 {
				return echoResult{}, errors.New("transient")
			}
			return echoResult{Echo: args.Text}, nil
		})))

	result, err := registry.Invoke(context.Background(), "flaky", json.RawMessage(`{"text":"x"}`), caller())
	require.NoError(t, err)
	assert.Equal(t, "completed", result.Status)
	assert.Equal(t, 2, calls)
}

func TestRegistry_WriteToolNeverRetried(t *testing.T) {
	registry, audit := newTestRegistry(t)
	calls := 0
	require.NoError(t, registry.Register(NewDefinition("write", "always fails", KindWrite,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			calls++
			return echoResult{}, errors.New("backend down")
		})))

	_, err := registry.Invoke(context.Background(), "write", json.RawMessage(`{"text":"x"}`), caller())
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeExternal))
	assert.Equal(t, 1, calls, "write tools must not be retried")
	assert.Equal(t, "failed", audit.last(t).Status)
}

func TestRegistry_RejectsSchemaInvalidOutput(t *testing.T) {
	registry, audit := newTestRegistry(t)
	require.NoError(t, registry.Register(NewDefinition("bad", "empty result", KindWrite,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			return echoResult{}, nil
		})))

	_, err := registry.Invoke(context.Background(), "bad", json.RawMessage(`{"text":"x"}`), caller())
	require.Error(t, err)
	assert.Equal(t, "invalid_output", audit.last(t).Status)
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	registry, _ := newTestRegistry(t)
	def := NewDefinition("echo", "echoes", KindRead,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			return echoResult{Echo: args.Text}, nil
		})
	require.NoError(t, registry.Register(def))
	require.Error(t, registry.Register(def))
}

func TestScoped_FailsClosed(t *testing.T) {
	registry, _ := newTestRegistry(t)
	require.NoError(t, registry.Register(NewDefinition("allowed", "ok", KindRead,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			return echoResult{Echo: args.Text}, nil
		})))
	require.NoError(t, registry.Register(NewDefinition("forbidden", "no", KindRead,
		func(ctx context.Context, c Caller, args echoArgs) (echoResult, error) {
			return echoResult{Echo: args.Text}, nil
		})))

	scoped := registry.Scoped("allowed")

	_, err := scoped.Invoke(context.Background(), "allowed", json.RawMessage(`{"text":"x"}`), caller())
	require.NoError(t, err)

	_, err = scoped.Invoke(context.Background(), "forbidden", json.RawMessage(`{"text":"x"}`), caller())
	require.Error(t, err)
	assert.True(t, platformerrors.IsType(err, platformerrors.ErrorTypeForbidden))

	names := scoped.Names()
	require.Len(t, names, 1)
	assert.Equal(t, "allowed", names[0])
}
