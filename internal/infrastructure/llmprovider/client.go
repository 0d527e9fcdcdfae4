package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/llm"
)

// ErrTimeout is returned when the completion provider does not answer within
// the configured deadline.
var ErrTimeout = errors.New("language model timed out")

// Client implements llm.Provider against an OpenAI-compatible HTTP endpoint.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed provider client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(timeout),
	}
}

// CreateChatCompletion calls /v1/chat/completions.
func (c *Client) CreateChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	var completion llm.ChatCompletionResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&completion).
		Post("/v1/chat/completions")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("chat completion request: %w", err)
	}

	if resp.StatusCode() == http.StatusRequestTimeout || resp.StatusCode() == http.StatusGatewayTimeout {
		return nil, ErrTimeout
	}
	if resp.IsError() {
		return nil, fmt.Errorf("llm api error: %s", resp.String())
	}
	if len(completion.Choices) == 0 {
		return nil, errors.New("llm returned no choices")
	}

	return &completion, nil
}

func isTimeout(err error) bool {
	type timeouter interface{ Timeout() bool }
	var t timeouter
	return errors.As(err, &t) && t.Timeout()
}

var _ llm.Provider = (*Client)(nil)
