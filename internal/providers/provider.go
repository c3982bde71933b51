package providers

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ChatRequest contains the data sent to the generative text service.
type ChatRequest struct {
	Model     string
	System    string
	Prompt    string
	MaxTokens int
	// Accept, when set, reports whether a reply is usable by the caller.
	// Gateways never call it; caching layers store only accepted replies.
	Accept func(content string) error
}

// ChatResponse contains the raw text returned by the service.
type ChatResponse struct {
	Content    string
	TokensUsed int
}

// Gateway is the provider abstraction: a prompt goes in, plain text comes
// out. Callers must treat the text as untrusted.
type Gateway interface {
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	Name() string
}

const defaultMaxTokens = 4096

// New creates a gateway by provider name.
func New(ctx context.Context, provider string) (Gateway, error) {
	switch provider {
	case "anthropic":
		return NewAnthropic()
	case "openai":
		return NewOpenAI()
	case "gemini", "google":
		return NewGemini(ctx)
	case "ollama", "lmstudio":
		return NewOllama()
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}

// Close releases g's connections when the gateway holds any.
func Close(g Gateway) error {
	if c, ok := g.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// WithTimeout bounds every Chat call on g by d. A zero or negative d leaves
// calls unbounded.
func WithTimeout(g Gateway, d time.Duration) Gateway {
	if d <= 0 {
		return g
	}
	return &timeoutGateway{next: g, timeout: d}
}

type timeoutGateway struct {
	next    Gateway
	timeout time.Duration
}

func (t *timeoutGateway) Name() string { return t.next.Name() }

func (t *timeoutGateway) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.next.Chat(ctx, req)
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return ChatResponse{}, &GatewayError{
			Provider: t.next.Name(),
			Message:  fmt.Sprintf("no response within %s", t.timeout),
			Cause:    err,
		}
	}
	return resp, err
}
