package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Anthropic implements the Gateway interface over the Messages API.
type Anthropic struct {
	client anthropic.Client
}

// NewAnthropic creates a new Anthropic gateway. Extra options are applied
// after the key and are used to point the client elsewhere.
func NewAnthropic(opts ...option.RequestOption) (*Anthropic, error) {
	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
	}
	base := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithMaxRetries(0),
	}
	return &Anthropic{client: anthropic.NewClient(append(base, opts...)...)}, nil
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return ChatResponse{}, statusError(a.Name(), apiErr.StatusCode, []byte(apiErr.RawJSON()))
		}
		return ChatResponse{}, &GatewayError{Provider: a.Name(), Message: "sending request", Cause: err}
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return ChatResponse{}, &GatewayError{Provider: a.Name(), Message: "response contained no text content"}
	}

	return ChatResponse{
		Content:    sb.String(),
		TokensUsed: int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
	}, nil
}
