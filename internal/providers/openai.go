package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const defaultOllamaURL = "http://localhost:11434"

// OpenAI implements the Gateway interface for OpenAI-compatible chat
// completion endpoints: OpenAI itself, Ollama and LM Studio.
type OpenAI struct {
	name   string
	client openai.Client
}

// NewOpenAI creates a gateway for the OpenAI API. PRGATE_OPENAI_BASE_URL
// points it at a compatible server.
func NewOpenAI(opts ...option.RequestOption) (*OpenAI, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is not set")
	}
	base := []option.RequestOption{option.WithAPIKey(key), option.WithMaxRetries(0)}
	if u := os.Getenv("PRGATE_OPENAI_BASE_URL"); u != "" {
		base = append(base, option.WithBaseURL(u))
	}
	return newOpenAICompatible("openai", append(base, opts...)), nil
}

// NewOllama creates a gateway for a local Ollama or LM Studio server. No API
// key is required by default.
func NewOllama(opts ...option.RequestOption) (*OpenAI, error) {
	host := os.Getenv("OLLAMA_HOST")
	if host == "" {
		host = defaultOllamaURL
	}
	// Replaces any OPENAI_API_KEY the client would pick up from the
	// environment; local servers ignore it.
	key := os.Getenv("PRGATE_OLLAMA_API_KEY")
	if key == "" {
		key = "ollama"
	}
	base := []option.RequestOption{
		option.WithAPIKey(key),
		option.WithBaseURL(normalizeOllamaURL(host)),
		option.WithMaxRetries(0),
	}
	return newOpenAICompatible("ollama", append(base, opts...)), nil
}

func newOpenAICompatible(name string, opts []option.RequestOption) *OpenAI {
	return &OpenAI{name: name, client: openai.NewClient(opts...)}
}

// normalizeOllamaURL accepts a host with or without /v1 or the full
// completions path and returns the /v1/ API root.
func normalizeOllamaURL(baseURL string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1/chat/completions")
	baseURL = strings.TrimSuffix(baseURL, "/v1")
	return baseURL + "/v1/"
}

func (o *OpenAI) Name() string { return o.name }

func (o *OpenAI) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     req.Model,
		Messages:  messages,
		MaxTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return ChatResponse{}, statusError(o.name, apiErr.StatusCode, []byte(apiErr.RawJSON()))
		}
		return ChatResponse{}, &GatewayError{Provider: o.name, Message: "sending request", Cause: err}
	}

	if len(completion.Choices) == 0 {
		return ChatResponse{}, &GatewayError{Provider: o.name, Message: "no choices in response"}
	}
	content := completion.Choices[0].Message.Content
	if content == "" {
		return ChatResponse{}, &GatewayError{Provider: o.name, Message: "response contained no text content"}
	}

	return ChatResponse{
		Content:    content,
		TokensUsed: int(completion.Usage.TotalTokens),
	}, nil
}
