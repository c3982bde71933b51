package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
)

type blockingGateway struct{}

func (blockingGateway) Name() string { return "blocking" }

func (blockingGateway) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	<-ctx.Done()
	return ChatResponse{}, ctx.Err()
}

type echoGateway struct{}

func (echoGateway) Name() string { return "echo" }

func (echoGateway) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	if _, ok := ctx.Deadline(); !ok {
		return ChatResponse{}, errors.New("expected a deadline")
	}
	return ChatResponse{Content: req.Prompt}, nil
}

type closingGateway struct {
	echoGateway
	closed int
	err    error
}

func (c *closingGateway) Close() error {
	c.closed++
	return c.err
}

var _ io.Closer = (*Gemini)(nil)

func TestClose(t *testing.T) {
	gw := &closingGateway{}
	if err := Close(gw); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if gw.closed != 1 {
		t.Errorf("closed %d times, want 1", gw.closed)
	}

	failing := &closingGateway{err: errors.New("conn reset")}
	if err := Close(failing); err == nil {
		t.Error("Expected Close to return the closer's error")
	}

	if err := Close(echoGateway{}); err != nil {
		t.Errorf("Close on a gateway without connections: %v", err)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	if _, err := New(context.Background(), "watson"); err == nil {
		t.Fatal("Expected error for unknown provider")
	}
}

func TestNew_MissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := New(context.Background(), "anthropic"); err == nil {
		t.Fatal("Expected error when ANTHROPIC_API_KEY is unset")
	}
}

func TestWithTimeout_Expires(t *testing.T) {
	g := WithTimeout(blockingGateway{}, 10*time.Millisecond)
	_, err := g.Chat(context.Background(), ChatRequest{Prompt: "x"})

	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("Expected *GatewayError, got %T: %v", err, err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected wrapped DeadlineExceeded, got %v", err)
	}
	if gwErr.Provider != "blocking" {
		t.Errorf("Provider = %q", gwErr.Provider)
	}
}

func TestWithTimeout_PassesThrough(t *testing.T) {
	g := WithTimeout(echoGateway{}, time.Minute)
	resp, err := g.Chat(context.Background(), ChatRequest{Prompt: "hello"})
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if resp.Content != "hello" {
		t.Errorf("Content = %q", resp.Content)
	}
	if g.Name() != "echo" {
		t.Errorf("Name = %q", g.Name())
	}
}

func TestWithTimeout_ZeroIsUnwrapped(t *testing.T) {
	var inner Gateway = blockingGateway{}
	if got := WithTimeout(inner, 0); got != inner {
		t.Error("zero timeout should return the gateway unchanged")
	}
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"401", &GatewayError{StatusCode: 401}, true},
		{"403 wrapped", fmt.Errorf("pass fast: %w", &GatewayError{StatusCode: 403}), true},
		{"500", &GatewayError{StatusCode: 500}, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthError(tt.err); got != tt.want {
				t.Errorf("IsAuthError = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGatewayError_Message(t *testing.T) {
	err := statusError("openai", 500, []byte("down"))
	want := "openai gateway (status 500): server error: down"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestExtractText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("{\"a\":"), genai.Text("1}")}}},
		},
	}
	if got := extractText(resp); got != `{"a":1}` {
		t.Errorf("extractText = %q", got)
	}
	if got := extractText(&genai.GenerateContentResponse{}); got != "" {
		t.Errorf("extractText(empty) = %q", got)
	}
	if got := extractText(nil); got != "" {
		t.Errorf("extractText(nil) = %q", got)
	}
}
