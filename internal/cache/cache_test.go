package cache

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/dshills/prgate/internal/providers"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

type countingGateway struct {
	calls int
	err   error
}

func (g *countingGateway) Name() string { return "fake" }

func (g *countingGateway) Chat(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	g.calls++
	if g.err != nil {
		return providers.ChatResponse{}, g.err
	}
	return providers.ChatResponse{Content: "reply to " + req.Prompt, TokensUsed: 7}, nil
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func openMem(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	s, err := Open(afero.NewMemMapFs(), "/cache", ttl)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openMem(t, 0)
	key := Key("anthropic", providers.ChatRequest{Model: "m", Prompt: "p"})

	if _, ok := s.Get(key); ok {
		t.Error("Expected cache miss before put")
	}
	if err := s.Put(key, providers.ChatResponse{Content: `{"findings":[]}`, TokensUsed: 3}); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, ok := s.Get(key)
	if !ok {
		t.Fatal("Expected cache hit after put")
	}
	if got.Content != `{"findings":[]}` || got.TokensUsed != 3 {
		t.Errorf("Get = %+v", got)
	}
}

func TestStore_TTLExpiration(t *testing.T) {
	s := openMem(t, time.Hour)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return start }

	if err := s.Put("k", providers.ChatResponse{Content: "data"}); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if _, ok := s.Get("k"); !ok {
		t.Error("Expected cache hit before expiration")
	}

	s.now = func() time.Time { return start.Add(2 * time.Hour) }
	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.Expired != 1 {
		t.Errorf("Expired = %d, want 1", stats.Expired)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("Expected cache miss after TTL expiration")
	}
	if stats, _ := s.Stats(); stats.Entries != 0 {
		t.Errorf("expired entry should be removed on read, Entries = %d", stats.Entries)
	}
}

func TestStore_ClearAndStats(t *testing.T) {
	s := openMem(t, 0)
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Put(k, providers.ChatResponse{Content: "data"}); err != nil {
			t.Fatalf("Put error: %v", err)
		}
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.Entries != 3 {
		t.Errorf("Entries = %d, want 3", stats.Entries)
	}
	if stats.TotalBytes <= 0 {
		t.Error("TotalBytes should be > 0")
	}
	if stats.Dir != "/cache" {
		t.Errorf("Dir = %q", stats.Dir)
	}

	removed, err := s.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if removed != 3 {
		t.Errorf("removed = %d, want 3", removed)
	}
	if stats, _ := s.Stats(); stats.Entries != 0 {
		t.Errorf("Entries after clear = %d", stats.Entries)
	}
}

func TestKey(t *testing.T) {
	req := providers.ChatRequest{Model: "m", System: "s", Prompt: "diff"}
	k1 := Key("anthropic", req)
	k2 := Key("anthropic", req)
	if k1 != k2 {
		t.Error("Same inputs should produce same key")
	}
	if len(k1) != 64 {
		t.Errorf("Key length = %d, want 64", len(k1))
	}
	if k1 == Key("openai", req) {
		t.Error("Different provider should produce different key")
	}
	req.Model = "other"
	if k1 == Key("anthropic", req) {
		t.Error("Different model should produce different key")
	}
}

func TestWrap_HitSkipsGateway(t *testing.T) {
	inner := &countingGateway{}
	g := Wrap(inner, openMem(t, 0), testLog())
	req := providers.ChatRequest{Model: "m", Prompt: "diff"}

	first, err := g.Chat(context.Background(), req)
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	second, err := g.Chat(context.Background(), req)
	if err != nil {
		t.Fatalf("Chat error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner gateway called %d times, want 1", inner.calls)
	}
	if first != second {
		t.Errorf("cached response %+v differs from original %+v", second, first)
	}
	if g.Name() != "fake" {
		t.Errorf("Name = %q", g.Name())
	}
}

func TestWrap_ErrorsNotCached(t *testing.T) {
	inner := &countingGateway{err: errors.New("boom")}
	g := Wrap(inner, openMem(t, 0), testLog())
	req := providers.ChatRequest{Prompt: "diff"}

	for i := 0; i < 2; i++ {
		if _, err := g.Chat(context.Background(), req); err == nil {
			t.Fatal("Expected error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner gateway called %d times, want 2", inner.calls)
	}
}

func TestWrap_RejectedReplyNotCached(t *testing.T) {
	inner := &countingGateway{}
	g := Wrap(inner, openMem(t, 0), testLog())
	reject := errors.New("not JSON")
	req := providers.ChatRequest{Model: "m", Prompt: "diff", Accept: func(string) error { return reject }}

	for i := 0; i < 2; i++ {
		resp, err := g.Chat(context.Background(), req)
		if err != nil {
			t.Fatalf("Chat error: %v", err)
		}
		if resp.Content != "reply to diff" {
			t.Errorf("rejected reply should still be returned, got %q", resp.Content)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner gateway called %d times, want 2", inner.calls)
	}

	req.Accept = func(string) error { return nil }
	for i := 0; i < 2; i++ {
		if _, err := g.Chat(context.Background(), req); err != nil {
			t.Fatalf("Chat error: %v", err)
		}
	}
	if inner.calls != 3 {
		t.Errorf("accepted reply should be cached, inner calls = %d, want 3", inner.calls)
	}
}
