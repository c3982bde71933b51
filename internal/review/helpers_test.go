package review

import (
	"context"
	"io"
	"sync"

	"github.com/dshills/prgate/internal/providers"
	"github.com/sirupsen/logrus"
)

// stubGateway answers every Chat call from a per-model table.
type stubGateway struct {
	mu       sync.Mutex
	replies  map[string]string
	errs     map[string]error
	requests []providers.ChatRequest
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) Chat(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	reply, err := g.replies[req.Model], g.errs[req.Model]
	g.mu.Unlock()
	if err != nil {
		return providers.ChatResponse{}, err
	}
	return providers.ChatResponse{Content: reply}, nil
}

// memStore records written results by pass.
type memStore struct {
	mu      sync.Mutex
	results map[Pass]Result
}

func newMemStore() *memStore {
	return &memStore{results: map[Pass]Result{}}
}

func (s *memStore) WriteResult(r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.Pass] = r
	return nil
}

func testLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

var testModels = map[Pass]string{
	PassFast:        "m-fast",
	PassDeep:        "m-deep",
	PassIndependent: "m-independent",
}
