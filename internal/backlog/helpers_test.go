package backlog

import (
	"context"
	"fmt"

	"github.com/dshills/prgate/internal/github"
	"github.com/dshills/prgate/internal/providers"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type stubGateway struct {
	reply    string
	err      error
	requests []providers.ChatRequest
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) Chat(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return providers.ChatResponse{}, g.err
	}
	return providers.ChatResponse{Content: g.reply}, nil
}

type createdIssue struct {
	Title  string
	Body   string
	Labels []string
}

// fakeTracker numbers issues from 100 and records project additions.
type fakeTracker struct {
	issues    []createdIssue
	project   []string
	failAfter int
}

func (f *fakeTracker) CreateIssue(ctx context.Context, title, body string, labels []string) (github.Issue, error) {
	if f.failAfter > 0 && len(f.issues) == f.failAfter {
		return github.Issue{}, fmt.Errorf("github: 502 bad gateway")
	}
	f.issues = append(f.issues, createdIssue{Title: title, Body: body, Labels: labels})
	n := 99 + len(f.issues)
	return github.Issue{Number: n, NodeID: fmt.Sprintf("I_%d", n)}, nil
}

func (f *fakeTracker) GetProjectID(ctx context.Context, number int) (string, error) {
	return fmt.Sprintf("PVT_%d", number), nil
}

func (f *fakeTracker) AddToProject(ctx context.Context, contentID, projectID string) (string, error) {
	f.project = append(f.project, projectID+"/"+contentID)
	return "item", nil
}

func testLog() (*logrus.Entry, *test.Hook) {
	logger, hook := test.NewNullLogger()
	return logrus.NewEntry(logger), hook
}

var testTaxonomy = Taxonomy{
	Areas:      []string{"frontend", "backend", "infrastructure", "database", "documentation"},
	Priorities: []string{"high", "medium", "low"},
	Sizes:      []string{"S", "M", "L"},
}

const backlogReply = "```json\n" + `{
  "epics": [
    {
      "title": "Authentication",
      "description": "Users can sign in.",
      "goals": ["Password login", "Session expiry"],
      "scope": {"inScope": ["Email login"], "outOfScope": ["SSO"]},
      "priority": "High",
      "issues": [
        {
          "title": "Login endpoint",
          "description": "POST /login",
          "acceptanceCriteria": ["Returns a token", "Rejects bad passwords"],
          "size": "s",
          "priority": "high",
          "area": "backend"
        },
        {
          "title": "Login form",
          "description": "A form.",
          "acceptanceCriteria": ["Shows errors"],
          "size": "M",
          "priority": "urgent",
          "area": "frontend",
          "dependencies": ["Login endpoint"]
        }
      ]
    }
  ],
  "gaps": ["Password policy is unspecified"],
  "questions": ["Is SSO needed later?"]
}` + "\n```"
