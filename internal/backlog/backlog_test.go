package backlog

import (
	"bytes"
	"context"
	"testing"

	"github.com/dshills/prgate/internal/llmjson"
	"github.com/dshills/prgate/internal/providers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T, gw providers.Gateway, tracker Tracker, opts Options) (*Runner, afero.Fs, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "docs/spec.md", []byte("# Spec\nUsers sign in."), 0o644))
	if opts.SpecPath == "" {
		opts.SpecPath = "docs/spec.md"
	}
	if opts.Taxonomy.Areas == nil {
		opts.Taxonomy = testTaxonomy
	}
	opts.Model = "planner"
	var out bytes.Buffer
	log, _ := testLog()
	return NewRunner(gw, tracker, fs, &out, opts, log), fs, &out
}

func TestRun_CreatesEpicsAndIssues(t *testing.T) {
	tracker := &fakeTracker{}
	r, _, out := newRunner(t, &stubGateway{reply: backlogReply}, tracker, Options{ProjectNumber: 4})

	summary, err := r.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, tracker.issues, 3)
	epic := tracker.issues[0]
	assert.Equal(t, "[EPIC] Authentication", epic.Title)
	assert.Equal(t, []string{"epic", "priority: high"}, epic.Labels)
	assert.Contains(t, epic.Body, "## Goals\n- Password login\n- Session expiry")
	assert.Contains(t, epic.Body, "**Out of Scope:**\n- SSO")

	first := tracker.issues[1]
	assert.Equal(t, "Login endpoint", first.Title)
	assert.Equal(t, []string{"enhancement", "size: S", "priority: high", "area: backend"}, first.Labels)
	assert.Contains(t, first.Body, "- [ ] Returns a token\n- [ ] Rejects bad passwords")
	assert.Contains(t, first.Body, "**Epic:** #100")
	assert.NotContains(t, first.Body, "Dependencies")

	second := tracker.issues[2]
	assert.Equal(t, []string{"enhancement", "size: M", "area: frontend"}, second.Labels, "unknown priority is dropped")
	assert.Contains(t, second.Body, "**Dependencies:** Login endpoint")

	assert.Equal(t, []string{"PVT_4/I_100", "PVT_4/I_101", "PVT_4/I_102"}, tracker.project)

	require.Len(t, summary.Epics, 1)
	assert.Equal(t, 100, summary.Epics[0].Number)
	assert.Equal(t, []CreatedIssue{{101, "Login endpoint"}, {102, "Login form"}}, summary.Epics[0].Issues)
	assert.Contains(t, out.String(), "Epic #100: Authentication")
	assert.Contains(t, out.String(), "   - #102: Login form")
	assert.Contains(t, out.String(), "Password policy is unspecified")
	assert.Contains(t, out.String(), "Is SSO needed later?")
}

func TestRun_NoProject(t *testing.T) {
	tracker := &fakeTracker{}
	r, _, _ := newRunner(t, &stubGateway{reply: backlogReply}, tracker, Options{})

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, tracker.issues, 3)
	assert.Empty(t, tracker.project)
}

func TestRun_DryRunCreatesNothing(t *testing.T) {
	r, _, out := newRunner(t, &stubGateway{reply: backlogReply}, nil, Options{DryRun: true, ProjectNumber: 4})

	summary, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	require.Len(t, summary.Epics, 1)
	assert.Zero(t, summary.Epics[0].Number)
	assert.Contains(t, out.String(), "[dry run] would create epic: [EPIC] Authentication")
	assert.Contains(t, out.String(), "[dry run] would create issue: Login form")
	assert.Contains(t, out.String(), "Epic (new): Authentication")
}

func TestRun_TrackerFailureStops(t *testing.T) {
	tracker := &fakeTracker{failAfter: 2}
	r, _, _ := newRunner(t, &stubGateway{reply: backlogReply}, tracker, Options{})

	summary, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Len(t, tracker.issues, 2)
	require.Len(t, summary.Epics, 1)
	assert.Len(t, summary.Epics[0].Issues, 1)
}

func TestParse_PlanIsOptional(t *testing.T) {
	gw := &stubGateway{reply: backlogReply}
	r, _, _ := newRunner(t, gw, nil, Options{PlanPath: "docs/plan.md"})

	_, err := r.Parse(context.Background())
	require.NoError(t, err)
	require.Len(t, gw.requests, 1)
	assert.NotContains(t, gw.requests[0].Prompt, "## Plan Document")
	assert.Contains(t, gw.requests[0].Prompt, "Users sign in.")
	assert.Equal(t, "planner", gw.requests[0].Model)
}

func TestParse_IncludesPlan(t *testing.T) {
	gw := &stubGateway{reply: backlogReply}
	r, fs, _ := newRunner(t, gw, nil, Options{PlanPath: "docs/plan.md"})
	require.NoError(t, afero.WriteFile(fs, "docs/plan.md", []byte("Phase 1: auth"), 0o644))

	_, err := r.Parse(context.Background())
	require.NoError(t, err)
	assert.Contains(t, gw.requests[0].Prompt, "## Plan Document\n\nPhase 1: auth")
}

func TestParse_MissingSpec(t *testing.T) {
	gw := &stubGateway{reply: backlogReply}
	r, _, _ := newRunner(t, gw, nil, Options{SpecPath: "nope.md"})

	_, err := r.Parse(context.Background())
	require.Error(t, err)
	assert.Empty(t, gw.requests)
}

func TestParse_SchemaViolation(t *testing.T) {
	r, _, _ := newRunner(t, &stubGateway{reply: `{"epics": [{"title": "x"}]}`}, nil, Options{})

	_, err := r.Parse(context.Background())
	var sv *llmjson.SchemaViolation
	require.ErrorAs(t, err, &sv)
}

func TestParse_GatewayError(t *testing.T) {
	gw := &stubGateway{err: &providers.GatewayError{Provider: "stub", StatusCode: 401, Message: "auth"}}
	r, _, _ := newRunner(t, gw, nil, Options{})

	_, err := r.Parse(context.Background())
	assert.True(t, providers.IsAuthError(err))
}
