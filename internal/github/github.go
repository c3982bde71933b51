package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	gh "github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/dshills/prgate/internal/gitctx"
)

// Issue identifies a created issue. NodeID is the GraphQL id used for
// project membership.
type Issue struct {
	Number int
	NodeID string
}

// Client wraps the GitHub REST and GraphQL APIs for one repository.
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
}

// NewClient creates a client for owner/repo. Requires GITHUB_TOKEN;
// GITHUB_API_URL overrides the API base URL.
func NewClient(ctx context.Context, owner, repo string) (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN environment variable is not set")
	}

	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client := gh.NewClient(httpClient)

	if apiURL := os.Getenv("GITHUB_API_URL"); apiURL != "" {
		u, err := url.Parse(strings.TrimRight(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing GITHUB_API_URL: %w", err)
		}
		client.BaseURL = u
	}

	return NewFromClient(client, owner, repo), nil
}

// NewFromClient wraps an existing go-github client.
func NewFromClient(client *gh.Client, owner, repo string) *Client {
	return &Client{gh: client, owner: owner, repo: repo}
}

// Repo returns "owner/repo".
func (c *Client) Repo() string {
	return c.owner + "/" + c.repo
}

// GetPullRequestDiff fetches the unified diff of a pull request.
func (c *Client) GetPullRequestDiff(ctx context.Context, number int) (string, error) {
	diff, resp, err := c.gh.PullRequests.GetRaw(ctx, c.owner, c.repo, number, gh.RawOptions{Type: gh.Diff})
	if err != nil {
		if statusCode(resp) == http.StatusNotFound {
			return "", fmt.Errorf("PR #%d not found in %s", number, c.Repo())
		}
		return "", fmt.Errorf("fetching PR #%d diff: %w", number, err)
	}
	return diff, nil
}

// CreateIssue opens an issue with the given labels.
func (c *Client) CreateIssue(ctx context.Context, title, body string, labels []string) (Issue, error) {
	req := &gh.IssueRequest{
		Title: gh.Ptr(title),
		Body:  gh.Ptr(body),
	}
	if len(labels) > 0 {
		req.Labels = &labels
	}
	issue, _, err := c.gh.Issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		return Issue{}, fmt.Errorf("creating issue %q: %w", title, err)
	}
	return Issue{Number: issue.GetNumber(), NodeID: issue.GetNodeID()}, nil
}

// CreateComment posts a comment on an issue or pull request.
func (c *Client) CreateComment(ctx context.Context, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number, &gh.IssueComment{Body: gh.Ptr(body)})
	if err != nil {
		return fmt.Errorf("commenting on #%d: %w", number, err)
	}
	return nil
}

// AddLabels adds labels to an issue or pull request.
func (c *Client) AddLabels(ctx context.Context, number int, labels []string) error {
	if len(labels) == 0 {
		return nil
	}
	if _, _, err := c.gh.Issues.AddLabelsToIssue(ctx, c.owner, c.repo, number, labels); err != nil {
		return fmt.Errorf("adding labels to #%d: %w", number, err)
	}
	return nil
}

// RemoveLabel removes a label. A label that is not present is not an error.
func (c *Client) RemoveLabel(ctx context.Context, number int, label string) error {
	resp, err := c.gh.Issues.RemoveLabelForIssue(ctx, c.owner, c.repo, number, label)
	if err != nil {
		if statusCode(resp) == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("removing label %q from #%d: %w", label, number, err)
	}
	return nil
}

// GetLabels lists the label names on an issue or pull request.
func (c *Client) GetLabels(ctx context.Context, number int) ([]string, error) {
	var names []string
	opts := &gh.ListOptions{PerPage: 100}
	for {
		labels, resp, err := c.gh.Issues.ListLabelsByIssue(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing labels on #%d: %w", number, err)
		}
		for _, l := range labels {
			names = append(names, l.GetName())
		}
		if resp.NextPage == 0 {
			return names, nil
		}
		opts.Page = resp.NextPage
	}
}

// IsAuthError reports whether err is a GitHub 401 or 403 response.
func IsAuthError(err error) bool {
	var er *gh.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode == http.StatusUnauthorized || er.Response.StatusCode == http.StatusForbidden
	}
	return false
}

func statusCode(resp *gh.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

var (
	httpsRemoteRe = regexp.MustCompile(`https?://[^/]+/([^/]+)/([^/.\s]+)`)
	sshRemoteRe   = regexp.MustCompile(`[^@]+@[^:]+:([^/]+)/([^/.\s]+)`)
)

// DetectRepo parses owner/repo from the git remote origin URL.
func DetectRepo() (owner, repo string, err error) {
	remote, err := gitctx.RemoteURL()
	if err != nil {
		return "", "", fmt.Errorf("cannot detect repo: %w", err)
	}
	return ParseRemoteURL(remote)
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(url, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}
