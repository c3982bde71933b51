package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const projectQuery = `query($owner: String!, $number: Int!) {
  repositoryOwner(login: $owner) {
    ... on Organization { projectV2(number: $number) { id } }
    ... on User { projectV2(number: $number) { id } }
  }
}`

const addProjectItemMutation = `mutation($projectId: ID!, $contentId: ID!) {
  addProjectV2ItemById(input: {projectId: $projectId, contentId: $contentId}) {
    item { id }
  }
}`

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GetProjectID resolves a Projects (v2) number owned by the repository owner
// to its node id.
func (c *Client) GetProjectID(ctx context.Context, number int) (string, error) {
	var data struct {
		RepositoryOwner *struct {
			ProjectV2 *struct {
				ID string `json:"id"`
			} `json:"projectV2"`
		} `json:"repositoryOwner"`
	}
	vars := map[string]any{"owner": c.owner, "number": number}
	if err := c.graphql(ctx, projectQuery, vars, &data); err != nil {
		return "", fmt.Errorf("looking up project %d: %w", number, err)
	}
	if data.RepositoryOwner == nil || data.RepositoryOwner.ProjectV2 == nil || data.RepositoryOwner.ProjectV2.ID == "" {
		return "", fmt.Errorf("project %d not found for %s", number, c.owner)
	}
	return data.RepositoryOwner.ProjectV2.ID, nil
}

// AddToProject adds an issue (by node id) to a project and returns the item id.
func (c *Client) AddToProject(ctx context.Context, contentID, projectID string) (string, error) {
	var data struct {
		AddProjectV2ItemByID struct {
			Item struct {
				ID string `json:"id"`
			} `json:"item"`
		} `json:"addProjectV2ItemById"`
	}
	vars := map[string]any{"projectId": projectID, "contentId": contentID}
	if err := c.graphql(ctx, addProjectItemMutation, vars, &data); err != nil {
		return "", fmt.Errorf("adding %s to project: %w", contentID, err)
	}
	return data.AddProjectV2ItemByID.Item.ID, nil
}

func (c *Client) graphql(ctx context.Context, query string, vars map[string]any, out any) error {
	req, err := c.gh.NewRequest("POST", graphqlPath(c.gh.BaseURL.Path), graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	var resp graphQLResponse
	if _, err := c.gh.Do(ctx, req, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("graphql: %s", strings.Join(msgs, "; "))
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("decoding graphql data: %w", err)
	}
	return nil
}

// graphqlPath returns the GraphQL endpoint relative to the REST base URL.
// GitHub Enterprise serves REST under /api/v3/ and GraphQL under /api/graphql.
func graphqlPath(basePath string) string {
	if strings.HasSuffix(basePath, "/api/v3/") {
		return "../graphql"
	}
	return "graphql"
}
