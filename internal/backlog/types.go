package backlog

import (
	_ "embed"

	"github.com/dshills/prgate/internal/llmjson"
)

// Backlog is the structured plan derived from a specification.
type Backlog struct {
	Epics     []Epic   `json:"epics"`
	Gaps      []string `json:"gaps,omitempty"`
	Questions []string `json:"questions,omitempty"`
}

// Epic is a major feature grouping child issues.
type Epic struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Goals       []string `json:"goals"`
	Scope       Scope    `json:"scope"`
	Priority    string   `json:"priority"`
	Issues      []Issue  `json:"issues"`
}

// Scope lists what an epic does and does not cover.
type Scope struct {
	InScope    []string `json:"inScope"`
	OutOfScope []string `json:"outOfScope"`
}

// Issue is one reviewable unit of work.
type Issue struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	AcceptanceCriteria []string `json:"acceptanceCriteria"`
	Size               string   `json:"size"`
	Priority           string   `json:"priority"`
	Area               string   `json:"area"`
	Dependencies       []string `json:"dependencies,omitempty"`
}

// Taxonomy is the set of label values issues may carry.
type Taxonomy struct {
	Areas      []string
	Priorities []string
	Sizes      []string
}

//go:embed schema/backlog.json
var backlogSchemaDoc string

// Schema constrains the gateway response.
var Schema = llmjson.MustCompile("backlog", backlogSchemaDoc)
