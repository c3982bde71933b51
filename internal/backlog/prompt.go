package backlog

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a software project analyst. You turn specification documents into
a structured backlog of epics and small, reviewable issues.

Respond with ONLY a JSON object, no prose and no markdown fences.`

// SystemPrompt returns the instructions sent with every backlog request.
func SystemPrompt() string {
	return systemPrompt
}

// BuildPrompt assembles the backlog request. plan may be empty.
func BuildPrompt(spec, plan string, tax Taxonomy) string {
	var sb strings.Builder

	sb.WriteString("Parse the following specification documents and create a structured backlog.\n\n")
	if plan != "" {
		sb.WriteString("## Plan Document\n\n")
		sb.WriteString(plan)
		sb.WriteString("\n\n")
	}
	sb.WriteString("## Specification Document\n\n")
	sb.WriteString(spec)
	sb.WriteString("\n\n---\n\n")

	sb.WriteString(`Your task:
1. Identify high-level epics (major features)
2. Break each epic into specific, reviewable issues
3. Each issue should be small enough to review in one session, with clear
   acceptance criteria, and properly sized and prioritized
4. Identify any gaps or ambiguities in the spec

Return a JSON object matching this shape:

{
  "epics": [
    {
      "title": "Epic title",
      "description": "What is this epic about?",
      "goals": ["Goal 1"],
      "scope": {"inScope": ["Item"], "outOfScope": ["Item"]},
      "priority": "<priority>",
      "issues": [
        {
          "title": "Issue title",
          "description": "Detailed description",
          "acceptanceCriteria": ["Criterion 1"],
          "size": "<size>",
          "priority": "<priority>",
          "area": "<area>",
          "dependencies": ["#123"]
        }
      ]
    }
  ],
  "gaps": ["Things unclear in the spec"],
  "questions": ["Questions for the author"]
}

`)
	fmt.Fprintf(&sb, "Allowed priorities: %s\n", quoted(tax.Priorities))
	fmt.Fprintf(&sb, "Allowed sizes: %s\n", quoted(tax.Sizes))
	fmt.Fprintf(&sb, "Allowed areas: %s\n\n", quoted(tax.Areas))

	sb.WriteString(`Rules:
- Prefer multiple small epics over one giant epic
- Each issue should take 1-8 hours; prefer the smaller sizes
- Be specific with acceptance criteria
- dependencies, gaps and questions are optional
- Flag anything unclear as a gap or question
`)
	return sb.String()
}

func quoted(values []string) string {
	if len(values) == 0 {
		return "(any)"
	}
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(q, ", ")
}
