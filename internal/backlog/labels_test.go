package backlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	b := Backlog{Epics: []Epic{{
		Title:    "E",
		Priority: " LOW ",
		Issues: []Issue{
			{Title: "a", Size: "xl", Priority: "Medium", Area: "Database"},
			{Title: "b", Size: "", Priority: "high", Area: "mobile"},
		},
	}}}
	log, hook := testLog()

	Normalize(&b, testTaxonomy, log)

	e := b.Epics[0]
	assert.Equal(t, "low", e.Priority)
	assert.Equal(t, Issue{Title: "a", Size: "", Priority: "medium", Area: "database"}, e.Issues[0])
	assert.Equal(t, Issue{Title: "b", Size: "", Priority: "high", Area: ""}, e.Issues[1])

	require.Len(t, hook.AllEntries(), 2)
	assert.Equal(t, "xl", hook.AllEntries()[0].Data["value"])
	assert.Equal(t, "mobile", hook.AllEntries()[1].Data["value"])
}

func TestLabels(t *testing.T) {
	assert.Equal(t, []string{"epic"}, EpicLabels(Epic{}))
	assert.Equal(t, []string{"enhancement"}, IssueLabels(Issue{}))
	assert.Equal(t,
		[]string{"enhancement", "size: L", "priority: low", "area: documentation"},
		IssueLabels(Issue{Size: "L", Priority: "low", Area: "documentation"}))
}
