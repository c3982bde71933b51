package backlog

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Normalize maps every priority, size and area onto the taxonomy's spelling,
// matching case-insensitively. Values outside the taxonomy are cleared and
// logged; the issue is still created without that label.
func Normalize(b *Backlog, tax Taxonomy, log *logrus.Entry) {
	for i := range b.Epics {
		e := &b.Epics[i]
		e.Priority = normalize(e.Priority, tax.Priorities, "priority", e.Title, log)
		for j := range e.Issues {
			is := &e.Issues[j]
			is.Priority = normalize(is.Priority, tax.Priorities, "priority", is.Title, log)
			is.Size = normalize(is.Size, tax.Sizes, "size", is.Title, log)
			is.Area = normalize(is.Area, tax.Areas, "area", is.Title, log)
		}
	}
}

func normalize(value string, allowed []string, kind, title string, log *logrus.Entry) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	log.WithFields(logrus.Fields{
		"kind":  kind,
		"value": value,
		"title": title,
	}).Warn("dropping label outside the configured taxonomy")
	return ""
}

// EpicLabels returns the labels for an epic issue.
func EpicLabels(e Epic) []string {
	labels := []string{"epic"}
	if e.Priority != "" {
		labels = append(labels, "priority: "+e.Priority)
	}
	return labels
}

// IssueLabels returns the labels for a child issue.
func IssueLabels(is Issue) []string {
	labels := []string{"enhancement"}
	if is.Size != "" {
		labels = append(labels, "size: "+is.Size)
	}
	if is.Priority != "" {
		labels = append(labels, "priority: "+is.Priority)
	}
	if is.Area != "" {
		labels = append(labels, "area: "+is.Area)
	}
	return labels
}
