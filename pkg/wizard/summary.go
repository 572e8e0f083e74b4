package wizard

import (
	"strings"

	"github.com/goliatone/go-docwizard/pkg/schema"
)

// buildSummary renders the read-only confirmation view: fields grouped by
// their group label in first-seen order, each group's entries in field
// order. Skipped keys show a marker; genuinely unset optional keys show a
// placeholder.
func buildSummary(fields []schema.FieldSpec, collected map[string]string, skipped map[string]bool) string {
	type group struct {
		label   string
		entries []schema.FieldSpec
	}

	var groups []*group
	index := make(map[string]*group)
	for _, field := range fields {
		g, ok := index[field.Group]
		if !ok {
			g = &group{label: field.Group}
			index[field.Group] = g
			groups = append(groups, g)
		}
		g.entries = append(g.entries, field)
	}

	var b strings.Builder
	b.WriteString(textConfirmHeader)
	for _, g := range groups {
		b.WriteString("\n")
		if g.label != "" {
			b.WriteString("\n")
			b.WriteString(g.label)
			b.WriteString(":")
			b.WriteString("\n")
		}
		for _, field := range g.entries {
			b.WriteString("• ")
			b.WriteString(field.Label)
			b.WriteString(": ")
			b.WriteString(displayValue(field, collected, skipped))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func displayValue(field schema.FieldSpec, collected map[string]string, skipped map[string]bool) string {
	if skipped[field.Key] {
		return textSkippedMark
	}
	if value := strings.TrimSpace(collected[field.Key]); value != "" {
		return value
	}
	return textEmptyMark
}
