package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/Mohagames205/openbestuur/internal/votes"
)

var typeLabels = map[votes.Type]string{
	votes.For:     "For",
	votes.Against: "Against",
	votes.Abstain: "Abstain",
}

// Markdown renders a human-readable summary with one section per item.
func Markdown(r Result) string {
	var b strings.Builder
	s := r.Summary()
	b.WriteString("# Votes: ")
	b.WriteString(sourceTitle(r.Source))
	b.WriteString("\n\n- Kind: ")
	b.WriteString(string(r.Kind))
	b.WriteString("\n- Items: ")
	b.WriteString(strconv.Itoa(s.TotalItems))
	b.WriteString("\n- Items with votes: ")
	b.WriteString(strconv.Itoa(s.ItemsWithVotes))
	if !r.GeneratedAt.IsZero() {
		b.WriteString("\n- Generated: ")
		b.WriteString(r.GeneratedAt.UTC().Format(time.RFC3339))
	}
	b.WriteString("\n")

	for _, row := range r.Rows() {
		b.WriteString("\n## ")
		b.WriteString(rowHeading(row))
		b.WriteString("\n\n")
		if row.Status != "" {
			b.WriteString("Status: ")
			b.WriteString(string(row.Status))
			b.WriteString("\n\n")
		}
		for _, line := range voteLines(row.Votes) {
			b.WriteString("- ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func sourceTitle(src string) string {
	if strings.TrimSpace(src) == "" {
		return "input"
	}
	return src
}

func rowHeading(row Row) string {
	title := strings.TrimSpace(row.Title)
	if title == "" {
		title = "(untitled)"
	}
	if strings.HasPrefix(row.Label, "#") {
		return title
	}
	return row.Label + ". " + title
}

// voteLines renders one "Type (count): names" line per vote type.
func voteLines(t votes.Tally) []string {
	lines := make([]string, 0, len(votes.Types))
	for _, vt := range votes.Types {
		g := t.Get(vt)
		names := "none"
		if len(g.Names) > 0 {
			names = strings.Join(g.Names, ", ")
		}
		lines = append(lines, typeLabels[vt]+" ("+strconv.Itoa(g.Count)+"): "+names)
	}
	return lines
}
