package transcript

import (
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// DateGroup is a run of messages sharing a calendar date.
type DateGroup struct {
	Date     string
	Messages []Message
}

// GroupByDate splits msgs into runs of equal Date, keeping input order.
// A date that reappears later starts a new group.
func GroupByDate(msgs []Message) []DateGroup {
	var groups []DateGroup
	for _, m := range msgs {
		if n := len(groups); n > 0 && groups[n-1].Date == m.Date {
			groups[n-1].Messages = append(groups[n-1].Messages, m)
			continue
		}
		groups = append(groups, DateGroup{Date: m.Date, Messages: []Message{m}})
	}
	return groups
}

// DateLabel renders a YYYY-MM-DD date for a separator: "Today", "Yesterday"
// or e.g. "Sep 28, 2024". Unparseable input is returned unchanged.
func DateLabel(date string, now time.Time) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	switch date {
	case today:
		return "Today"
	case yesterday:
		return "Yesterday"
	}
	return d.Format("Jan 2, 2006")
}

// Senders returns the distinct senders in order of first appearance.
func Senders(msgs []Message) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range msgs {
		if !seen[m.Sender] {
			seen[m.Sender] = true
			out = append(out, m.Sender)
		}
	}
	return out
}

// FilterByDate returns the messages dated date (YYYY-MM-DD).
func FilterByDate(msgs []Message, date string) []Message {
	var out []Message
	for _, m := range msgs {
		if m.Date == date {
			out = append(out, m)
		}
	}
	return out
}

// Search returns the indices of messages whose content contains term,
// ignoring case. An empty term matches nothing.
func Search(msgs []Message, term string) []int {
	if term == "" {
		return nil
	}
	fold := cases.Fold()
	needle := fold.String(term)
	var hits []int
	for i, m := range msgs {
		if strings.Contains(fold.String(m.Content), needle) {
			hits = append(hits, i)
		}
	}
	return hits
}

// Preview shortens s to at most n bytes on a rune boundary, adding "..."
// when it was cut.
func Preview(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
