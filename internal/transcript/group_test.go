package transcript

import (
	"strings"
	"testing"
	"time"
)

const groupInput = `1/2/23, 9:00 am - Alice: morning
1/2/23, 9:05 am - Bob: hi Alice
2/2/23, 8:00 pm - Alice: Dinner?
3/2/23, 7:00 am - Carol: dinner was great
2/2/23, 8:01 pm - Bob: late reply`

func TestGroupByDate(t *testing.T) {
	groups := GroupByDate(Parse(groupInput).Messages)

	want := []struct {
		date  string
		count int
	}{
		{"2023-02-01", 2},
		{"2023-02-02", 1},
		{"2023-02-03", 1},
		{"2023-02-02", 1},
	}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, w := range want {
		if groups[i].Date != w.date || len(groups[i].Messages) != w.count {
			t.Errorf("group[%d] = %s/%d, want %s/%d", i, groups[i].Date, len(groups[i].Messages), w.date, w.count)
		}
	}

	if GroupByDate(nil) != nil {
		t.Error("expected nil groups for nil input")
	}
}

func TestDateLabel(t *testing.T) {
	now := time.Date(2024, time.October, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		date string
		want string
	}{
		{"2024-10-01", "Today"},
		{"2024-09-30", "Yesterday"},
		{"2024-09-28", "Sep 28, 2024"},
		{"2023-01-05", "Jan 5, 2023"},
		{"not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		if got := DateLabel(tt.date, now); got != tt.want {
			t.Errorf("DateLabel(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestSenders(t *testing.T) {
	got := Senders(Parse(groupInput).Messages)
	want := []string{"Alice", "Bob", "Carol"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Senders = %v, want %v", got, want)
	}
}

func TestFilterByDate(t *testing.T) {
	got := FilterByDate(Parse(groupInput).Messages, "2023-02-02")
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[1].Content != "late reply" {
		t.Errorf("Content = %q, want 'late reply'", got[1].Content)
	}
}

func TestSearch(t *testing.T) {
	msgs := Parse(groupInput).Messages

	hits := Search(msgs, "DINNER")
	if len(hits) != 2 || hits[0] != 2 || hits[1] != 3 {
		t.Errorf("Search(DINNER) = %v, want [2 3]", hits)
	}
	if hits := Search(msgs, ""); hits != nil {
		t.Errorf("Search(\"\") = %v, want nil", hits)
	}
	if hits := Search(msgs, "breakfast"); len(hits) != 0 {
		t.Errorf("Search(breakfast) = %v, want none", hits)
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("short", 10); got != "short" {
		t.Errorf("Preview = %q, want short", got)
	}
	if got := Preview(strings.Repeat("x", 20), 5); got != "xxxxx..." {
		t.Errorf("Preview = %q, want xxxxx...", got)
	}
	// "é" is two bytes; cutting inside it backs up to the rune start.
	if got := Preview("aé", 2); got != "a..." {
		t.Errorf("Preview = %q, want a...", got)
	}
	if got := Preview("anything", 0); got != "anything" {
		t.Errorf("Preview with max 0 = %q", got)
	}
}
