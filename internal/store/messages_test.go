package store

import (
	"testing"
	"time"
)

func TestListMessages(t *testing.T) {
	db := testDB(t)
	imp := saveSample(t, db)

	msgs, err := db.ListMessages(imp.ID, MessageQuery{})
	if err != nil {
		t.Fatalf("ListMessages: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.Seq != i {
			t.Errorf("msgs[%d].Seq = %d", i, m.Seq)
		}
	}

	bob := msgs[1]
	if bob.Sender != "Bob" || bob.Content != `hi Alice\nhow are you?` {
		t.Errorf("msgs[1] = %+v", bob)
	}
	want := time.Date(2023, time.February, 1, 9, 5, 0, 0, time.UTC)
	if !bob.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", bob.Timestamp, want)
	}
	if bob.Time != "9:05 am" {
		t.Errorf("Time = %q", bob.Time)
	}
}

func TestListMessagesFilters(t *testing.T) {
	db := testDB(t)
	imp := saveSample(t, db)

	tests := []struct {
		name  string
		query MessageQuery
		want  []int
	}{
		{"by date", MessageQuery{Date: "2023-02-01"}, []int{0, 1}},
		{"by sender", MessageQuery{Sender: "Alice"}, []int{0, 2}},
		{"by content", MessageQuery{Query: "DINNER"}, []int{2, 3}},
		{"sender and content", MessageQuery{Sender: "Carol", Query: "dinner"}, []int{3}},
		{"limit", MessageQuery{Limit: 2}, []int{0, 1}},
		{"offset", MessageQuery{Offset: 3}, []int{3}},
		{"offset past end", MessageQuery{Offset: 10}, nil},
		{"no match", MessageQuery{Sender: "Dave"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, err := db.ListMessages(imp.ID, tt.query)
			if err != nil {
				t.Fatalf("ListMessages: %v", err)
			}
			if len(msgs) != len(tt.want) {
				t.Fatalf("got %d messages, want %d", len(msgs), len(tt.want))
			}
			for i, seq := range tt.want {
				if msgs[i].Seq != seq {
					t.Errorf("msgs[%d].Seq = %d, want %d", i, msgs[i].Seq, seq)
				}
			}
		})
	}
}

func TestImportDatesAndSenders(t *testing.T) {
	db := testDB(t)
	imp := saveSample(t, db)

	dates, err := db.ImportDates(imp.ID)
	if err != nil {
		t.Fatalf("ImportDates: %v", err)
	}
	want := []DateCount{{"2023-02-01", 2}, {"2023-02-02", 1}, {"2023-02-03", 1}}
	if len(dates) != len(want) {
		t.Fatalf("dates = %+v, want %+v", dates, want)
	}
	for i := range want {
		if dates[i] != want[i] {
			t.Errorf("dates[%d] = %+v, want %+v", i, dates[i], want[i])
		}
	}

	senders, err := db.ImportSenders(imp.ID)
	if err != nil {
		t.Fatalf("ImportSenders: %v", err)
	}
	if len(senders) != 3 || senders[0] != "Alice" || senders[1] != "Bob" || senders[2] != "Carol" {
		t.Errorf("senders = %v, want [Alice Bob Carol]", senders)
	}
}
