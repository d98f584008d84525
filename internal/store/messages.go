package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/lazypower/chatlog/internal/transcript"
)

// Message is an archived chat message with its position in the transcript.
type Message struct {
	Seq int
	transcript.Message
}

// MessageQuery narrows ListMessages. Zero values mean "no filter".
type MessageQuery struct {
	Date   string // YYYY-MM-DD
	Sender string // exact match
	Query  string // case-insensitive content substring
	Limit  int
	Offset int
}

// DateCount is the number of messages on one calendar date.
type DateCount struct {
	Date  string
	Count int
}

// ListMessages returns the messages of an import in transcript order.
// Date and sender are filtered in SQL; the content query uses the same
// case folding as transcript.Search, so paging is applied afterwards.
func (db *DB) ListMessages(importID string, q MessageQuery) ([]Message, error) {
	var where []string
	args := []any{importID}
	where = append(where, "import_id = ?")
	if q.Date != "" {
		where = append(where, "date = ?")
		args = append(args, q.Date)
	}
	if q.Sender != "" {
		where = append(where, "sender = ?")
		args = append(args, q.Sender)
	}

	rows, err := db.Query(`
		SELECT seq, timestamp, date, time, sender, content FROM messages
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY seq
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var ts int64
		if err := rows.Scan(&m.Seq, &ts, &m.Date, &m.Time, &m.Sender, &m.Content); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Timestamp = time.Unix(ts, 0).UTC()
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if q.Query != "" {
		plain := make([]transcript.Message, len(msgs))
		for i, m := range msgs {
			plain[i] = m.Message
		}
		hits := transcript.Search(plain, q.Query)
		matched := make([]Message, 0, len(hits))
		for _, i := range hits {
			matched = append(matched, msgs[i])
		}
		msgs = matched
	}

	return page(msgs, q.Offset, q.Limit), nil
}

func page(msgs []Message, offset, limit int) []Message {
	if offset > 0 {
		if offset >= len(msgs) {
			return nil
		}
		msgs = msgs[offset:]
	}
	if limit > 0 && limit < len(msgs) {
		msgs = msgs[:limit]
	}
	return msgs
}

// ImportDates returns per-date message counts in order of first appearance.
func (db *DB) ImportDates(importID string) ([]DateCount, error) {
	rows, err := db.Query(`
		SELECT date, COUNT(*) FROM messages WHERE import_id = ?
		GROUP BY date ORDER BY MIN(seq)
	`, importID)
	if err != nil {
		return nil, fmt.Errorf("import dates: %w", err)
	}
	defer rows.Close()

	var out []DateCount
	for rows.Next() {
		var dc DateCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}

// ImportSenders returns distinct senders in order of first appearance.
func (db *DB) ImportSenders(importID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT sender FROM messages WHERE import_id = ?
		GROUP BY sender ORDER BY MIN(seq)
	`, importID)
	if err != nil {
		return nil, fmt.Errorf("import senders: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan sender: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
