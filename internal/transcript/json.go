package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// record is the on-disk JSON shape of a Message.
type record struct {
	Datetime string `json:"datetime"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Sender   string `json:"sender"`
	Content  string `json:"content"`
}

// MarshalJSON encodes the timestamp as wall-clock time with a "Z" suffix.
// The suffix is a label only; no zone conversion happens.
func (m Message) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	err := enc.Encode(record{
		Datetime: m.Timestamp.Format(datetimeLayout) + "Z",
		Date:     m.Date,
		Time:     m.Time,
		Sender:   m.Sender,
		Content:  m.Content,
	})
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON accepts the shape produced by MarshalJSON.
func (m *Message) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	ts, err := time.Parse(datetimeLayout+"Z", r.Datetime)
	if err != nil {
		return fmt.Errorf("datetime %q: %w", r.Datetime, err)
	}
	*m = Message{
		Timestamp: ts,
		Date:      r.Date,
		Time:      r.Time,
		Sender:    r.Sender,
		Content:   r.Content,
	}
	return nil
}

// WriteJSON writes msgs as an indented JSON array. Non-ASCII text and
// markup characters are written as-is.
func WriteJSON(w io.Writer, msgs []Message) error {
	if msgs == nil {
		msgs = []Message{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(msgs); err != nil {
		return fmt.Errorf("encode messages: %w", err)
	}
	return nil
}
