package transcript

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteJSONShape(t *testing.T) {
	res := Parse("1/2/23, 1:30 pm - Alice: hello <there>\nsecond line")

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res.Messages); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		`"datetime": "2023-02-01T13:30:00Z"`,
		`"date": "2023-02-01"`,
		`"time": "1:30 pm"`,
		`"sender": "Alice"`,
		`"content": "hello <there>\\nsecond line"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
	if !strings.HasPrefix(out, "[\n  {\n    ") {
		t.Errorf("output not indented with two spaces:\n%s", out)
	}
}

func TestWriteJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("output = %q, want []", got)
	}
}

func TestWriteJSONKeepsUnicode(t *testing.T) {
	res := Parse("1/2/23, 1:30 pm - José: olá 👋")

	var buf bytes.Buffer
	if err := WriteJSON(&buf, res.Messages); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "olá 👋") {
		t.Errorf("unicode escaped in output:\n%s", buf.String())
	}
}

func TestMessageJSONDecode(t *testing.T) {
	orig := Parse("28/9/24, 11:05 pm - Bob: late\nnight").Messages

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded []Message
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 message, got %d", len(decoded))
	}
	if !decoded[0].Timestamp.Equal(orig[0].Timestamp) {
		t.Errorf("Timestamp = %v, want %v", decoded[0].Timestamp, orig[0].Timestamp)
	}
	if decoded[0].Content != `late\nnight` {
		t.Errorf("Content = %q", decoded[0].Content)
	}
}

func TestMessageJSONDecodeBadDatetime(t *testing.T) {
	var m Message
	err := json.Unmarshal([]byte(`{"datetime":"yesterday","date":"","time":"","sender":"a","content":""}`), &m)
	if err == nil {
		t.Fatal("expected error for bad datetime")
	}
}
