package transcript

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// LineBreak joins continuation lines onto a message. It is the two-character
// sequence backslash + n, not a real newline.
const LineBreak = `\n`

// MediaOmitted is the placeholder the exporter writes instead of attachments.
const MediaOmitted = "<Media omitted>"

// Message is one assembled chat message.
type Message struct {
	Timestamp time.Time
	Date      string // YYYY-MM-DD
	Time      string // normalized original time text, e.g. "1:30 pm"
	Sender    string
	Content   string
}

// LineError describes a header line whose date or time could not be resolved.
type LineError struct {
	Line int    // 1-based physical line number
	Raw  string // normalized line text
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: failed to parse %q: %v", e.Line, e.Raw, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Result is the output of Parse.
type Result struct {
	Messages []Message
	Warnings []*LineError
}

var headerRe = regexp.MustCompile(`(?i)^(\d{1,2}/\d{1,2}/\d{2,4}),\s+(\d{1,2}:\d{2}\s*[ap]m)\s+-\s+([^:]+?):\s+(.*)$`)

var specialSpaces = strings.NewReplacer("\u00a0", " ", "\u202f", " ")

// normalizeSpaces converts non-breaking and narrow no-break spaces to ASCII spaces.
func normalizeSpaces(s string) string {
	return specialSpaces.Replace(s)
}

// splitLines splits on \n, \r\n and bare \r.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// Parse assembles the messages of an exported chat transcript.
//
// Lines starting with "D/M/Y, H:MM am - Sender: text" open a new message;
// any other non-empty line is appended to the open message. System notices
// and media placeholders are dropped. A header whose date or time cannot be
// resolved is skipped and reported in Result.Warnings; it never aborts the parse.
func Parse(text string) Result {
	res := Result{Messages: []Message{}}
	var current *Message

	flush := func() {
		if current != nil {
			res.Messages = append(res.Messages, *current)
			current = nil
		}
	}

	for i, raw := range splitLines(text) {
		line := normalizeSpaces(strings.TrimSpace(raw))
		if line == "" {
			continue
		}

		m := headerRe.FindStringSubmatch(line)
		if m == nil {
			if current != nil {
				current.Content += LineBreak + strings.TrimSpace(line)
			}
			continue
		}

		flush()

		dateStr, timeStr, sender, content := m[1], m[2], m[3], m[4]
		sender = strings.TrimSpace(sender)
		if sender == "" || isSystemNotice(sender, content) {
			continue
		}

		timeStr = strings.TrimSpace(strings.ToLower(normalizeSpaces(timeStr)))
		ts, err := resolveTimestamp(dateStr, timeStr)
		if err != nil {
			res.Warnings = append(res.Warnings, &LineError{Line: i + 1, Raw: line, Err: err})
			continue
		}

		current = &Message{
			Timestamp: ts,
			Date:      ts.Format(dateLayout),
			Time:      timeStr,
			Sender:    sender,
			Content:   strings.TrimSpace(content),
		}
	}
	flush()

	return res
}
