package transcript

import (
	"strings"

	"golang.org/x/text/cases"
)

const (
	encryptionNotice = "end-to-end encrypted"
	systemSender     = "messages and calls"
)

// isSystemNotice reports whether a header belongs to a line the exporter
// generates itself rather than a message someone sent.
func isSystemNotice(sender, content string) bool {
	return containsFold(content, encryptionNotice) ||
		containsFold(sender, systemSender) ||
		strings.TrimSpace(content) == MediaOmitted
}

// containsFold reports whether substr is within s under Unicode case folding.
func containsFold(s, substr string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(s), fold.String(substr))
}
