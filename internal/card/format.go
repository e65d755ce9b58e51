package card

import (
	"strings"
	"time"
)

// memberIDGroupSize is the chunk width used when segmenting member IDs for display.
const memberIDGroupSize = 4

// NoExpiryPlaceholder is rendered when a card has no expiry set.
const NoExpiryPlaceholder = "—"

// FormatMemberID renders a card identifier for display: non-alphanumeric
// characters are stripped, the remainder is uppercased and grouped into chunks
// of four joined by single spaces. The last chunk may be shorter.
func FormatMemberID(cardID string) string {
	var cleaned strings.Builder
	for _, r := range cardID {
		switch {
		case r >= '0' && r <= '9':
			cleaned.WriteRune(r)
		case r >= 'a' && r <= 'z':
			cleaned.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			cleaned.WriteRune(r)
		}
	}
	id := cleaned.String()
	if id == "" {
		return ""
	}
	var out strings.Builder
	for i := 0; i < len(id); i += memberIDGroupSize {
		if i > 0 {
			out.WriteByte(' ')
		}
		end := i + memberIDGroupSize
		if end > len(id) {
			end = len(id)
		}
		out.WriteString(id[i:end])
	}
	return out.String()
}

// FormatExpiry renders an expiry instant as two-digit month slash two-digit
// year. A nil expiry renders as a placeholder, never as an error.
func FormatExpiry(expiresAt *time.Time) string {
	if expiresAt == nil {
		return NoExpiryPlaceholder
	}
	return expiresAt.Format("01/06")
}
