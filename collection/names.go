package collection

import (
	"strings"

	"github.com/poiesic/askbase/core"
)

// maxSessionKeyLen caps the sanitized session portion of a collection name.
// Qdrant collection names have no hard limit, but keeping them short keeps
// logs and the registry readable.
const maxSessionKeyLen = 32

// SanitizeSession strips non-alphanumeric characters from a session token
// and caps its length. The result is safe to embed in a collection name.
func SanitizeSession(session string) string {
	var b strings.Builder
	b.Grow(len(session))
	for _, r := range session {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	sanitized := b.String()
	if len(sanitized) > maxSessionKeyLen {
		sanitized = sanitized[:maxSessionKeyLen]
	}
	return sanitized
}

// collectionName derives the deterministic collection name for a session.
// Sanitization is lossy, so a content hash of the raw token is appended to
// keep sessions that sanitize to the same string from sharing a collection.
func collectionName(baseName, session string) string {
	return baseName + "_" + SanitizeSession(session) + "_" + core.KeyFromContent(session).String()
}
