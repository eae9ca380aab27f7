package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Fingerprint derives a stable page identity from a URL. Only the lowercased
// host and path participate: query parameters and fragments carry session
// state that would fragment the learned record across visits to the same
// page shape. Non-URL input is hashed as-is.
func Fingerprint(raw string) string {
	input := raw
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		input = strings.ToLower(u.Host) + strings.TrimRight(u.Path, "/")
	}
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])[:12]
}
