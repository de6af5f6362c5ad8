// Package stable provides the deterministic content hash used as record IDs.
package stable

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// IDLen is the length of the hex digest kept for an ID. Truncating SHA-256 to
// 16 hex chars (64 bits) keeps IDs compact; collisions are practically, not
// provably, absent at this dataset's scale.
const IDLen = 16

// ID joins the non-empty trimmed parts with "|", hashes the result with
// SHA-256 and returns the first IDLen hex characters. Identical inputs always
// yield the identical ID, which makes re-collection idempotent.
func ID(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kept = append(kept, p)
	}
	sum := sha256.Sum256([]byte(strings.Join(kept, "|")))
	return hex.EncodeToString(sum[:])[:IDLen]
}
