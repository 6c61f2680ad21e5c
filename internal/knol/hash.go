package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/kanadrill/internal/domain"
)

// Normalize joins the item's sides after trimming whitespace and normalizing
// line endings. Case is preserved since answers are matched case-sensitively.
func Normalize(item domain.Item) string {
	normalizePart := func(part string) string {
		p := strings.TrimSpace(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	// A separator keeps "ab"+"c" and "a"+"bc" apart.
	return normalizePart(item.Front) + "\n" + normalizePart(item.Back)
}

// Hash returns the SHA-256 of the normalized item as a hex string.
func Hash(item domain.Item) string {
	hashBytes := sha256.Sum256([]byte(Normalize(item)))
	return fmt.Sprintf("%x", hashBytes)
}
