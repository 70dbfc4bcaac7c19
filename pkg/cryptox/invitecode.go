package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// InviteCodeAlphabet excludes visually ambiguous characters (O, 0) so codes
// stay human-typeable when read off an email or said over the phone.
const InviteCodeAlphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"

// InviteCodeLength gives ~1.6e12 combinations over the alphabet, which makes
// blind guessing impractical. Uniqueness is still enforced by the store;
// issuers re-roll on collision rather than assuming it never happens.
const InviteCodeLength = 8

// GenerateInviteCode returns a short random invitation code drawn from
// InviteCodeAlphabet using crypto/rand.
func GenerateInviteCode() (string, error) {
	var b strings.Builder
	b.Grow(InviteCodeLength)

	max := big.NewInt(int64(len(InviteCodeAlphabet)))
	for range InviteCodeLength {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate invite code: %w", err)
		}
		b.WriteByte(InviteCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// ValidInviteCode reports whether s has the shape of an invitation code.
// Codes are compared case-insensitively; lowercase input is accepted.
func ValidInviteCode(s string) bool {
	if len(s) != InviteCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(InviteCodeAlphabet, rune(toUpperASCII(s[i]))) {
			return false
		}
	}
	return true
}

// NormalizeInviteCode uppercases a code for lookup.
func NormalizeInviteCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func toUpperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}
