package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateInviteCode(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		code, err := GenerateInviteCode()
		require.NoError(t, err)
		require.Len(t, code, InviteCodeLength)
		for _, c := range code {
			require.Contains(t, InviteCodeAlphabet, string(c))
		}
		seen[code] = struct{}{}
	}

	// 100 draws from ~1.6e12 combinations should never collide.
	require.Len(t, seen, 100)
}

func TestInviteCodeExcludesAmbiguousCharacters(t *testing.T) {
	t.Parallel()

	require.NotContains(t, InviteCodeAlphabet, "O")
	require.NotContains(t, InviteCodeAlphabet, "0")
}

func TestValidInviteCode(t *testing.T) {
	t.Parallel()

	code, err := GenerateInviteCode()
	require.NoError(t, err)

	require.True(t, ValidInviteCode(code))
	require.True(t, ValidInviteCode(strings.ToLower(code)))
	require.False(t, ValidInviteCode("SHORT"))
	require.False(t, ValidInviteCode("OOOOOOOO")) // ambiguous char excluded
	require.False(t, ValidInviteCode("ABC!DEFG"))
}

func TestNormalizeInviteCode(t *testing.T) {
	t.Parallel()

	require.Equal(t, "ABCD1234", NormalizeInviteCode("  abcd1234 "))
}
