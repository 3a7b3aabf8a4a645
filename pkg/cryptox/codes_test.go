package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateBackupCodes(t *testing.T) {
	codes, err := GenerateBackupCodes(10)
	require.NoError(t, err)
	require.Len(t, codes, 10)

	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		require.Len(t, code, 11, "formatted code should be XXXXX-XXXXX")
		require.Equal(t, byte('-'), code[5])

		for _, ch := range strings.ReplaceAll(code, "-", "") {
			require.Contains(t, "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567", string(ch),
				"codes use the base32 alphabet")
		}

		require.NotContains(t, seen, code, "duplicate backup code generated")
		seen[code] = true
	}
}

func TestNormalizeBackupCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"canonical form", "ABCDE-23456", "ABCDE23456"},
		{"lowercase", "abcde-23456", "ABCDE23456"},
		{"spaces", "  ABCDE 23456 ", "ABCDE23456"},
		{"no separator", "ABCDE23456", "ABCDE23456"},
		{"mixed separators", "ab-cde 234-56", "ABCDE23456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeBackupCode(tt.in))
		})
	}
}

func TestBackupCode_FingerprintRoundTrip(t *testing.T) {
	codes, err := GenerateBackupCodes(3)
	require.NoError(t, err)

	for _, code := range codes {
		stored := FingerprintToken(NormalizeBackupCode(code))

		// however the user types it back, the fingerprint matches
		typed := strings.ToLower(strings.ReplaceAll(code, "-", " "))
		require.Equal(t, stored, FingerprintToken(NormalizeBackupCode(typed)))
	}
}
