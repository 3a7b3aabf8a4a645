package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"strings"
)

const (
	backupCodeBytes  = 8
	backupCodeLength = 10
)

// GenerateBackupCodes creates count one-time backup codes in the human-readable
// form XXXXX-XXXXX (base32 alphabet). Callers store fingerprints of the
// normalized codes, never the codes themselves.
func GenerateBackupCodes(count int) ([]string, error) {
	codes := make([]string, 0, count)
	for len(codes) < count {
		code, err := generateBackupCode()
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func generateBackupCode() (string, error) {
	// 10 base32 chars -> 50 bits, enough for single-use codes.
	buf := make([]byte, backupCodeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	if len(raw) < backupCodeLength {
		return "", errors.New("backup code generation failed")
	}
	code := raw[:backupCodeLength]
	return code[:5] + "-" + code[5:], nil
}

// NormalizeBackupCode uppercases and strips whitespace and dashes so user input
// matches the generated form however it was transcribed.
func NormalizeBackupCode(raw string) string {
	val := strings.ToUpper(strings.TrimSpace(raw))
	val = strings.ReplaceAll(val, " ", "")
	val = strings.ReplaceAll(val, "-", "")
	return val
}
