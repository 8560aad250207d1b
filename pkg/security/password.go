package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// SaltLength is the fixed width of every stored salt.
	SaltLength = 32
	// ActivationCodeLength is the fixed width of account activation codes.
	ActivationCodeLength = 10

	minPasswordLength = 8
	maxPasswordLength = 25
)

// specialCharset is the closed set of special characters accepted by the
// password strength policy.
const specialCharset = "@#$%^&+=.!/?*-"

var activationCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// NewSalt produces a fresh salt drawn uniformly from the printable ASCII
// range. The salt is stored verbatim with the account.
func NewSalt() (string, error) {
	result := make([]rune, SaltLength)
	for i := 0; i < SaltLength; i++ {
		// printable ASCII spans 0x20..0x7e
		idx, err := randInt(95)
		if err != nil {
			return "", err
		}
		result[i] = rune(32 + idx)
	}
	return string(result), nil
}

// HashPassword derives the stored digest from a plaintext password and its
// salt. The derivation is deterministic: identical inputs always produce the
// identical hex digest, so verification is an equality check and the
// plaintext is never stored.
func HashPassword(salt, password string) string {
	sum := sha512.Sum512([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the plaintext matches the stored digest for
// the given salt, using a constant-time comparison.
func VerifyPassword(salt, password, storedHash string) bool {
	computed := HashPassword(salt, password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}

// CheckStrength applies the password policy: length within [8,25] and at
// least one lowercase letter, one uppercase letter, one digit and one special
// character. Empty input fails closed.
func CheckStrength(password string) bool {
	if password == "" {
		return false
	}
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(specialCharset, r):
			hasSpecial = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSpecial
}

// NewActivationCode produces a random alphanumeric code used by the account
// activation workflow.
func NewActivationCode() (string, error) {
	result := make([]rune, ActivationCodeLength)
	for i := 0; i < ActivationCodeLength; i++ {
		idx, err := randInt(len(activationCharset))
		if err != nil {
			return "", err
		}
		result[i] = activationCharset[idx]
	}
	return string(result), nil
}

// randInt draws uniformly from [0, max). A plain modulo would skew toward
// the low indices whenever 256 is not a multiple of max, so bytes past the
// largest multiple of max are redrawn.
func randInt(max int) (int, error) {
	if max <= 0 || max > 256 {
		return 0, fmt.Errorf("invalid max %d", max)
	}
	buff := make([]byte, 1)
	for {
		if _, err := rand.Read(buff); err != nil {
			return 0, err
		}
		if idx, ok := mapByte(buff[0], max); ok {
			return idx, nil
		}
	}
}

func mapByte(b byte, max int) (int, bool) {
	limit := 256 - 256%max
	if int(b) >= limit {
		return 0, false
	}
	return int(b) % max, true
}
