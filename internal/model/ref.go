package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

const (
	refLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	refDigits  = "0123456789"
)

// maxRefAttempts bounds collision retries in GenerateRef.
const maxRefAttempts = 1000

var refRegex = regexp.MustCompile(`^[A-Z0-9]{2,12}$`)

// ValidateRef checks that a ref is short upper-case alphanumeric text.
func ValidateRef(ref string) error {
	if !refRegex.MatchString(ref) {
		return fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return nil
}

// GenerateRef creates a ref of two letters and two digits (e.g. QH29)
// that does not collide with any ref for which taken returns true.
func GenerateRef(taken func(string) bool) (string, error) {
	for i := 0; i < maxRefAttempts; i++ {
		letters, err := randomFrom(refLetters, 2)
		if err != nil {
			return "", fmt.Errorf("failed to generate ref: %w", err)
		}
		digits, err := randomFrom(refDigits, 2)
		if err != nil {
			return "", fmt.Errorf("failed to generate ref: %w", err)
		}
		ref := letters + digits
		if taken == nil || !taken(ref) {
			return ref, nil
		}
	}
	return "", fmt.Errorf("failed to generate ref: %w", ErrDuplicateRef)
}

// randomFrom draws length characters uniformly from charset.
func randomFrom(charset string, length int) (string, error) {
	result := make([]byte, length)
	max := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}

	return string(result), nil
}
