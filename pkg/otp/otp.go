// Package otp generates and checks numeric one-time codes.
// Codes are stored as SHA-256 hex digests and compared in constant time.
package otp

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	ErrInvalidLength = errors.New("otp length must be between 4 and 10")
	ErrMismatch      = errors.New("otp does not match")
)

const (
	DefaultLength = 6
	MinLength     = 4
	MaxLength     = 10
)

// Generate returns a uniformly random numeric code of the given length,
// zero padded (e.g. "004217").
func Generate(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", ErrInvalidLength
	}

	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}

	return fmt.Sprintf("%0*d", length, n), nil
}

// Hash returns the hex SHA-256 digest of the trimmed code.
func Hash(code string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(code)))
	return hex.EncodeToString(sum[:])
}

// Verify compares a plaintext code against a stored digest.
// An empty digest never matches.
func Verify(hash, code string) error {
	if hash == "" {
		return ErrMismatch
	}
	if subtle.ConstantTimeCompare([]byte(hash), []byte(Hash(code))) != 1 {
		return ErrMismatch
	}
	return nil
}
