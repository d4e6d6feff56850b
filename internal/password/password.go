// Package password generates the throwaway credentials used when the
// importer provisions API accounts.
package password

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "-_@#$%"

	// MinLength is the floor every generated password is clamped to.
	MinLength = 8
	// DefaultLength is used when callers have no length requirement of their own.
	DefaultLength = 16
)

var alphabet = lowercase + uppercase + digits + symbols

// Generate returns a random password of the requested length containing at
// least one lowercase letter, one uppercase letter, one digit and one symbol.
// Lengths below MinLength are clamped up. All randomness comes from
// crypto/rand.
func Generate(length int) (string, error) {
	if length < MinLength {
		length = MinLength
	}

	chars := make([]byte, 0, length)
	for _, class := range []string{lowercase, uppercase, digits, symbols} {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	for len(chars) < length {
		c, err := pick(alphabet)
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}

	// Fisher-Yates so the guaranteed classes do not cluster at the front.
	for i := len(chars) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", fmt.Errorf("shuffle password: %w", err)
		}
		k := int(j.Int64())
		chars[i], chars[k] = chars[k], chars[i]
	}

	return string(chars), nil
}

func pick(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, fmt.Errorf("generate password: %w", err)
	}
	return set[n.Int64()], nil
}
