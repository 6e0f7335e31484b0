package security

import (
	"crypto/rand"
	"errors"
)

var (
	errNegativeLength   = errors.New("length must be non-negative")
	errEmptyAlphabet    = errors.New("alphabet must not be empty")
	errAlphabetTooLarge = errors.New("alphabet must have at most 256 characters")
)

// RandomString draws length characters from alphabet using crypto/rand.
// Bytes that would skew the distribution are rejected and redrawn.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case len(alphabet) == 0:
		return "", errEmptyAlphabet
	case len(alphabet) > 256:
		return "", errAlphabetTooLarge
	}

	size := len(alphabet)
	// Largest multiple of size that fits in a byte.
	limit := 256 - 256%size

	result := make([]byte, 0, length)
	buffer := make([]byte, length+length/2+1)
	for len(result) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		for _, value := range buffer {
			if int(value) >= limit {
				continue
			}
			result = append(result, alphabet[int(value)%size])
			if len(result) == length {
				break
			}
		}
	}
	return string(result), nil
}
