package secret

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// DefaultLength is the default secret length in bytes.
const DefaultLength = 32

// Generate returns a random secret of DefaultLength bytes, Base64 RawURL
// encoded so it can be passed in headers and shell arguments unquoted.
func Generate() (string, error) {
	return GenerateWithLength(DefaultLength)
}

// GenerateWithLength returns a random Base64 RawURL secret of length bytes.
func GenerateWithLength(length int) (string, error) {
	b, err := GenerateBytes(length)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateHexKey returns a random key of size bytes, hex encoded. Size
// must be an AES key size (16, 24 or 32).
func GenerateHexKey(size int) (string, error) {
	switch size {
	case 16, 24, 32:
	default:
		return "", fmt.Errorf("secret: key size %d, want 16, 24 or 32", size)
	}
	b, err := GenerateBytes(size)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateBytes returns length random bytes.
func GenerateBytes(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("secret: invalid length %d", length)
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
