// Package domain defines the core domain model for tokclaim.
package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxTokenLen is the longest canonical token in bytes, the practical
// upper bound on an email address.
const MaxTokenLen = 254

// Token is a canonical token: trimmed, lowercased, free of whitespace.
//
// The zero value is not a valid token. Values should be produced by
// Normalize; equality between two Tokens is plain string equality.
type Token string

// String returns the token text.
func (t Token) String() string {
	return string(t)
}

// Normalize maps raw input to its canonical Token.
//
// Leading and trailing whitespace (including zero-width edge characters)
// is removed and the remainder is lowercased. The result must be non-empty
// and must not contain whitespace or control characters, since tokens are
// persisted one per line. The length limit applies to the lowercased form,
// which can be longer in bytes than the input.
func Normalize(raw string) (Token, error) {
	s := strings.ToLower(strings.TrimFunc(raw, isEdgeSpace))
	if s == "" {
		return "", ErrInvalidToken.WithDetails("token is empty")
	}
	if len(s) > MaxTokenLen {
		return "", ErrInvalidToken.WithDetails(fmt.Sprintf("token exceeds %d bytes", MaxTokenLen))
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", ErrInvalidToken.WithDetails("token contains whitespace or control characters")
		}
	}
	return Token(s), nil
}

// MustNormalize is like Normalize but panics on invalid input.
// It is intended for constants and tests.
func MustNormalize(raw string) Token {
	t, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return t
}

// NormalizeAll normalizes a batch of raw values, collapsing duplicates and
// preserving first-seen order. Invalid values are returned separately.
func NormalizeAll(values []string) (tokens []Token, invalid []string) {
	seen := make(map[Token]struct{}, len(values))
	for _, raw := range values {
		t, err := Normalize(raw)
		if err != nil {
			if strings.TrimFunc(raw, isEdgeSpace) != "" {
				invalid = append(invalid, raw)
			}
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens, invalid
}

func isEdgeSpace(r rune) bool {
	return unicode.IsSpace(r) ||
		r == '\u200B' || // zero width space
		r == '\u200C' || // zero width non-joiner
		r == '\u200D' || // zero width joiner
		r == '\uFEFF' // byte order mark
}
