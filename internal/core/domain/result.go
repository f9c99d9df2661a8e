// Package domain defines the core domain model for tokclaim.
package domain

import "fmt"

// ClaimResult is the outcome of a claim attempt.
type ClaimResult uint8

const (
	ClaimUnspecified ClaimResult = iota
	// Claimed means the token was allowed, unclaimed, and is now claimed.
	Claimed
	// AlreadyClaimed means the token was consumed by an earlier claim.
	AlreadyClaimed
	// NotAllowed means the token is not on the allow-list.
	NotAllowed
)

var claimResultNames = map[ClaimResult]string{
	ClaimUnspecified: "unspecified",
	Claimed:          "claimed",
	AlreadyClaimed:   "already_claimed",
	NotAllowed:       "not_allowed",
}

// String returns the wire name of the result.
func (r ClaimResult) String() string {
	if s, ok := claimResultNames[r]; ok {
		return s
	}
	return fmt.Sprintf("claim_result(%d)", uint8(r))
}

// Message returns the user-facing message category for the result.
func (r ClaimResult) Message() string {
	switch r {
	case Claimed:
		return "verified: access granted"
	case AlreadyClaimed:
		return "this token has already been used"
	case NotAllowed:
		return "this token is not in the allowed list"
	default:
		return "unknown claim result"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r ClaimResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ClaimResult) UnmarshalText(b []byte) error {
	for k, v := range claimResultNames {
		if v == string(b) {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown claim result %q", b)
}

// AddResult is the outcome of adding a token to the allow-list.
type AddResult uint8

const (
	AddUnspecified AddResult = iota
	Added
	AlreadyPresent
)

var addResultNames = map[AddResult]string{
	AddUnspecified: "unspecified",
	Added:          "added",
	AlreadyPresent: "already_present",
}

func (r AddResult) String() string {
	if s, ok := addResultNames[r]; ok {
		return s
	}
	return fmt.Sprintf("add_result(%d)", uint8(r))
}

// Message returns the admin-facing message category for the result.
func (r AddResult) Message() string {
	switch r {
	case Added:
		return "token added to the allow-list"
	case AlreadyPresent:
		return "token is already in the allow-list"
	default:
		return "unknown add result"
	}
}

func (r AddResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *AddResult) UnmarshalText(b []byte) error {
	for k, v := range addResultNames {
		if v == string(b) {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown add result %q", b)
}

// RemoveResult is the outcome of removing a token from the allow-list.
type RemoveResult uint8

const (
	RemoveUnspecified RemoveResult = iota
	Removed
	NotFound
)

var removeResultNames = map[RemoveResult]string{
	RemoveUnspecified: "unspecified",
	Removed:           "removed",
	NotFound:          "not_found",
}

func (r RemoveResult) String() string {
	if s, ok := removeResultNames[r]; ok {
		return s
	}
	return fmt.Sprintf("remove_result(%d)", uint8(r))
}

// Message returns the admin-facing message category for the result.
func (r RemoveResult) Message() string {
	switch r {
	case Removed:
		return "token removed from the allow-list"
	case NotFound:
		return "token was not found in the allow-list"
	default:
		return "unknown remove result"
	}
}

func (r RemoveResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *RemoveResult) UnmarshalText(b []byte) error {
	for k, v := range removeResultNames {
		if v == string(b) {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown remove result %q", b)
}

// Set selects one of the two token sets owned by the claim store.
type Set uint8

const (
	SetAllowed Set = iota + 1
	SetClaimed
)

func (s Set) String() string {
	switch s {
	case SetAllowed:
		return "allowed"
	case SetClaimed:
		return "claimed"
	default:
		return fmt.Sprintf("set(%d)", uint8(s))
	}
}
