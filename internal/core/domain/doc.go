// Package domain defines the core domain model for tokclaim.
//
// Domain values are pure and carry no IO dependencies:
//
//   - Token: a normalized, case-insensitive single-use identifier
//   - ClaimResult, AddResult, RemoveResult: enumerated business outcomes
//   - Event: the audit record emitted for every store operation
//   - Errors: domain error codes for caller and infrastructure faults
//
// Business outcomes such as "already claimed" are ordinary values, never
// errors. Errors are reserved for invalid input and infrastructure faults.
package domain
