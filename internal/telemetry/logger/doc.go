// Package logger provides structured logging for tokclaim.
//
// It wraps log/slog:
//
//   - logger.go: handler setup, dynamic level, package-level helpers
//   - context.go: context propagation of loggers and request IDs
//   - redact.go: email masking and secret redaction
//
// Application logs never carry a full token: email-shaped values are
// masked to their first character and domain. The audit trail is written
// by package audit and keeps tokens intact.
package logger
