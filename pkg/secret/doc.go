// Package secret generates random secrets for tokclaim configuration:
// API key secrets (base64url) and storage encryption keys (hex).
package secret
