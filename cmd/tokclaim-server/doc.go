// Package main provides the entry point for tokclaim-server.
//
// The server owns the claim store and exposes it over HTTP:
//
//   - POST /v1/claims for verifiers
//   - allow-list administration under /admin/v1
//   - health, readiness and Prometheus metrics
//
// Usage:
//
//	tokclaim-server [flags]
//	tokclaim-server --config /etc/tokclaim/config.yaml
//
// Every setting can also be given as a TOKCLAIM_ environment variable,
// with "__" separating nested keys (TOKCLAIM_LOG__LEVEL=debug).
package main
