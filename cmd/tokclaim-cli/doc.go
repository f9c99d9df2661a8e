// Package main provides the entry point for tokclaim-cli.
//
// The CLI talks to a running tokclaim-server over HTTP:
//
//   - claim tokens on behalf of a requester
//   - manage and bulk-import the allow-list
//   - inspect tokens and server status
//   - hash API key secrets and generate storage encryption keys
//
// Usage:
//
//	tokclaim-cli [global flags] command [flags] [args]
//	tokclaim-cli --server localhost:5080 -k admin -K secret allow add user@example.com
//	tokclaim-cli -o json claims list
package main
