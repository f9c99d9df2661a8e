// Package tlsroots manages TLS material for both ends of the API:
//
//   - roots.go: system roots plus private CA files, for the CLI client
//   - reloader.go: server certificate hot-reload on file change
package tlsroots
