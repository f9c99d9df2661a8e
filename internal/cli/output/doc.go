// Package output provides output formatting for tokclaim-cli.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: table rendering with wide mode support
//   - json.go: JSON output
//   - yaml.go: YAML output
//   - progress.go: progress bar for bulk operations
package output
