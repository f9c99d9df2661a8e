// Package config provides server configuration for tokclaim.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//   - sanitize.go: masking of secrets before logging
//   - load.go: file and environment loading via internal/infra/confloader
package config
