// Package command provides CLI command definitions for tokclaim-cli.
//
// Commands are defined with urfave/cli/v2:
//
//   - root.go: application, global flags, output rendering
//   - claim.go: claim a token
//   - allow.go: allow-list management and bulk import
//   - inspect.go: claimed set listing and token inspection
//   - system.go: health and status
//   - secret.go: API key secret hashing and key generation
//
// Commands that talk to the server write their result through the
// selected formatter (table, json or yaml) on the app writer.
package command
