// Package config loads the tokclaim-cli profile.
//
// The profile (~/.tokclaim/cli.yaml unless --config names another file)
// holds connection defaults so they need not be repeated on every call:
//
//	server: tokclaim.internal:5080
//	api_key_id: admin
//	api_key: <secret>
//	output: json
//
// TOKCLAIM_CLI_ environment variables override the file, and command-line
// flags override both.
package config
