// Package confloader loads configuration with koanf and watches the
// configuration file with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Environment variables (TOKCLAIM_ prefix)
//  2. Configuration file (YAML)
//  3. Values already present in the target struct (defaults)
//
// Environment keys use a double underscore as the nesting separator so
// that single underscores survive inside key names:
//
//	TOKCLAIM_STORAGE__DATA_DIR=/var/lib/tokclaim  ->  storage.data_dir
package confloader
