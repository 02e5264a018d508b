// Package config handles configuration loading for pinsync.
//
// # Overview
//
// Configuration is loaded from a YAML file with environment variable
// expansion. Every setting has a usable default, so a missing file is not an
// error — the tool runs with the public timeline endpoint, the per-user data
// directory, and a one-month retention window.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from PINSYNC_CONFIG environment variable
//  2. ~/.config/pinsync/config.yaml (os.UserConfigDir based)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	timeline:
//	  token: "${PINSYNC_TOKEN}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Remote timeline API:
//
//	timeline:
//	  api_url: "https://timeline-api.rebble.io"
//	  token: "${PINSYNC_TOKEN}"
//
// Local pin mirror:
//
//	store:
//	  dir: "~/.config/pebble-timeline"   # defaults to the per-user data dir
//	  retention_months: 1
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
