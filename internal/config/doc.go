// Package config loads textcore settings.
//
// Settings live in a single file, TOML or YAML chosen by extension:
//
//	[engine]
//	block_size = 10240
//	undo_limit = 500
//	legacy_charset = "windows-1252"
//	encoding = "utf-8"
//	eol = "lf"
//
//	[log]
//	level = "debug"
//
//	[[overrides]]
//	pattern = "*.bat"
//	eol = "crlf"
//
// A missing file yields the defaults. Invalid values are reset to their
// defaults by Validate, which reports what it changed. Environment
// variables prefixed with TEXTCORE_ take precedence over the file.
//
// Overrides give per-file attributes for new documents; loaded documents
// keep what the codec detects.
package config
