package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/tidwall/match"

	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/engine/codec"
	"github.com/dshills/textcore/internal/logging"
)

// Config holds the textcore settings.
type Config struct {
	Engine    EngineConfig `toml:"engine" yaml:"engine"`
	Log       LogConfig    `toml:"log" yaml:"log"`
	Overrides []Override   `toml:"overrides" yaml:"overrides"`
}

// EngineConfig holds engine settings and the attributes of new documents.
type EngineConfig struct {
	BlockSize     int    `toml:"block_size" yaml:"block_size"`
	MaxLoadSize   int64  `toml:"max_load_size" yaml:"max_load_size"`
	UndoLimit     int    `toml:"undo_limit" yaml:"undo_limit"` // 0 means unlimited
	LegacyCharset string `toml:"legacy_charset" yaml:"legacy_charset"`
	Encoding      string `toml:"encoding" yaml:"encoding"`
	EOL           string `toml:"eol" yaml:"eol"`
	BOM           bool   `toml:"bom" yaml:"bom"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	File   string `toml:"file" yaml:"file"` // empty means stderr
}

// Override sets attributes for new documents whose name matches Pattern.
// Empty fields keep the value inherited from the engine defaults or an
// earlier override.
type Override struct {
	Pattern  string `toml:"pattern" yaml:"pattern"`
	Encoding string `toml:"encoding" yaml:"encoding"`
	EOL      string `toml:"eol" yaml:"eol"`
	BOM      *bool  `toml:"bom" yaml:"bom"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			BlockSize:     engine.DefaultBlockSize,
			MaxLoadSize:   engine.DefaultMaxLoadSize,
			UndoLimit:     engine.DefaultUndoLimit,
			LegacyCharset: codec.Latin1.Name(),
			Encoding:      codec.UTF8.String(),
			EOL:           codec.LF.String(),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks config values and resets invalid ones to defaults.
// The returned error lists every reset; the config is usable either way.
func (c *Config) Validate() error {
	defaults := Default()
	var errs []error
	reset := func(path string, value any, msg string) {
		errs = append(errs, &ValidationError{Path: path, Value: value, Message: msg})
	}

	e := &c.Engine
	if e.BlockSize <= 0 {
		reset("engine.block_size", e.BlockSize, "must be positive")
		e.BlockSize = defaults.Engine.BlockSize
	}
	if e.MaxLoadSize <= 0 {
		reset("engine.max_load_size", e.MaxLoadSize, "must be positive")
		e.MaxLoadSize = defaults.Engine.MaxLoadSize
	}
	if e.UndoLimit < 0 {
		reset("engine.undo_limit", e.UndoLimit, "must not be negative")
		e.UndoLimit = defaults.Engine.UndoLimit
	}
	if _, err := codec.CharsetTable(e.LegacyCharset); err != nil {
		reset("engine.legacy_charset", e.LegacyCharset, "unknown charset")
		e.LegacyCharset = defaults.Engine.LegacyCharset
	}
	if _, err := codec.ParseEncoding(e.Encoding); err != nil {
		reset("engine.encoding", e.Encoding, "unknown encoding")
		e.Encoding = defaults.Engine.Encoding
	}
	if _, err := codec.ParseLineEnding(e.EOL); err != nil {
		reset("engine.eol", e.EOL, "unknown line ending")
		e.EOL = defaults.Engine.EOL
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		reset("log.level", c.Log.Level, "unknown level")
		c.Log.Level = defaults.Log.Level
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		reset("log.format", c.Log.Format, "must be text or json")
		c.Log.Format = defaults.Log.Format
	}

	kept := c.Overrides[:0]
	for _, o := range c.Overrides {
		if o.Pattern == "" {
			reset("overrides.pattern", o.Pattern, "empty pattern, override dropped")
			continue
		}
		if o.Encoding != "" {
			if _, err := codec.ParseEncoding(o.Encoding); err != nil {
				reset("overrides["+o.Pattern+"].encoding", o.Encoding, "unknown encoding")
				o.Encoding = ""
			}
		}
		if o.EOL != "" {
			if _, err := codec.ParseLineEnding(o.EOL); err != nil {
				reset("overrides["+o.Pattern+"].eol", o.EOL, "unknown line ending")
				o.EOL = ""
			}
		}
		kept = append(kept, o)
	}
	c.Overrides = kept

	return errors.Join(errs...)
}

// DefaultAttributes returns the attributes configured for new documents.
func (c *Config) DefaultAttributes() codec.Attributes {
	a := codec.DefaultAttributes()
	if enc, err := codec.ParseEncoding(c.Engine.Encoding); err == nil {
		a.Encoding = enc
	}
	if eol, err := codec.ParseLineEnding(c.Engine.EOL); err == nil {
		a.EOL = eol
	}
	a.BOM = c.Engine.BOM
	return a
}

// AttributesFor returns the attributes for a new document named name.
// Overrides are applied in order; a pattern matches either the whole name
// or its base name, so "*.bat" matches "dir/run.bat".
func (c *Config) AttributesFor(name string) codec.Attributes {
	a := c.DefaultAttributes()
	base := filepath.Base(name)
	for _, o := range c.Overrides {
		if !match.Match(name, o.Pattern) && !match.Match(base, o.Pattern) {
			continue
		}
		if enc, err := codec.ParseEncoding(o.Encoding); err == nil {
			a.Encoding = enc
		}
		if eol, err := codec.ParseLineEnding(o.EOL); err == nil {
			a.EOL = eol
		}
		if o.BOM != nil {
			a.BOM = *o.BOM
		}
	}
	return a
}

// EngineOptions converts the engine settings into engine options.
func (c *Config) EngineOptions() []engine.Option {
	return []engine.Option{
		engine.WithBlockSize(c.Engine.BlockSize),
		engine.WithMaxLoadSize(c.Engine.MaxLoadSize),
		engine.WithUndoLimit(c.Engine.UndoLimit),
		engine.WithLegacyCharset(c.Engine.LegacyCharset),
		engine.WithAttributes(c.DefaultAttributes()),
	}
}

// LoggerConfig converts the log settings for logging.New. File is not
// opened here; the caller sets Output.
func (c *Config) LoggerConfig() logging.Config {
	lc := logging.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	return lc
}
