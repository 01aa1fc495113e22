package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// AppName names the directory under the user config dir.
const AppName = "textcore"

// DefaultFileName is the config file looked up by DefaultPath.
const DefaultFileName = "config.toml"

// EnvPrefix prefixes the environment variables read by ApplyEnv.
const EnvPrefix = "TEXTCORE_"

// Format is a config file syntax.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "toml"
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return FormatTOML, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// DefaultPath returns the config file in the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, DefaultFileName), nil
}

// Load reads the config file at path. A missing file is not an error and
// yields the defaults. The result is not validated.
func Load(path string) (*Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return Parse(path, data, format)
}

// Parse decodes data on top of the defaults. source names the data in
// errors.
func Parse(source string, data []byte, format Format) (*Config, error) {
	cfg := Default()
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			pe := &ParseError{Path: source, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				pe.Line, pe.Column = derr.Position()
			}
			return nil, pe
		}
	}
	return cfg, nil
}

// ApplyEnv overrides settings from TEXTCORE_* variables found by lookup,
// usually os.LookupEnv. Malformed numbers are reported and skipped.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, set func(int64)) {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return
		}
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			return
		}
		set(n)
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("LOG_FILE", &c.Log.File)
	str("LEGACY_CHARSET", &c.Engine.LegacyCharset)
	str("ENCODING", &c.Engine.Encoding)
	str("EOL", &c.Engine.EOL)
	num("BLOCK_SIZE", func(n int64) { c.Engine.BlockSize = int(n) })
	num("MAX_LOAD_SIZE", func(n int64) { c.Engine.MaxLoadSize = n })
	num("UNDO_LIMIT", func(n int64) { c.Engine.UndoLimit = int(n) })

	return errors.Join(errs...)
}
