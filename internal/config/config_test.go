package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/engine/codec"
)

const sampleTOML = `
[engine]
block_size = 4096
undo_limit = 50
legacy_charset = "windows-1252"
encoding = "utf-16le"
eol = "crlf"
bom = true

[log]
level = "debug"
format = "json"

[[overrides]]
pattern = "*.sh"
eol = "lf"
bom = false

[[overrides]]
pattern = "legacy/*"
encoding = "latin1"
`

const sampleYAML = `
engine:
  block_size: 4096
  undo_limit: 50
  legacy_charset: windows-1252
  encoding: utf-16le
  eol: crlf
  bom: true
log:
  level: debug
  format: json
overrides:
  - pattern: "*.sh"
    eol: lf
    bom: false
  - pattern: "legacy/*"
    encoding: latin1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func boolPtr(b bool) *bool { return &b }

func TestLoadFormats(t *testing.T) {
	want := &Config{
		Engine: EngineConfig{
			BlockSize:     4096,
			MaxLoadSize:   engine.DefaultMaxLoadSize,
			UndoLimit:     50,
			LegacyCharset: "windows-1252",
			Encoding:      "utf-16le",
			EOL:           "crlf",
			BOM:           true,
		},
		Log: LogConfig{Level: "debug", Format: "json"},
		Overrides: []Override{
			{Pattern: "*.sh", EOL: "lf", BOM: boolPtr(false)},
			{Pattern: "legacy/*", Encoding: "latin1"},
		},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", sampleTOML},
		{"yaml", "config.yaml", sampleYAML},
		{"yml", "config.yml", sampleYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatal(err)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("valid config rejected: %v", err)
			}
			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("missing file did not yield defaults (-want +got):\n%s", diff)
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	if _, err := Load("config.ini"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("error = %v, want ErrUnknownFormat", err)
	}
}

func TestParseError(t *testing.T) {
	_, err := Parse("bad.toml", []byte("[engine]\nblock_size = = 3\n"), FormatTOML)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Path != "bad.toml" || pe.Line != 2 {
		t.Errorf("parse error = %+v, want bad.toml line 2", pe)
	}

	_, err = Parse("bad.yaml", []byte("engine: [unclosed\n"), FormatYAML)
	if !errors.As(err, &pe) || pe.Path != "bad.yaml" {
		t.Errorf("yaml error = %v, want *ParseError for bad.yaml", err)
	}
}

func TestValidateResetsInvalid(t *testing.T) {
	cfg := Default()
	cfg.Engine.BlockSize = -1
	cfg.Engine.UndoLimit = -5
	cfg.Engine.LegacyCharset = "klingon"
	cfg.Engine.EOL = "sideways"
	cfg.Log.Level = "loud"
	cfg.Overrides = []Override{
		{Pattern: "", EOL: "crlf"},
		{Pattern: "*.x", Encoding: "ebcdic", EOL: "cr"},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("error %v does not wrap *ValidationError", err)
	}
	for _, path := range []string{"engine.block_size", "engine.undo_limit", "engine.legacy_charset", "engine.eol", "log.level", "overrides[*.x].encoding"} {
		if !strings.Contains(err.Error(), path) {
			t.Errorf("error does not mention %s:\n%v", path, err)
		}
	}

	want := Default()
	want.Overrides = []Override{{Pattern: "*.x", EOL: "cr"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("validated config mismatch (-want +got):\n%s", diff)
	}
}

func TestAttributesFor(t *testing.T) {
	cfg, err := Parse("sample.toml", []byte(sampleTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want codec.Attributes
	}{
		{"notes.txt", codec.Attributes{Encoding: codec.UTF16LE, BOM: true, EOL: codec.CRLF}},
		{"scripts/build.sh", codec.Attributes{Encoding: codec.UTF16LE, BOM: false, EOL: codec.LF}},
		{"legacy/readme", codec.Attributes{Encoding: codec.Legacy, BOM: true, EOL: codec.CRLF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, cfg.AttributesFor(tt.name)); diff != "" {
				t.Errorf("attributes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	cfg, err := Parse("sample.toml", []byte(sampleTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	e := engine.New(cfg.EngineOptions()...)

	want := codec.Attributes{Encoding: codec.UTF16LE, BOM: true, EOL: codec.CRLF}
	if diff := cmp.Diff(want, e.Attributes()); diff != "" {
		t.Errorf("attributes mismatch (-want +got):\n%s", diff)
	}

	// windows-1252 maps 0x80 to the euro sign.
	if err := e.LoadBytes([]byte{0x80}); err != nil {
		t.Fatal(err)
	}
	if e.Text() != "\u20ac" {
		t.Errorf("legacy charset not applied: %q", e.Text())
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TEXTCORE_LOG_LEVEL":  "error",
		"TEXTCORE_UNDO_LIMIT": "7",
		"TEXTCORE_BLOCK_SIZE": "lots",
		"TEXTCORE_EOL":        "cr",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	err := cfg.ApplyEnv(lookup)
	if err == nil || !strings.Contains(err.Error(), "TEXTCORE_BLOCK_SIZE") {
		t.Errorf("error = %v, want complaint about TEXTCORE_BLOCK_SIZE", err)
	}
	if cfg.Log.Level != "error" || cfg.Engine.UndoLimit != 7 || cfg.Engine.EOL != "cr" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Engine.BlockSize != engine.DefaultBlockSize {
		t.Errorf("malformed block size applied: %d", cfg.Engine.BlockSize)
	}
}
