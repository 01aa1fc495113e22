package engine

import (
	"github.com/dshills/textcore/internal/engine/codec"
	"github.com/dshills/textcore/internal/engine/gapbuf"
	"github.com/dshills/textcore/internal/logging"
)

// Default configuration values.
const (
	DefaultBlockSize   = gapbuf.DefaultBlockSize
	DefaultMaxLoadSize = 1<<31 - 1
	DefaultUndoLimit   = 0 // unlimited
)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithContent sets the initial text of the engine. The text is taken as
// already decoded; CR LF and CR are normalized to LF.
func WithContent(content string) Option {
	return func(e *Engine) {
		e.initContent = content
	}
}

// WithBlockSize sets the gap buffer growth granularity.
func WithBlockSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.blockSize = size
		}
	}
}

// WithMaxLoadSize sets the largest input LoadBytes and LoadContext accept.
func WithMaxLoadSize(size int64) Option {
	return func(e *Engine) {
		if size > 0 {
			e.maxLoadSize = size
		}
	}
}

// WithUndoLimit caps the number of undoable actions. Zero means unlimited.
func WithUndoLimit(limit int) Option {
	return func(e *Engine) {
		if limit >= 0 {
			e.undoLimit = limit
		}
	}
}

// WithAttributes sets the attributes of the initial document.
func WithAttributes(a codec.Attributes) Option {
	return func(e *Engine) {
		e.attrs = a
	}
}

// WithLegacyCharset selects the single-byte charset used for documents that
// are not valid UTF-8. Unknown names are ignored and Latin-1 is kept.
func WithLegacyCharset(name string) Option {
	return func(e *Engine) {
		if t, err := codec.CharsetTable(name); err == nil {
			e.legacy = t
		}
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}
