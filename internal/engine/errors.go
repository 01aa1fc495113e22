package engine

import (
	"errors"
	"fmt"

	"github.com/dshills/textcore/internal/engine/gapbuf"
	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/engine/search"
)

// Errors returned by engine operations.
var (
	// ErrOffsetOutOfRange indicates an offset or length outside the text.
	ErrOffsetOutOfRange = gapbuf.ErrOutOfRange

	// ErrNoOpenAction indicates an edit without a prior StartAction.
	ErrNoOpenAction = history.ErrNoOpenAction

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = history.ErrNothingToRedo

	// ErrNotFound indicates a search found no match.
	ErrNotFound = search.ErrNotFound

	// ErrTooLarge indicates input beyond the configured load limit.
	ErrTooLarge = errors.New("input too large")
)

// PatternError reports a regular expression that failed to compile.
type PatternError = search.PatternError

// LoadError reports a load that was refused. The document is unchanged.
type LoadError struct {
	Size  int64 // bytes read before giving up
	Limit int64
	Err   error
}

func (e *LoadError) Error() string {
	if errors.Is(e.Err, ErrTooLarge) {
		return fmt.Sprintf("load: %d bytes exceeds limit of %d", e.Size, e.Limit)
	}
	return fmt.Sprintf("load: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
