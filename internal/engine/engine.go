package engine

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/engine/codec"
	"github.com/dshills/textcore/internal/engine/cursor"
	"github.com/dshills/textcore/internal/engine/gapbuf"
	"github.com/dshills/textcore/internal/engine/history"
	"github.com/dshills/textcore/internal/engine/motion"
	"github.com/dshills/textcore/internal/engine/search"
	"github.com/dshills/textcore/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// Selection is a caret or selected range.
	Selection = cursor.Selection

	// Point is a line/column position, used by block selections.
	Point = cursor.Point

	// Range is a half-open byte range.
	Range = cursor.Range

	// Attributes are the persisted per-document properties.
	Attributes = codec.Attributes

	// Encoding is an on-disk text encoding.
	Encoding = codec.Encoding

	// LineEnding is an on-disk line terminator convention.
	LineEnding = codec.LineEnding

	// Granularity selects the unit of cursor movement.
	Granularity = motion.Granularity

	// Query describes a search.
	Query = search.Query

	// Direction is a search direction.
	Direction = search.Direction

	// Result describes the effect of an undo or redo.
	Result = history.Result

	// ActionInfo summarizes an undo history entry.
	ActionInfo = history.ActionInfo
)

// Re-export constants.
const (
	UTF8    = codec.UTF8
	UTF16LE = codec.UTF16LE
	UTF16BE = codec.UTF16BE
	Legacy  = codec.Legacy

	LineEndingLF   = codec.LF
	LineEndingCRLF = codec.CRLF
	LineEndingCR   = codec.CR

	Char         = motion.Char
	WordKeyboard = motion.WordKeyboard
	WordMouse    = motion.WordMouse

	Forward  = search.Forward
	Backward = search.Backward
)

// Engine is the text buffer facade. It owns one gap buffer, its undo
// history and the document attributes, and is the only way they change.
//
// Engine is not safe for concurrent use. A host that edits from several
// goroutines must serialize the calls.
type Engine struct {
	// Core components
	buf     *gapbuf.Buffer
	codec   *codec.Codec
	history *history.History
	search  *search.Searcher

	attrs codec.Attributes
	id    uuid.UUID
	log   *logging.Logger

	// revision counts mutations, including undo and redo.
	revision uint64

	// State at the last load or MarkSaved.
	saved      history.Checkpoint
	savedAttrs codec.Attributes
	// unsaved is set once the text differs from the saved state and the
	// history can no longer lead back to it.
	unsaved bool

	// Configuration
	blockSize   int
	maxLoadSize int64
	undoLimit   int
	legacy      *codec.Table

	// Initialization
	initContent string
}

// New creates a new Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		attrs:       codec.DefaultAttributes(),
		blockSize:   DefaultBlockSize,
		maxLoadSize: DefaultMaxLoadSize,
		undoLimit:   DefaultUndoLimit,
		id:          uuid.New(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.log == nil {
		e.log = logging.Discard()
	}
	e.log = e.log.WithComponent("engine").With("doc", e.id.String())

	e.codec = codec.New(e.legacy)
	text, _ := codec.NormalizeEOL([]byte(e.initContent))
	e.buf = gapbuf.NewFromBytes(text, e.blockSize)
	e.history = history.New(e.undoLimit)
	e.search = search.New(e.buf)
	e.markSaved()

	return e
}

// ID returns the document id. It is stable for the engine's lifetime.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// ============================================================================
// Load / Save
// ============================================================================

// LoadBytes replaces the document with raw, detecting its encoding, BOM and
// line endings. Both undo stacks are cleared.
func (e *Engine) LoadBytes(raw []byte) error {
	if int64(len(raw)) > e.maxLoadSize {
		return &LoadError{Size: int64(len(raw)), Limit: e.maxLoadSize, Err: ErrTooLarge}
	}
	text, attrs := e.codec.Load(raw)
	e.install(text, attrs)
	return nil
}

// LoadContext reads r to the end and replaces the document with its
// content. If ctx is canceled or reading fails, the current document is
// left untouched.
func (e *Engine) LoadContext(ctx context.Context, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// One extra byte distinguishes "exactly at the limit" from "over".
	limit := e.maxLoadSize
	if limit < math.MaxInt64 {
		limit++
	}
	lr := io.LimitReader(&ctxReader{ctx: ctx, r: r}, limit)
	raw, err := io.ReadAll(lr)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &LoadError{Size: int64(len(raw)), Limit: e.maxLoadSize, Err: err}
	}
	if int64(len(raw)) > e.maxLoadSize {
		return &LoadError{Size: int64(len(raw)), Limit: e.maxLoadSize, Err: ErrTooLarge}
	}

	text, attrs, err := e.codec.LoadContext(ctx, raw)
	if err != nil {
		return err
	}
	e.install(text, attrs)
	return nil
}

// install swaps in a freshly decoded document in one step.
func (e *Engine) install(text []byte, attrs codec.Attributes) {
	e.buf.Reset(text)
	e.history.Clear()
	e.attrs = attrs
	e.revision++
	e.markSaved()
	e.log.Debug("loaded", "bytes", len(text), "attrs", attrs.String())
}

// SaveBytes encodes the document using its attributes. It does not change
// the undo history or the modified state; call MarkSaved once the bytes
// are safely stored.
func (e *Engine) SaveBytes() []byte {
	out := e.codec.Save(e.buf.Bytes(), e.attrs)
	e.log.Debug("encoded", "bytes", len(out), "attrs", e.attrs.String())
	return out
}

// WriteTo encodes the document to w.
func (e *Engine) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(e.SaveBytes())
	return int64(n), err
}

// MarkSaved closes the open action and records the current state as the
// saved one.
func (e *Engine) MarkSaved() {
	e.history.Close()
	e.markSaved()
	e.log.Debug("marked saved", "undo", e.history.UndoCount())
}

func (e *Engine) markSaved() {
	e.saved = e.history.Checkpoint()
	e.savedAttrs = e.attrs
	e.unsaved = false
}

// Modified reports whether the text or the attributes differ from the last
// load or MarkSaved. Undoing back to that state clears it again.
func (e *Engine) Modified() bool {
	return e.unsaved || e.history.Checkpoint() != e.saved || e.attrs != e.savedAttrs
}

// Revision returns a counter that changes on every mutation of the text.
func (e *Engine) Revision() uint64 {
	return e.revision
}

// ============================================================================
// Attributes
// ============================================================================

// Attributes returns the document attributes used by SaveBytes.
func (e *Engine) Attributes() Attributes {
	return e.attrs
}

// SetAttributes overrides all document attributes.
func (e *Engine) SetAttributes(a Attributes) {
	e.attrs = a
}

// SetEncoding sets the encoding used on save.
func (e *Engine) SetEncoding(enc Encoding) {
	e.attrs.Encoding = enc
}

// SetBOM sets whether a byte-order mark is written on save.
func (e *Engine) SetBOM(bom bool) {
	e.attrs.BOM = bom
}

// SetLineEnding sets the line terminator written on save.
func (e *Engine) SetLineEnding(le LineEnding) {
	e.attrs.EOL = le
}

// ============================================================================
// Read Operations
// ============================================================================

// Len returns the length of the text in bytes.
func (e *Engine) Len() int {
	return e.buf.Len()
}

// Text returns the full text.
func (e *Engine) Text() string {
	return e.buf.String()
}

// TextRange returns length bytes starting at offset.
func (e *Engine) TextRange(offset, length int) (string, error) {
	p, err := e.buf.Read(offset, length)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// CharAt returns the byte at offset.
func (e *Engine) CharAt(offset int) (byte, error) {
	if offset < 0 || offset >= e.buf.Len() {
		return 0, fmt.Errorf("char at %d (len %d): %w", offset, e.buf.Len(), ErrOffsetOutOfRange)
	}
	return e.buf.ByteAt(offset), nil
}

// NextCursorPosition returns the next stop after offset at granularity g.
// At the end of the text it returns the length.
func (e *Engine) NextCursorPosition(offset int, g Granularity) (int, error) {
	if err := e.checkOffset(offset); err != nil {
		return 0, err
	}
	return motion.NextStop(e.buf, offset, g), nil
}

// PreviousCursorPosition returns the previous stop before offset at
// granularity g. At the start of the text it returns 0.
func (e *Engine) PreviousCursorPosition(offset int, g Granularity) (int, error) {
	if err := e.checkOffset(offset); err != nil {
		return 0, err
	}
	return motion.PrevStop(e.buf, offset, g), nil
}

// WordAt returns the word around offset, as selected by a double click.
func (e *Engine) WordAt(offset int) (Range, error) {
	if err := e.checkOffset(offset); err != nil {
		return Range{}, err
	}
	start, end := motion.WordBounds(e.buf, offset)
	return Range{Start: start, End: end}, nil
}

func (e *Engine) checkOffset(offset int) error {
	if offset < 0 || offset > e.buf.Len() {
		return fmt.Errorf("offset %d (len %d): %w", offset, e.buf.Len(), ErrOffsetOutOfRange)
	}
	return nil
}

// ============================================================================
// Write Operations
// ============================================================================

// StartAction opens a new undoable action. Any open action is closed and
// the redo stack is discarded. sel is the selection to restore on undo.
func (e *Engine) StartAction(title string, sel Selection) {
	e.history.StartAction(title, sel)
	if info, ok := e.history.Open(); ok {
		e.log.Debug("action started", "seq", info.Seq, "title", title)
	}
}

// SetSelectionAfter records the selection to restore on redo.
func (e *Engine) SetSelectionAfter(sel Selection) error {
	return e.history.SetSelectionAfter(sel)
}

// Insert inserts text at offset. An action must be open.
func (e *Engine) Insert(offset int, text string) error {
	if err := e.history.Insert(e.buf, offset, []byte(text)); err != nil {
		return err
	}
	e.revision++
	return nil
}

// Delete removes length bytes at offset. An action must be open.
func (e *Engine) Delete(offset, length int) error {
	if err := e.history.Delete(e.buf, offset, length); err != nil {
		return err
	}
	e.revision++
	return nil
}

// Replace deletes length bytes at offset and inserts text in their place.
// Both edits belong to the open action.
func (e *Engine) Replace(offset int, text string, length int) error {
	if err := e.Delete(offset, length); err != nil {
		return err
	}
	return e.Insert(offset, text)
}

// ============================================================================
// Undo/Redo
// ============================================================================

// Undo reverts the most recent action.
func (e *Engine) Undo() (Result, error) {
	res, err := e.history.Undo(e.buf)
	if err != nil {
		return res, err
	}
	e.revision++
	e.log.Debug("undo", "title", res.Title, "offset", res.ChangeOffset, "length", res.ChangeLength)
	return res, nil
}

// Redo reapplies the most recently undone action.
func (e *Engine) Redo() (Result, error) {
	res, err := e.history.Redo(e.buf)
	if err != nil {
		return res, err
	}
	e.revision++
	e.log.Debug("redo", "title", res.Title, "offset", res.ChangeOffset, "length", res.ChangeLength)
	return res, nil
}

// CanUndo returns the title of the action Undo would revert.
func (e *Engine) CanUndo() (string, bool) {
	return e.history.CanUndo()
}

// CanRedo returns the title of the action Redo would reapply.
func (e *Engine) CanRedo() (string, bool) {
	return e.history.CanRedo()
}

// UndoCount returns the number of undoable actions.
func (e *Engine) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of redoable actions.
func (e *Engine) RedoCount() int {
	return e.history.RedoCount()
}

// History summarizes both stacks. The last undo entry is undone first,
// and so is the last redo entry.
func (e *Engine) History() (undo, redo []ActionInfo) {
	return e.history.Info()
}

// ClearHistory discards all undo and redo information. Unsaved edits keep
// the document modified until the next MarkSaved.
func (e *Engine) ClearHistory() {
	e.unsaved = e.unsaved || e.history.Checkpoint() != e.saved
	e.history.Clear()
	e.saved = e.history.Checkpoint()
}

// ============================================================================
// Search
// ============================================================================

// Find searches for q starting at start.
func (e *Engine) Find(start int, q Query) (Selection, error) {
	if err := e.checkOffset(start); err != nil {
		return Selection{}, err
	}
	return e.search.Find(start, q)
}

// FindAll returns every non-overlapping match of q.
func (e *Engine) FindAll(q Query) ([]Range, error) {
	return e.search.FindAll(q)
}

// CanReplace reports whether sel covers exactly a match of q.
func (e *Engine) CanReplace(sel Selection, q Query) (bool, error) {
	return e.search.CanReplace(sel, q)
}

// ReplaceExpression returns the text that replaces the match under sel.
// For regular expressions, template may refer to groups ($0-$9, $&).
func (e *Engine) ReplaceExpression(sel Selection, q Query, template string) (string, error) {
	return e.search.ReplaceExpression(sel, q, template)
}

// ReplaceAll replaces every match of q in a single undoable action and
// returns the number of replacements. Nothing is recorded when there are
// no matches. If a replacement fails, the text is left unchanged.
//
// sel is the selection to restore on undo. Redo restores it as moved by
// the replacements.
func (e *Engine) ReplaceAll(q Query, template string, sel Selection) (int, error) {
	repl, err := e.search.Replacements(q, template)
	if err != nil || len(repl) == 0 {
		return 0, err
	}

	title := fmt.Sprintf("Replace All %q", q.Pattern)
	err = e.history.Transaction(e.buf, title, sel, func() error {
		after := sel
		for i := len(repl) - 1; i >= 0; i-- {
			r := repl[i]
			if err := e.history.Delete(e.buf, r.Start, r.Len()); err != nil {
				return err
			}
			if err := e.history.Insert(e.buf, r.Start, []byte(r.Text)); err != nil {
				return err
			}
			after = cursor.Transform(after, cursor.Edit{Offset: r.Start, Removed: r.Len(), Inserted: len(r.Text)})
		}
		return e.history.SetSelectionAfter(after)
	})
	if err != nil {
		return 0, err
	}
	e.revision++
	e.log.Debug("replaced all", "pattern", q.Pattern, "count", len(repl))
	return len(repl), nil
}

// CollectWordsStartingWith returns the distinct words beginning with
// prefix, in the order met when searching from offset in direction dir.
func (e *Engine) CollectWordsStartingWith(offset int, dir Direction, prefix string) []string {
	return e.search.CollectWordsStartingWith(offset, dir, prefix)
}

// ctxReader fails reads once its context is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
