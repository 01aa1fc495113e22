package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/textcore/internal/engine/cursor"
)

// Common errors for history operations.
var (
	ErrNoOpenAction  = errors.New("no open action")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History manages the done and undone stacks of a single buffer.
type History struct {
	done   []*Action
	undone []*Action
	open   *Action

	seq   uint64
	limit int
}

// New creates a history that keeps at most limit actions.
// A limit of zero or less keeps everything.
func New(limit int) *History {
	return &History{limit: limit}
}

// StartAction closes the open action, discards the redo stack and opens a
// new action.
func (h *History) StartAction(title string, sel cursor.Selection) {
	h.Close()
	h.undone = nil
	h.seq++
	h.open = &Action{
		Seq:             h.seq,
		Title:           title,
		SelectionBefore: sel,
		SelectionAfter:  sel,
		Timestamp:       time.Now(),
	}
}

// Close closes the open action, if any. An action without edits is dropped.
func (h *History) Close() {
	a := h.open
	if a == nil {
		return
	}
	h.open = nil
	if len(a.Micro) == 0 {
		return
	}
	h.done = append(h.done, a)
	if h.limit > 0 && len(h.done) > h.limit {
		excess := len(h.done) - h.limit
		clear(h.done[:excess])
		h.done = h.done[excess:]
	}
}

// IsOpen reports whether an action is accepting edits.
func (h *History) IsOpen() bool {
	return h.open != nil
}

// Open returns a summary of the open action.
func (h *History) Open() (ActionInfo, bool) {
	if h.open == nil {
		return ActionInfo{}, false
	}
	return h.open.Info(), true
}

// SetSelectionAfter records the selection to restore on redo.
func (h *History) SetSelectionAfter(sel cursor.Selection) error {
	if h.open == nil {
		return ErrNoOpenAction
	}
	h.open.SelectionAfter = sel
	return nil
}

// Insert inserts p at off in buf and records the insertion in the open
// action. Nothing is recorded if the buffer rejects the edit.
func (h *History) Insert(buf Buffer, off int, p []byte) error {
	if h.open == nil {
		return ErrNoOpenAction
	}
	if len(p) == 0 {
		return nil
	}
	if err := buf.Insert(off, p); err != nil {
		return err
	}

	a := h.open
	if n := len(a.Micro); n > 0 {
		last := &a.Micro[n-1]
		if last.IsInsert() && last.Offset+last.Length == off {
			last.Length += len(p)
			return nil
		}
	}
	a.Micro = append(a.Micro, MicroAction{Length: len(p), Offset: off})
	return nil
}

// Delete removes n bytes at off from buf and records them in the open action.
func (h *History) Delete(buf Buffer, off, n int) error {
	if h.open == nil {
		return ErrNoOpenAction
	}
	if n == 0 {
		return nil
	}
	saved, err := buf.Read(off, n)
	if err != nil {
		return err
	}
	if err := buf.Delete(off, n); err != nil {
		return err
	}
	h.open.Micro = append(h.open.Micro, MicroAction{Length: -n, Offset: off, saved: saved})
	return nil
}

// Undo reverses the most recent action. An open action is closed first and
// is the one undone. If a step fails, the steps already reversed are
// replayed and the action stays undoable.
func (h *History) Undo(buf Buffer) (Result, error) {
	h.Close()
	if len(h.done) == 0 {
		return Result{}, ErrNothingToUndo
	}

	a := h.done[len(h.done)-1]
	res := Result{Title: a.Title, Selection: a.SelectionBefore}
	for i := len(a.Micro) - 1; i >= 0; i-- {
		m := &a.Micro[i]
		if err := m.revert(buf); err != nil {
			for j := i + 1; j < len(a.Micro); j++ {
				if rerr := a.Micro[j].apply(buf); rerr != nil {
					return Result{}, fmt.Errorf("undo %q: %w", a.Title, errors.Join(err, rerr))
				}
			}
			return Result{}, fmt.Errorf("undo %q: %w", a.Title, err)
		}
		res.add(m, i == len(a.Micro)-1)
		res.NetDelta -= m.Length
	}

	h.done = h.done[:len(h.done)-1]
	h.undone = append(h.undone, a)
	return res, nil
}

// Redo replays the most recently undone action. If a step fails, the steps
// already replayed are reversed and the action stays redoable.
func (h *History) Redo(buf Buffer) (Result, error) {
	if len(h.undone) == 0 {
		return Result{}, ErrNothingToRedo
	}
	h.Close()

	a := h.undone[len(h.undone)-1]
	res := Result{Title: a.Title, Selection: a.SelectionAfter}
	for i := range a.Micro {
		m := &a.Micro[i]
		if err := m.apply(buf); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := a.Micro[j].revert(buf); rerr != nil {
					return Result{}, fmt.Errorf("redo %q: %w", a.Title, errors.Join(err, rerr))
				}
			}
			return Result{}, fmt.Errorf("redo %q: %w", a.Title, err)
		}
		res.add(m, i == 0)
		res.NetDelta += m.Length
	}

	h.undone = h.undone[:len(h.undone)-1]
	h.done = append(h.done, a)
	return res, nil
}

// CanUndo returns the title of the action Undo would reverse.
func (h *History) CanUndo() (string, bool) {
	if h.open != nil && len(h.open.Micro) > 0 {
		return h.open.Title, true
	}
	if len(h.done) == 0 {
		return "", false
	}
	return h.done[len(h.done)-1].Title, true
}

// CanRedo returns the title of the action Redo would replay.
func (h *History) CanRedo() (string, bool) {
	if len(h.undone) == 0 {
		return "", false
	}
	return h.undone[len(h.undone)-1].Title, true
}

// UndoCount returns the number of actions that can be undone.
func (h *History) UndoCount() int {
	n := len(h.done)
	if h.open != nil && len(h.open.Micro) > 0 {
		n++
	}
	return n
}

// RedoCount returns the number of actions that can be redone.
func (h *History) RedoCount() int {
	return len(h.undone)
}

// Clear drops all history, including the open action.
func (h *History) Clear() {
	h.done = nil
	h.undone = nil
	h.open = nil
}

// Info returns summaries of the undo stack, oldest first and including the
// open action, and of the redo stack, next to redo last.
func (h *History) Info() (undo, redo []ActionInfo) {
	for _, a := range h.done {
		undo = append(undo, a.Info())
	}
	if h.open != nil && len(h.open.Micro) > 0 {
		undo = append(undo, h.open.Info())
	}
	for _, a := range h.undone {
		redo = append(redo, a.Info())
	}
	return undo, redo
}

// Limit returns the maximum number of kept actions, or 0 for no limit.
func (h *History) Limit() int {
	return h.limit
}
