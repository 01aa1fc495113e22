package history

import "github.com/dshills/textcore/internal/engine/cursor"

// Checkpoint identifies a position in the history, such as the last save.
type Checkpoint struct {
	seq uint64
}

// Checkpoint returns the current position. Two checkpoints are equal when
// the buffer holds the same sequence of actions.
func (h *History) Checkpoint() Checkpoint {
	if h.open != nil && len(h.open.Micro) > 0 {
		return Checkpoint{seq: h.open.Seq}
	}
	if len(h.done) == 0 {
		return Checkpoint{}
	}
	return Checkpoint{seq: h.done[len(h.done)-1].Seq}
}

// Transaction runs fn inside a new action. If fn fails, the edits it made
// are reverted, the action is discarded and fn's error is returned.
func (h *History) Transaction(buf Buffer, title string, sel cursor.Selection, fn func() error) error {
	h.StartAction(title, sel)
	err := fn()
	if err == nil {
		h.Close()
		return nil
	}
	if rerr := h.Rollback(buf); rerr != nil {
		return rerr
	}
	return err
}

// Rollback reverts and discards the open action.
func (h *History) Rollback(buf Buffer) error {
	a := h.open
	if a == nil {
		return ErrNoOpenAction
	}
	for i := len(a.Micro) - 1; i >= 0; i-- {
		if err := a.Micro[i].revert(buf); err != nil {
			return err
		}
	}
	h.open = nil
	return nil
}
