package history

import (
	"time"

	"github.com/dshills/textcore/internal/engine/cursor"
)

// Action is one user-visible undo step.
type Action struct {
	Seq             uint64
	Title           string
	SelectionBefore cursor.Selection
	SelectionAfter  cursor.Selection
	Micro           []MicroAction
	Timestamp       time.Time
}

// Delta returns the change in buffer length the action causes when done.
func (a *Action) Delta() int {
	d := 0
	for i := range a.Micro {
		d += a.Micro[i].Length
	}
	return d
}

// Info returns a summary of the action.
func (a *Action) Info() ActionInfo {
	return ActionInfo{
		Seq:       a.Seq,
		Title:     a.Title,
		Micro:     len(a.Micro),
		Delta:     a.Delta(),
		Timestamp: a.Timestamp,
	}
}

// ActionInfo provides read-only info about an action, for display and logs.
type ActionInfo struct {
	Seq       uint64
	Title     string
	Micro     int       // number of micro actions
	Delta     int       // length change when done
	Timestamp time.Time // when the action was started
}

// Result reports what an Undo or Redo changed.
//
// ChangeOffset is the lowest offset touched. ChangeLength starts as the size
// of the first micro action replayed. Each later one raises it to at least
// the end of the span so far and its own end offset, so
// [ChangeOffset, ChangeOffset+ChangeLength) covers every micro action
// replayed. For multi-step actions it may overstate the damage.
type Result struct {
	Title        string
	Selection    cursor.Selection
	ChangeOffset int
	ChangeLength int
	NetDelta     int
}

func (r *Result) add(m *MicroAction, first bool) {
	if first {
		r.ChangeOffset = m.Offset
		r.ChangeLength = m.Size()
		return
	}
	r.ChangeLength = max(r.ChangeOffset+r.ChangeLength, m.Offset+m.Size())
	r.ChangeOffset = min(r.ChangeOffset, m.Offset)
}
