package history

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/textcore/internal/engine/cursor"
	"github.com/dshills/textcore/internal/engine/gapbuf"
)

func newTestBuffer(text string) *gapbuf.Buffer {
	return gapbuf.NewFromString(text, 16)
}

var errInjected = errors.New("injected failure")

// failingBuffer rejects every edit at offset failAt.
type failingBuffer struct {
	*gapbuf.Buffer
	failAt int
}

func (b *failingBuffer) Insert(off int, p []byte) error {
	if off == b.failAt {
		return errInjected
	}
	return b.Buffer.Insert(off, p)
}

func (b *failingBuffer) Delete(off, n int) error {
	if off == b.failAt {
		return errInjected
	}
	return b.Buffer.Delete(off, n)
}

// ============================================================================
// Recording
// ============================================================================

func TestEditWithoutOpenAction(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("abc")

	if err := h.Insert(buf, 0, []byte("x")); !errors.Is(err, ErrNoOpenAction) {
		t.Errorf("Insert error = %v, want ErrNoOpenAction", err)
	}
	if err := h.Delete(buf, 0, 1); !errors.Is(err, ErrNoOpenAction) {
		t.Errorf("Delete error = %v, want ErrNoOpenAction", err)
	}
	if err := h.SetSelectionAfter(cursor.Caret(0)); !errors.Is(err, ErrNoOpenAction) {
		t.Errorf("SetSelectionAfter error = %v, want ErrNoOpenAction", err)
	}
	if buf.String() != "abc" {
		t.Errorf("buffer changed: %q", buf.String())
	}
}

func TestRejectedEditNotRecorded(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("abc")
	h.StartAction("Typing", cursor.Caret(0))

	if err := h.Insert(buf, 9, []byte("x")); !errors.Is(err, gapbuf.ErrOutOfRange) {
		t.Errorf("Insert error = %v, want ErrOutOfRange", err)
	}
	if err := h.Delete(buf, 2, 5); !errors.Is(err, gapbuf.ErrOutOfRange) {
		t.Errorf("Delete error = %v, want ErrOutOfRange", err)
	}
	if _, ok := h.CanUndo(); ok {
		t.Error("rejected edits should not be undoable")
	}
}

func TestDeleteSavesBytes(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("hello world")
	h.StartAction("Delete", cursor.Caret(5))

	if err := h.Delete(buf, 5, 6); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	m := h.open.Micro[0]
	if m.Length != -6 || m.Offset != 5 || string(m.Saved()) != " world" {
		t.Errorf("micro = %+v saved %q", m, m.Saved())
	}
}

func TestSavedBytesFollowState(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("abc")
	h.StartAction("Typing", cursor.Caret(3))
	h.Insert(buf, 3, []byte("def"))
	h.Close()

	a := h.done[0]
	if a.Micro[0].Saved() != nil {
		t.Errorf("done insertion holds %q", a.Micro[0].Saved())
	}
	if _, err := h.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if string(a.Micro[0].Saved()) != "def" {
		t.Errorf("undone insertion holds %q, want %q", a.Micro[0].Saved(), "def")
	}
	if _, err := h.Redo(buf); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if a.Micro[0].Saved() != nil {
		t.Errorf("redone insertion holds %q", a.Micro[0].Saved())
	}
}

// ============================================================================
// Coalescing
// ============================================================================

func TestCoalesceTyping(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("")
	h.StartAction("Typing", cursor.Caret(0))

	for i, c := range "hello" {
		if err := h.Insert(buf, i, []byte{byte(c)}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	if n := len(h.open.Micro); n != 1 {
		t.Fatalf("got %d micro actions, want 1", n)
	}
	if m := h.open.Micro[0]; m.Length != 5 || m.Offset != 0 {
		t.Errorf("micro = %+v", m)
	}
}

func TestCoalesceAcrossActionsIsSeparate(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("")

	for i, c := range "abc" {
		h.StartAction("Typing", cursor.Caret(i))
		h.Insert(buf, i, []byte{byte(c)})
	}
	h.Close()

	if h.UndoCount() != 3 {
		t.Fatalf("UndoCount() = %d, want 3", h.UndoCount())
	}
	for _, want := range []string{"ab", "a", ""} {
		if _, err := h.Undo(buf); err != nil {
			t.Fatalf("Undo failed: %v", err)
		}
		if buf.String() != want {
			t.Errorf("after undo got %q, want %q", buf.String(), want)
		}
	}
}

func TestNoCoalesce(t *testing.T) {
	tests := []struct {
		name  string
		edits func(h *History, buf *gapbuf.Buffer)
		want  int
	}{
		{
			name: "out of order insert",
			edits: func(h *History, buf *gapbuf.Buffer) {
				h.Insert(buf, 0, []byte("b"))
				h.Insert(buf, 0, []byte("a"))
			},
			want: 2,
		},
		{
			name: "after delete",
			edits: func(h *History, buf *gapbuf.Buffer) {
				h.Insert(buf, 0, []byte("ab"))
				h.Delete(buf, 1, 1)
				h.Insert(buf, 1, []byte("c"))
			},
			want: 3,
		},
		{
			name: "deletes",
			edits: func(h *History, buf *gapbuf.Buffer) {
				h.Delete(buf, 2, 1)
				h.Delete(buf, 1, 1)
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(0)
			buf := newTestBuffer("xyz")
			h.StartAction("Edit", cursor.Caret(0))
			tt.edits(h, buf)
			if n := len(h.open.Micro); n != tt.want {
				t.Errorf("got %d micro actions, want %d", n, tt.want)
			}
		})
	}
}

// ============================================================================
// Undo / Redo
// ============================================================================

func TestUndoInsertDeleteSameAction(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("the quick fox")
	h.StartAction("Edit", cursor.Caret(4))

	if err := h.Insert(buf, 4, []byte("very ")); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := h.Delete(buf, 4, 5); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	res, err := h.Undo(buf)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if buf.String() != "the quick fox" {
		t.Errorf("buffer = %q", buf.String())
	}
	if res.ChangeOffset != 4 || res.ChangeLength != 9 {
		t.Errorf("change = (%d, %d), want (4, 9)", res.ChangeOffset, res.ChangeLength)
	}
	if res.NetDelta != 0 {
		t.Errorf("NetDelta = %d, want 0", res.NetDelta)
	}
}

func TestUndoResult(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("hello world")
	before := cursor.New(6, 11)
	after := cursor.Caret(8)

	h.StartAction("Replace", before)
	h.Delete(buf, 6, 5)
	h.Insert(buf, 6, []byte("Go"))
	h.SetSelectionAfter(after)

	res, err := h.Undo(buf)
	if err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	want := Result{Title: "Replace", Selection: before, ChangeOffset: 6, ChangeLength: 11, NetDelta: 3}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("undo result mismatch (-want +got):\n%s", diff)
	}

	res, err = h.Redo(buf)
	if err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if res.Selection != after || res.NetDelta != -3 {
		t.Errorf("redo result = %+v", res)
	}
	if buf.String() != "hello Go" {
		t.Errorf("buffer = %q", buf.String())
	}
}

func TestUndoSpanCoversEveryStep(t *testing.T) {
	type edit struct {
		off  int
		text string // inserted, or "" to delete n bytes
		n    int
	}
	tests := []struct {
		name       string
		text       string
		edits      []edit
		wantOffset int
		wantLength int
	}{
		{
			name:       "insert then delete same place",
			text:       "the quick fox",
			edits:      []edit{{off: 4, text: "very "}, {off: 4, n: 5}},
			wantOffset: 4,
			wantLength: 9,
		},
		{
			name:       "descending offsets",
			text:       strings.Repeat("x", 200),
			edits:      []edit{{off: 0, text: "a"}, {off: 150, text: "bbbbb"}},
			wantOffset: 0,
			wantLength: 155,
		},
		{
			name:       "ascending offsets",
			text:       strings.Repeat("x", 200),
			edits:      []edit{{off: 150, text: "bbbbb"}, {off: 0, text: "a"}},
			wantOffset: 0,
			wantLength: 155,
		},
		{
			name:       "three scattered deletes",
			text:       strings.Repeat("x", 100),
			edits:      []edit{{off: 80, n: 10}, {off: 10, n: 5}, {off: 40, n: 2}},
			wantOffset: 10,
			wantLength: 90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(0)
			buf := newTestBuffer(tt.text)
			h.StartAction("Edit", cursor.Caret(0))
			for _, ed := range tt.edits {
				var err error
				if ed.text != "" {
					err = h.Insert(buf, ed.off, []byte(ed.text))
				} else {
					err = h.Delete(buf, ed.off, ed.n)
				}
				if err != nil {
					t.Fatalf("edit %+v failed: %v", ed, err)
				}
			}

			res, err := h.Undo(buf)
			if err != nil {
				t.Fatalf("Undo failed: %v", err)
			}
			if res.ChangeOffset != tt.wantOffset || res.ChangeLength != tt.wantLength {
				t.Errorf("span = [%d,+%d), want [%d,+%d)", res.ChangeOffset, res.ChangeLength, tt.wantOffset, tt.wantLength)
			}
			end := res.ChangeOffset + res.ChangeLength
			for _, ed := range tt.edits {
				size := max(len(ed.text), ed.n)
				if ed.off < res.ChangeOffset || ed.off+size > end {
					t.Errorf("span [%d,%d) misses edit at [%d,%d)", res.ChangeOffset, end, ed.off, ed.off+size)
				}
			}
			if buf.String() != tt.text {
				t.Errorf("buffer not restored: %q", buf.String())
			}
		})
	}
}

func TestUndoFailureKeepsAction(t *testing.T) {
	h := New(0)
	buf := &failingBuffer{Buffer: newTestBuffer("hello"), failAt: -1}

	h.StartAction("Typing", cursor.Caret(0))
	h.Insert(buf, 0, []byte("a"))
	h.Insert(buf, 6, []byte("b"))
	h.Close()

	buf.failAt = 0
	if _, err := h.Undo(buf); !errors.Is(err, errInjected) {
		t.Fatalf("Undo error = %v, want injected failure", err)
	}
	if buf.String() != "ahellob" {
		t.Errorf("buffer after failed undo = %q, want %q", buf.String(), "ahellob")
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("counts after failed undo = %d/%d, want 1/0", h.UndoCount(), h.RedoCount())
	}

	buf.failAt = -1
	if _, err := h.Undo(buf); err != nil {
		t.Fatalf("Undo failed: %v", err)
	}
	if buf.String() != "hello" {
		t.Errorf("buffer after undo = %q", buf.String())
	}

	buf.failAt = 6
	if _, err := h.Redo(buf); !errors.Is(err, errInjected) {
		t.Fatalf("Redo error = %v, want injected failure", err)
	}
	if buf.String() != "hello" {
		t.Errorf("buffer after failed redo = %q, want %q", buf.String(), "hello")
	}
	if h.UndoCount() != 0 || h.RedoCount() != 1 {
		t.Errorf("counts after failed redo = %d/%d, want 0/1", h.UndoCount(), h.RedoCount())
	}

	buf.failAt = -1
	if _, err := h.Redo(buf); err != nil {
		t.Fatalf("Redo failed: %v", err)
	}
	if buf.String() != "ahellob" {
		t.Errorf("buffer after redo = %q", buf.String())
	}
}

func TestUndoRedoErrors(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("")

	if _, err := h.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo error = %v, want ErrNothingToUndo", err)
	}
	if _, err := h.Redo(buf); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo error = %v, want ErrNothingToRedo", err)
	}

	// An action with no edits is not undoable.
	h.StartAction("Nothing", cursor.Caret(0))
	if _, err := h.Undo(buf); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo of empty action error = %v, want ErrNothingToUndo", err)
	}
}

func TestCanUndoRedo(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("")

	if _, ok := h.CanUndo(); ok {
		t.Error("CanUndo on empty history")
	}

	h.StartAction("Typing", cursor.Caret(0))
	h.Insert(buf, 0, []byte("a"))
	if title, ok := h.CanUndo(); !ok || title != "Typing" {
		t.Errorf("CanUndo() = %q, %v", title, ok)
	}

	h.Undo(buf)
	if title, ok := h.CanRedo(); !ok || title != "Typing" {
		t.Errorf("CanRedo() = %q, %v", title, ok)
	}
	if _, ok := h.CanUndo(); ok {
		t.Error("CanUndo after undoing everything")
	}
}

func TestStartActionClearsRedo(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("")

	h.StartAction("One", cursor.Caret(0))
	h.Insert(buf, 0, []byte("a"))
	h.Undo(buf)
	if h.RedoCount() != 1 {
		t.Fatalf("RedoCount() = %d, want 1", h.RedoCount())
	}

	h.StartAction("Two", cursor.Caret(0))
	if h.RedoCount() != 0 {
		t.Errorf("RedoCount() = %d after StartAction, want 0", h.RedoCount())
	}
}

func TestUndoLimit(t *testing.T) {
	h := New(2)
	buf := newTestBuffer("")

	for i, c := range "abcd" {
		h.StartAction(string(c), cursor.Caret(i))
		h.Insert(buf, i, []byte{byte(c)})
	}
	h.Close()

	if h.UndoCount() != 2 {
		t.Errorf("UndoCount() = %d, want 2", h.UndoCount())
	}
	undo, _ := h.Info()
	if len(undo) != 2 || undo[0].Title != "c" || undo[1].Title != "d" {
		t.Errorf("Info() = %+v", undo)
	}
}

// ============================================================================
// Inverse law
// ============================================================================

// randomAction performs a few random edits inside one action.
func randomAction(t *testing.T, rng *rand.Rand, h *History, buf *gapbuf.Buffer, title string) {
	t.Helper()
	h.StartAction(title, cursor.Caret(0))
	for i := 0; i < 1+rng.Intn(8); i++ {
		n := buf.Len()
		if n > 0 && rng.Intn(3) == 0 {
			off := rng.Intn(n)
			if err := h.Delete(buf, off, 1+rng.Intn(n-off)); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			continue
		}
		p := make([]byte, 1+rng.Intn(6))
		for j := range p {
			p[j] = byte('a' + rng.Intn(26))
		}
		if err := h.Insert(buf, rng.Intn(n+1), p); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	h.Close()
}

func TestUndoInverseLaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		h := New(0)
		buf := newTestBuffer("initial text")
		states := []string{buf.String()}

		for i := 0; i < 3; i++ {
			randomAction(t, rng, h, buf, "edit")
			states = append(states, buf.String())
		}

		// Undo back to the start, checking every intermediate state.
		for i := len(states) - 2; i >= 0; i-- {
			res, err := h.Undo(buf)
			if err != nil {
				t.Fatalf("round %d: Undo failed: %v", round, err)
			}
			if diff := cmp.Diff(states[i], buf.String()); diff != "" {
				t.Fatalf("round %d: undo to state %d mismatch (-want +got):\n%s", round, i, diff)
			}
			if got := len(states[i]) - len(states[i+1]); res.NetDelta != got {
				t.Errorf("round %d: NetDelta = %d, want %d", round, res.NetDelta, got)
			}
		}

		// Redo one, undo it, then redo everything.
		h.Redo(buf)
		h.Undo(buf)
		for i := 1; i < len(states); i++ {
			if _, err := h.Redo(buf); err != nil {
				t.Fatalf("round %d: Redo failed: %v", round, err)
			}
			if buf.String() != states[i] {
				t.Fatalf("round %d: redo to state %d = %q, want %q", round, i, buf.String(), states[i])
			}
		}
	}
}

// ============================================================================
// Checkpoints and transactions
// ============================================================================

func TestCheckpoint(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("")
	saved := h.Checkpoint()

	h.StartAction("Typing", cursor.Caret(0))
	h.Insert(buf, 0, []byte("x"))
	if h.Checkpoint() == saved {
		t.Error("checkpoint unchanged after edit")
	}
	h.Undo(buf)
	if h.Checkpoint() != saved {
		t.Error("checkpoint differs after undoing back to it")
	}
	h.Redo(buf)
	edited := h.Checkpoint()
	h.Undo(buf)
	h.Redo(buf)
	if h.Checkpoint() != edited {
		t.Error("undo then redo changed the checkpoint")
	}
}

func TestTransactionRollback(t *testing.T) {
	h := New(0)
	buf := newTestBuffer("abc")
	boom := errors.New("boom")

	err := h.Transaction(buf, "Replace All", cursor.Caret(0), func() error {
		h.Insert(buf, 3, []byte("def"))
		h.Delete(buf, 0, 1)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Transaction error = %v, want boom", err)
	}
	if buf.String() != "abc" {
		t.Errorf("buffer = %q, want %q", buf.String(), "abc")
	}
	if h.UndoCount() != 0 || h.IsOpen() {
		t.Error("failed transaction left history behind")
	}

	err = h.Transaction(buf, "Replace All", cursor.Caret(0), func() error {
		return h.Insert(buf, 0, []byte(">"))
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}
	if title, ok := h.CanUndo(); !ok || title != "Replace All" {
		t.Errorf("CanUndo() = %q, %v", title, ok)
	}
}
