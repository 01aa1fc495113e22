// Package history records edits to a byte buffer so they can be undone
// and redone.
//
// # Actions
//
// Edits are grouped into Actions. An Action has a title (shown as
// "Undo Typing" and the like), the selection before and after the edit, and
// an ordered list of MicroActions. Each MicroAction is one insertion or one
// deletion at a fixed offset.
//
// An Action is opened explicitly with StartAction and stays open until the
// next StartAction, Close, Undo or Clear. While it is open, every Insert and
// Delete passed through the History is applied to the buffer and recorded.
// Starting an Action discards everything that could be redone.
//
//	h := history.New(0)
//	h.StartAction("Typing", cursor.Caret(4))
//	h.Insert(buf, 4, []byte("very "))
//	h.SetSelectionAfter(cursor.Caret(9))
//	res, _ := h.Undo(buf) // buf is back to its old contents
//
// # Saved bytes
//
// A MicroAction holds the bytes that are currently not in the buffer: the
// text removed by a deletion that is done, or the text added by an insertion
// that is undone. Inserted text that is in the buffer is read back when the
// insertion is undone, so typing costs no extra memory.
//
// # Coalescing
//
// An insertion that starts exactly where the last MicroAction of the open
// Action ends, when that MicroAction is itself an insertion, extends it.
// Deletions and out-of-order insertions are never merged.
//
// # Concurrency
//
// A History is not safe for concurrent use. It belongs to a single document.
package history
