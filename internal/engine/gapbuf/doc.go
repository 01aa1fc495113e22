// Package gapbuf provides the mutable byte store underlying the editor engine.
//
// A gap buffer is a single byte slice with one movable empty region, the gap.
// Live content occupies the bytes before the gap and the bytes after it;
// logically the two halves are concatenated. Edits are made by moving the gap
// to the edit position and then growing or shrinking it, so a run of edits at
// nearby offsets costs only the distance the gap travels.
//
// Key properties:
//   - Insert moves the gap (one copy of the bytes it passes over) and fills it
//   - Delete moves the gap and widens it; no bytes are copied for the removal
//   - ByteAt is O(1) and never exposes the gap
//   - Storage grows in fixed-size blocks and never shrinks except on Reset
//
// Basic usage:
//
//	b := gapbuf.NewFromBytes([]byte("hello world"), 0)
//	_ = b.Insert(5, []byte(","))  // "hello, world"
//	_ = b.Delete(0, 7)            // "world"
//	text := b.String()            // "world"
//
// A Buffer is not safe for concurrent use.
package gapbuf
