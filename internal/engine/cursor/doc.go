// Package cursor defines the selection value attached to undo actions and
// passed to and from search operations.
//
// A Selection is either a stream selection, given by two byte offsets, or a
// block (rectangular) selection, given by two line/column points. In both
// forms the anchor is where the selection started and the head is where the
// caret sits; either may come first. Start, End and Range normalize the order.
//
//	sel := cursor.New(10, 4)  // caret at 4, selection covers [4,10)
//	sel.Start()               // 4
//	sel.IsBackward()          // true
//
// Selections are immutable values. Edits never update them implicitly;
// callers use Transform to carry a selection across an edit.
package cursor
