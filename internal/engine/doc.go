// Package engine provides the text storage and editing engine for textcore.
//
// The engine package is the facade over the document: it owns the text, its
// undo history and its persisted attributes, and every mutation goes through
// it.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - gapbuf: gap buffer holding the text as UTF-8 with LF line endings
//   - codec: encoding, BOM and line ending detection and conversion
//   - motion: grapheme and word stops for cursor movement
//   - cursor: selections and how they follow edits
//   - history: action based undo/redo
//   - search: literal and regular expression search and replace
//
// # Thread Safety
//
// An Engine is not safe for concurrent use. Hosts keep one goroutine per
// open document or serialize calls themselves. LoadContext is the only
// blocking operation; it decodes into temporaries and swaps the result in,
// so a canceled load leaves the previous document intact.
//
// # Basic Usage
//
// Every edit belongs to an action, the unit of undo:
//
//	e := engine.New(engine.WithContent("the quick fox"))
//
//	e.StartAction("Typing", engine.Selection{})
//	e.Insert(4, "very ")   // "the very quick fox"
//	e.Delete(4, 5)         // "the quick fox"
//
//	res, _ := e.Undo()     // res.ChangeOffset == 4, res.ChangeLength == 9
//
// # Loading and Saving
//
// Load detects encoding, BOM and line endings; save restores them:
//
//	raw, _ := os.ReadFile(name)
//	if err := e.LoadBytes(raw); err != nil {
//		var le *engine.LoadError
//		errors.As(err, &le)
//	}
//	out := e.SaveBytes() // byte-identical to raw until edited
//	e.MarkSaved()
//
// Attributes can be changed before saving:
//
//	e.SetEncoding(engine.UTF16LE)
//	e.SetLineEnding(engine.LineEndingCRLF)
//
// # Search
//
//	q := engine.Query{Pattern: `f(o+)`, Regex: true}
//	sel, err := e.Find(0, q)
//	if errors.Is(err, engine.ErrNotFound) {
//		// ...
//	}
//	repl, _ := e.ReplaceExpression(sel, q, "b$1")
//
// ReplaceAll replaces every match in a single undoable action.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ErrOffsetOutOfRange: offset or length outside the text
//   - ErrNoOpenAction: edit without StartAction
//   - ErrNothingToUndo / ErrNothingToRedo: empty history stack
//   - ErrNotFound: search without a match
//   - *PatternError: invalid regular expression
//   - *LoadError: refused load, wrapping ErrTooLarge or the read error
package engine
