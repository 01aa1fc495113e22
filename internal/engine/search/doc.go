// Package search implements literal and regular expression search over a
// read-only text view.
//
// Literal search uses Boyer-Moore-Horspool in both directions and compares
// bytes directly through Text.ByteAt, so searching a gap buffer copies
// nothing. Case-insensitive literal search folds ASCII letters only.
//
// Regular expressions use RE2 syntax from the standard regexp package and
// are compiled in multi-line mode, so ^ and $ match at line boundaries.
// Backward regex search tries an anchored match at each code point before
// the start offset; the set of bytes the pattern can start with, and
// whether it must start at a line or text boundary, is derived from the
// compiled program so most positions are rejected without running the
// matcher.
//
// Searches never modify the text. A malformed pattern returns a
// *PatternError before any matching is attempted.
package search
