// Package motion computes cursor stops in UTF-8 text.
//
// The functions here are stateless and read text through the small Text
// interface, so they work on a gap buffer as well as on a plain byte slice
// (see Bytes). They never fail: damaged UTF-8 is stepped over using the
// length declared by its lead byte, and unreadable code points decode as
// U+FFFD.
//
// Three granularities are supported. Char steps over one extended grapheme
// cluster. WordKeyboard moves to the start of the next or previous word as
// ctrl+arrow does, skipping blanks after (forward) or before (backward) the
// word. WordMouse finds the unit a double click selects: a run of letters,
// a run of punctuation, a run of blanks, a single tab, or a run of one
// Japanese script, with Han followed by Hiragana treated as one word.
//
// Line terminators (LF, CR, CR LF and U+2028/U+2029) are always a unit of
// their own in every granularity, and a CR LF pair is never split.
package motion
