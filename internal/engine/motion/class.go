package motion

import (
	"unicode"
	"unicode/utf8"
)

// Class is the category of a code point as seen by word motion.
type Class uint8

const (
	ClassOther    Class = iota // blanks, controls and anything unclassified
	ClassCR                    // U+000D
	ClassLF                    // U+000A
	ClassLineSep               // U+2028, U+2029
	ClassTab                   // U+0009
	ClassLetter                // letters, digits, marks and '_'
	ClassCommon                // punctuation and symbols
	ClassHiragana              // Hiragana
	ClassKatakana              // Katakana, including the prolonged sound mark
	ClassHan                   // Han ideographs
)

var classNames = [...]string{"other", "cr", "lf", "linesep", "tab", "letter", "common", "hiragana", "katakana", "han"}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// IsLineTerminator reports whether c ends a line.
func (c Class) IsLineTerminator() bool {
	return c == ClassCR || c == ClassLF || c == ClassLineSep
}

// Classify returns the class of r.
func Classify(r rune) Class {
	switch r {
	case '\r':
		return ClassCR
	case '\n':
		return ClassLF
	case '\u2028', '\u2029':
		return ClassLineSep
	case '\t':
		return ClassTab
	case '_':
		return ClassLetter
	case '\u30FC':
		return ClassKatakana
	}
	if r < utf8.RuneSelf {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			return ClassLetter
		case r > ' ' && r < 0x7F:
			return ClassCommon
		}
		return ClassOther
	}
	switch {
	case r == utf8.RuneError:
		return ClassOther
	case unicode.Is(unicode.Hiragana, r):
		return ClassHiragana
	case unicode.Is(unicode.Katakana, r):
		return ClassKatakana
	case unicode.Is(unicode.Han, r):
		return ClassHan
	case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r):
		return ClassLetter
	case unicode.IsPunct(r), unicode.IsSymbol(r):
		return ClassCommon
	}
	return ClassOther
}
