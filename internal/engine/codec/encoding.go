package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// Encoding identifies an on-disk character encoding.
type Encoding uint8

const (
	UTF8    Encoding = iota // UTF-8
	UTF16LE                 // UTF-16, little endian
	UTF16BE                 // UTF-16, big endian
	Legacy                  // single-byte legacy charset
)

// ErrUnknownEncoding is returned by ParseEncoding for unrecognised names.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Byte-order marks.
var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// String returns the canonical name of the encoding.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	case Legacy:
		return "legacy"
	default:
		return fmt.Sprintf("Encoding(%d)", uint8(e))
	}
}

// BOM returns the byte-order mark for the encoding, or nil if it has none.
func (e Encoding) BOM() []byte {
	switch e {
	case UTF8:
		return bomUTF8
	case UTF16LE:
		return bomUTF16LE
	case UTF16BE:
		return bomUTF16BE
	default:
		return nil
	}
}

// ParseEncoding accepts the usual spellings of the supported encodings.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-16le", "utf16le", "utf-16", "ucs-2le":
		return UTF16LE, nil
	case "utf-16be", "utf16be", "ucs-2be":
		return UTF16BE, nil
	case "legacy", "latin1", "latin-1", "iso-8859-1", "8bit":
		return Legacy, nil
	}
	return UTF8, fmt.Errorf("%q: %w", s, ErrUnknownEncoding)
}

// Sniff determines the encoding of raw and whether it starts with a byte-order mark.
//
// A BOM decides outright. Without one, input that is structurally valid UTF-8
// is UTF-8; anything else is treated as the legacy charset.
func Sniff(raw []byte) (Encoding, bool) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return UTF8, true
	case bytes.HasPrefix(raw, bomUTF16LE):
		return UTF16LE, true
	case bytes.HasPrefix(raw, bomUTF16BE):
		return UTF16BE, true
	}
	if wellFormedUTF8(raw) {
		return UTF8, false
	}
	return Legacy, false
}

// wellFormedUTF8 reports whether every byte of p is ASCII or part of a
// 2 to 6 byte sequence whose continuation bytes all match 10xxxxxx.
// Overlong forms and surrogates are accepted; only the byte structure is checked.
func wellFormedUTF8(p []byte) bool {
	for i := 0; i < len(p); {
		n := seqLen(p[i])
		if n == 0 || i+n > len(p) {
			return false
		}
		for j := i + 1; j < i+n; j++ {
			if p[j]&0xC0 != 0x80 {
				return false
			}
		}
		i += n
	}
	return true
}

// seqLen returns the sequence length declared by lead byte c,
// or 0 if c cannot start a sequence.
func seqLen(c byte) int {
	switch {
	case c < 0x80:
		return 1
	case c&0xE0 == 0xC0:
		return 2
	case c&0xF0 == 0xE0:
		return 3
	case c&0xF8 == 0xF0:
		return 4
	case c&0xFC == 0xF8:
		return 5
	case c&0xFE == 0xFC:
		return 6
	}
	return 0
}
