package codec

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	gdenc "github.com/gdamore/encoding"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnknownCharset is returned by CharsetTable for unrecognised charset names.
var ErrUnknownCharset = errors.New("unknown charset")

// replacementByte is written for runes the legacy charset cannot represent.
const replacementByte = '?'

// Table is a total mapping between the 256 byte values of a legacy charset
// and Unicode code points.
type Table struct {
	name     string
	toRune   [256]rune
	fromRune map[rune]byte
}

// Latin1 is the default legacy table: every byte is its own code point.
var Latin1 = newTable("latin1", gdenc.ISO8859_1)

var charsets = map[string]func() *Table{
	"latin1":       func() *Table { return Latin1 },
	"iso-8859-1":   func() *Table { return Latin1 },
	"windows-1252": func() *Table { return newTable("windows-1252", charmap.Windows1252) },
	"cp1252":       func() *Table { return newTable("windows-1252", charmap.Windows1252) },
	"iso-8859-15":  func() *Table { return newTable("iso-8859-15", charmap.ISO8859_15) },
	"cp437":        func() *Table { return newTable("cp437", charmap.CodePage437) },
}

// CharsetTable returns the legacy table for a charset name such as
// "latin1" or "windows-1252".
func CharsetTable(name string) (*Table, error) {
	mk, ok := charsets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownCharset)
	}
	return mk(), nil
}

// newTable decodes every byte through enc. Bytes the charset leaves
// undefined map to the code point with the same value, which keeps the
// table total and, for the charsets above, injective.
func newTable(name string, enc xenc.Encoding) *Table {
	t := &Table{name: name, fromRune: make(map[rune]byte, 256)}
	dec := enc.NewDecoder()
	for i := 0; i < 256; i++ {
		r := rune(i)
		if out, err := dec.Bytes([]byte{byte(i)}); err == nil {
			if dr, size := utf8.DecodeRune(out); size == len(out) && dr != utf8.RuneError {
				r = dr
			}
		}
		t.toRune[i] = r
	}
	for i := 0; i < 256; i++ {
		if _, dup := t.fromRune[t.toRune[i]]; !dup {
			t.fromRune[t.toRune[i]] = byte(i)
		}
	}
	return t
}

// Name returns the charset name.
func (t *Table) Name() string {
	return t.name
}

// Rune returns the code point for byte b.
func (t *Table) Rune(b byte) rune {
	return t.toRune[b]
}

// Byte returns the byte for r and whether r is representable.
func (t *Table) Byte(r rune) (byte, bool) {
	b, ok := t.fromRune[r]
	return b, ok
}

// decode maps every byte to its code point and appends the UTF-8 form to dst.
func (t *Table) decode(dst, src []byte) []byte {
	var tmp [utf8.UTFMax]byte
	for _, c := range src {
		r := t.toRune[c]
		if r < utf8.RuneSelf {
			dst = append(dst, byte(r))
			continue
		}
		n := utf8.EncodeRune(tmp[:], r)
		dst = append(dst, tmp[:n]...)
	}
	return dst
}

// encode maps UTF-8 text back to charset bytes.
func (t *Table) encode(src []byte) []byte {
	out := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		i += size
		if b, ok := t.fromRune[r]; ok && !(r == utf8.RuneError && size == 1) {
			out = append(out, b)
			continue
		}
		out = append(out, replacementByte)
	}
	return out
}
