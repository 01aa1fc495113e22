package motion

import "unicode/utf8"

// Text is read-only random access to a byte sequence.
type Text interface {
	Len() int
	ByteAt(off int) byte
}

// Bytes adapts a byte slice to Text.
type Bytes []byte

func (b Bytes) Len() int            { return len(b) }
func (b Bytes) ByteAt(off int) byte { return b[off] }

// maxSeqLen is the longest sequence a lead byte can declare.
const maxSeqLen = 6

// declaredLen returns the sequence length announced by lead byte c,
// or 0 if c is a continuation byte or 0xFE/0xFF.
func declaredLen(c byte) int {
	switch {
	case c < 0x80:
		return 1
	case c < 0xC0:
		return 0
	case c < 0xE0:
		return 2
	case c < 0xF0:
		return 3
	case c < 0xF8:
		return 4
	case c < 0xFC:
		return 5
	case c < 0xFE:
		return 6
	}
	return 0
}

func isContinuation(c byte) bool {
	return c&0xC0 == 0x80
}

// NextCharLen returns the length of the UTF-8 sequence starting at off,
// as declared by its lead byte and clipped to the end of the text. Tail
// bytes are not checked. It returns 0 at or past the end of the text.
func NextCharLen(t Text, off int) int {
	if off < 0 || off >= t.Len() {
		return 0
	}
	n := declaredLen(t.ByteAt(off))
	if n == 0 {
		return 1
	}
	return min(n, t.Len()-off)
}

// PrevCharLen returns the length of the sequence ending at off. It walks
// back over at most five continuation bytes and accepts the lead byte only
// if it declares exactly the length found; otherwise the single byte before
// off is its own character. It returns 0 at the start of the text.
func PrevCharLen(t Text, off int) int {
	if off <= 0 || off > t.Len() {
		return 0
	}
	i := off - 1
	for i > 0 && off-i < maxSeqLen && isContinuation(t.ByteAt(i)) {
		i--
	}
	if n := off - i; n > 1 && declaredLen(t.ByteAt(i)) == n {
		return n
	}
	return 1
}

var leadMask = [maxSeqLen + 1]byte{0, 0x7F, 0x1F, 0x0F, 0x07, 0x03, 0x01}

// DecodeRune decodes the code point at off and returns it with the length
// NextCharLen reports. Truncated sequences, bad continuation bytes, overlong
// forms, surrogates and values above U+10FFFF decode as utf8.RuneError.
func DecodeRune(t Text, off int) (rune, int) {
	size := NextCharLen(t, off)
	if size == 0 {
		return utf8.RuneError, 0
	}
	c := t.ByteAt(off)
	n := declaredLen(c)
	if n == 1 {
		return rune(c), 1
	}
	if n == 0 || n > size {
		return utf8.RuneError, size
	}
	r := rune(c & leadMask[n])
	for i := 1; i < n; i++ {
		b := t.ByteAt(off + i)
		if !isContinuation(b) {
			return utf8.RuneError, size
		}
		r = r<<6 | rune(b&0x3F)
	}
	if !utf8.ValidRune(r) || utf8.RuneLen(r) != n {
		return utf8.RuneError, size
	}
	return r, size
}

// DecodeLastRune decodes the code point ending at off.
func DecodeLastRune(t Text, off int) (rune, int) {
	n := PrevCharLen(t, off)
	if n == 0 {
		return utf8.RuneError, 0
	}
	r, size := DecodeRune(t, off-n)
	if size != n {
		return utf8.RuneError, n
	}
	return r, n
}

// window copies up to n bytes of t starting at off.
func window(t Text, off, n int) []byte {
	n = min(n, t.Len()-off)
	if n <= 0 {
		return nil
	}
	p := make([]byte, n)
	for i := range p {
		p[i] = t.ByteAt(off + i)
	}
	return p
}
