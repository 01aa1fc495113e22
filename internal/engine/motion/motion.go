package motion

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Granularity selects the unit a cursor step moves over.
type Granularity uint8

const (
	Char         Granularity = iota // one grapheme cluster
	WordKeyboard                    // ctrl+arrow word motion
	WordMouse                       // double-click word selection
)

func (g Granularity) String() string {
	switch g {
	case Char:
		return "char"
	case WordKeyboard:
		return "word"
	case WordMouse:
		return "mouse-word"
	}
	return fmt.Sprintf("Granularity(%d)", uint8(g))
}

// ParseGranularity accepts the names returned by String.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(s) {
	case "char", "character":
		return Char, nil
	case "word", "keyboard":
		return WordKeyboard, nil
	case "mouse-word", "mouse":
		return WordMouse, nil
	}
	return Char, fmt.Errorf("unknown granularity %q", s)
}

// clusterWindow bounds how far a single grapheme step looks.
const clusterWindow = 256

// NextStop returns the next cursor stop after off. Offsets outside the
// text are clamped; at the end of the text it returns t.Len().
func NextStop(t Text, off int, g Granularity) int {
	n := t.Len()
	if off >= n {
		return n
	}
	off = max(off, 0)
	if g == Char {
		return off + clusterLen(window(t, off, clusterWindow))
	}

	fwd := keyboardForward
	if g == WordMouse {
		fwd = mouseForward
	}

	r, size := DecodeRune(t, off)
	c := Classify(r)
	if c.IsLineTerminator() {
		off += size
		if c == ClassCR && off < n && t.ByteAt(off) == '\n' {
			off++
		}
		return off
	}

	state := int(fwd[0][column(c)])
	off += size
	for off < n {
		r, size = DecodeRune(t, off)
		c = Classify(r)
		if c.IsLineTerminator() {
			break
		}
		next := fwd[state][column(c)]
		if next == stop {
			break
		}
		state = int(next)
		off += size
	}
	return off
}

// PrevStop returns the previous cursor stop before off. Offsets outside
// the text are clamped; at the start of the text it returns 0.
func PrevStop(t Text, off int, g Granularity) int {
	if off <= 0 {
		return 0
	}
	off = min(off, t.Len())
	if g == Char {
		start := max(0, off-clusterWindow)
		for start < off && start > 0 && isContinuation(t.ByteAt(start)) {
			start++
		}
		return off - lastClusterLen(window(t, start, off-start))
	}

	bwd := keyboardBackward
	if g == WordMouse {
		bwd = mouseBackward
	}

	r, size := DecodeLastRune(t, off)
	c := Classify(r)
	if c.IsLineTerminator() {
		off -= size
		if c == ClassLF && off > 0 && t.ByteAt(off-1) == '\r' {
			off--
		}
		return off
	}

	state := int(bwd[0][column(c)])
	off -= size
	for off > 0 {
		r, size = DecodeLastRune(t, off)
		c = Classify(r)
		if c.IsLineTerminator() {
			break
		}
		next := bwd[state][column(c)]
		if next == stop {
			break
		}
		state = int(next)
		off -= size
	}
	return off
}

// WordBounds returns the double-click word around off as [start, end).
// At the end of the text it returns the word before off.
func WordBounds(t Text, off int) (start, end int) {
	n := t.Len()
	off = max(0, min(off, n))
	if off == n {
		return PrevStop(t, off, WordMouse), off
	}
	end = NextStop(t, off, WordMouse)
	return PrevStop(t, end, WordMouse), end
}

// clusterLen returns the length of the first grapheme cluster in p.
// A malformed sequence is a cluster of its declared length.
func clusterLen(p []byte) int {
	if len(p) == 0 {
		return 0
	}
	n := declaredLen(p[0])
	if n == 0 {
		return 1
	}
	n = min(n, len(p))
	if r, size := utf8.DecodeRune(p); r == utf8.RuneError && size <= 1 {
		return n
	}
	cluster, _, _, _ := uniseg.FirstGraphemeCluster(p, -1)
	return max(len(cluster), n)
}

// lastClusterLen returns the length of the last grapheme cluster in p.
func lastClusterLen(p []byte) int {
	i := 0
	for i < len(p) {
		n := clusterLen(p[i:])
		if i+n >= len(p) {
			return len(p) - i
		}
		i += n
	}
	return 1
}
