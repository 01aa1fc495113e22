package codec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// LineEnding specifies the on-disk line terminator convention.
type LineEnding uint8

const (
	LF   LineEnding = iota // Unix: \n
	CRLF                   // Windows: \r\n
	CR                     // Old Mac: \r
)

// ErrUnknownLineEnding is returned by ParseLineEnding for unrecognised names.
var ErrUnknownLineEnding = errors.New("unknown line ending")

// String returns the short name of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LF:
		return "lf"
	case CRLF:
		return "crlf"
	case CR:
		return "cr"
	default:
		return fmt.Sprintf("LineEnding(%d)", uint8(le))
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case CRLF:
		return "\r\n"
	case CR:
		return "\r"
	default:
		return "\n"
	}
}

// ParseLineEnding accepts "lf", "crlf", "cr" and the escaped sequences.
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lf", "unix", `\n`:
		return LF, nil
	case "crlf", "dos", "windows", `\r\n`:
		return CRLF, nil
	case "cr", "mac", `\r`:
		return CR, nil
	}
	return LF, fmt.Errorf("%q: %w", s, ErrUnknownLineEnding)
}

// DetectLineEnding classifies text by its first line terminator.
// Text without any terminator is LF.
func DetectLineEnding(p []byte) LineEnding {
	i := bytes.IndexAny(p, "\r\n")
	if i < 0 || p[i] == '\n' {
		return LF
	}
	if i+1 < len(p) && p[i+1] == '\n' {
		return CRLF
	}
	return CR
}

// NormalizeEOL rewrites p to LF-only form and reports the convention it found.
//
// The convention is decided by the first terminator. For CRLF every "\r\n"
// pair loses its "\r" in a single left-compacting pass; for CR every "\r"
// becomes "\n". LF input is returned unchanged. The rewrite happens in place
// and the returned slice aliases p.
func NormalizeEOL(p []byte) ([]byte, LineEnding) {
	le := DetectLineEnding(p)
	switch le {
	case CRLF:
		w := 0
		for r := 0; r < len(p); r++ {
			if p[r] == '\r' && r+1 < len(p) && p[r+1] == '\n' {
				continue
			}
			p[w] = p[r]
			w++
		}
		p = p[:w]
	case CR:
		for i, c := range p {
			if c == '\r' {
				p[i] = '\n'
			}
		}
	}
	return p, le
}

// ExpandEOL converts LF-only text to the given convention.
// The result is a new slice unless le is LF.
func ExpandEOL(p []byte, le LineEnding) []byte {
	switch le {
	case CR:
		out := make([]byte, len(p))
		for i, c := range p {
			if c == '\n' {
				c = '\r'
			}
			out[i] = c
		}
		return out
	case CRLF:
		n := bytes.Count(p, []byte{'\n'})
		if n == 0 {
			return append([]byte(nil), p...)
		}
		out := make([]byte, 0, len(p)+n)
		for _, c := range p {
			if c == '\n' {
				out = append(out, '\r')
			}
			out = append(out, c)
		}
		return out
	}
	return p
}
