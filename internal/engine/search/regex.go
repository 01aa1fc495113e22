package search

import (
	"regexp"
	"regexp/syntax"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/textcore/internal/engine/cursor"
	"github.com/dshills/textcore/internal/engine/motion"
)

// compiled holds the forms of one pattern needed by the searches.
type compiled struct {
	pattern    string
	ignoreCase bool
	flags      string

	re    *regexp.Regexp // unanchored, for scans from offset 0
	first firstInfo

	// anchored forms, keyed by source
	forms map[string]*regexp.Regexp
}

// Anchored forms wrap the pattern in group 1 and may consume one character
// of context on either side, so that ^, $, \b and \B see the neighbours a
// whole-text scan would see.
const (
	contextChar = `(?s:.)`
	skipAhead   = contextChar + `(?s:.*?)`
	runOn       = `(?s:.+)\z`
)

func (s *Searcher) compile(pattern string, ignoreCase bool) (*compiled, error) {
	if c := s.last; c != nil && c.pattern == pattern && c.ignoreCase == ignoreCase {
		return c, nil
	}

	flags := "(?m)"
	if ignoreCase {
		flags = "(?mi)"
	}
	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	c := &compiled{
		pattern:    pattern,
		ignoreCase: ignoreCase,
		flags:      flags,
		re:         re,
		first:      analyze(flags + pattern),
		forms:      make(map[string]*regexp.Regexp),
	}
	s.last = c
	return c, nil
}

// form returns the pattern anchored at the start of its input, preceded by
// head and followed by tail.
func (c *compiled) form(head, tail string) (*regexp.Regexp, error) {
	src := c.flags + `\A` + head + "(" + c.pattern + ")" + tail
	if re, ok := c.forms[src]; ok {
		return re, nil
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, &PatternError{Pattern: c.pattern, Err: err}
	}
	c.forms[src] = re
	return re, nil
}

// leftContext returns the head to use for a match starting at pos and the
// offset the input must start from.
func leftContext(data []byte, pos int) (head string, from int) {
	if pos == 0 {
		return "", 0
	}
	_, w := utf8.DecodeLastRune(data[:pos])
	return contextChar, pos - w
}

// rightContext returns the tail that pins a match end at end, and the
// offset the input must stop at.
func rightContext(data []byte, end int) (tail string, to int) {
	if end >= len(data) {
		return `\z`, len(data)
	}
	_, w := utf8.DecodeRune(data[end:])
	return contextChar + `\z`, end + w
}

// groups maps the submatch indices of an anchored form, found in an input
// starting at from, to offsets in data. Element 0 and 1 are the match.
func groups(loc []int, from int) []int {
	out := make([]int, 0, len(loc)-2)
	for _, i := range loc[2:] {
		if i >= 0 {
			i += from
		}
		out = append(out, i)
	}
	return out
}

// matchAt returns the submatch offsets of the preferred match starting at
// pos, or nil if none starts there. Matches past limit are not accepted;
// when the preferred one runs past it, the first alternative that stops in
// time is used instead.
func (c *compiled) matchAt(data []byte, pos, limit int) ([]int, error) {
	head, from := leftContext(data, pos)
	re, err := c.form(head, "")
	if err != nil {
		return nil, err
	}
	loc := re.FindSubmatchIndex(data[from:])
	if loc == nil || from+loc[2] != pos {
		return nil, nil
	}
	if from+loc[3] <= limit {
		return groups(loc, from), nil
	}
	if limit >= len(data) {
		return nil, nil
	}

	_, to := rightContext(data, limit)
	if re, err = c.form(head, runOn); err != nil {
		return nil, err
	}
	loc = re.FindSubmatchIndex(data[from:to])
	if loc == nil || from+loc[2] != pos || from+loc[3] > limit {
		return nil, nil
	}
	return groups(loc, from), nil
}

// matchExact returns the submatch offsets of a match covering exactly
// [start, end), or nil.
func (c *compiled) matchExact(data []byte, start, end int) ([]int, error) {
	head, from := leftContext(data, start)
	tail, to := rightContext(data, end)
	re, err := c.form(head, tail)
	if err != nil {
		return nil, err
	}
	loc := re.FindSubmatchIndex(data[from:to])
	if loc == nil || from+loc[2] != start || from+loc[3] != end {
		return nil, nil
	}
	return groups(loc, from), nil
}

// matchAfter returns the submatch offsets of the first match starting at or
// after start, or nil.
func (c *compiled) matchAfter(data []byte, start int) ([]int, error) {
	if start == 0 {
		return c.re.FindSubmatchIndex(data), nil
	}
	_, from := leftContext(data, start)
	re, err := c.form(skipAhead, "")
	if err != nil {
		return nil, err
	}
	loc := re.FindSubmatchIndex(data[from:])
	if loc == nil {
		return nil, nil
	}
	return groups(loc, from), nil
}

// firstInfo records where a match of a pattern can start.
type firstInfo struct {
	any       bool // any position may start a match
	textStart bool // matches start only at offset 0
	lineStart bool // matches start only at a line start
	bytes     [256]bool
}

// analyze derives first-byte information from the compiled program.
func analyze(pattern string) firstInfo {
	info := firstInfo{any: true}
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return info
	}
	prog, err := syntax.Compile(re.Simplify())
	if err != nil {
		return info
	}

	cond := prog.StartCond()
	info.textStart = cond&syntax.EmptyBeginText != 0
	info.lineStart = cond&syntax.EmptyBeginLine != 0

	seen := make(map[uint32]bool)
	stack := []uint32{uint32(prog.Start)}
	info.any = false
	for len(stack) > 0 && !info.any {
		pc := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[pc] {
			continue
		}
		seen[pc] = true

		inst := &prog.Inst[pc]
		switch inst.Op {
		case syntax.InstAlt, syntax.InstAltMatch:
			stack = append(stack, inst.Out, inst.Arg)
		case syntax.InstCapture, syntax.InstNop, syntax.InstEmptyWidth:
			stack = append(stack, inst.Out)
		case syntax.InstRune1:
			info.addRune(inst.Rune[0], syntax.Flags(inst.Arg)&syntax.FoldCase != 0)
		case syntax.InstRune:
			fold := syntax.Flags(inst.Arg)&syntax.FoldCase != 0
			if len(inst.Rune) == 1 {
				info.addRune(inst.Rune[0], fold)
				break
			}
			for i := 0; i+1 < len(inst.Rune); i += 2 {
				info.addRange(inst.Rune[i], inst.Rune[i+1], fold)
			}
		case syntax.InstRuneAnyNotNL:
			for b := range info.bytes {
				if b != '\n' {
					info.bytes[b] = true
				}
			}
		default:
			// InstMatch (empty match possible), InstRuneAny, InstFail.
			info.any = true
		}
	}
	return info
}

func leadByte(r rune) byte {
	var buf [utf8.UTFMax]byte
	utf8.EncodeRune(buf[:], r)
	return buf[0]
}

func (f *firstInfo) addRune(r rune, fold bool) {
	f.bytes[leadByte(r)] = true
	if !fold {
		return
	}
	for c := unicode.SimpleFold(r); c != r; c = unicode.SimpleFold(c) {
		f.bytes[leadByte(c)] = true
	}
}

// addRange marks the lead bytes of [lo, hi]. Lead bytes grow with the
// code point, so the range of leads is contiguous.
func (f *firstInfo) addRange(lo, hi rune, fold bool) {
	if fold {
		for b := 0x80; b < 0x100; b++ {
			f.bytes[b] = true
		}
		for c := max(lo, 0); c <= min(hi, 0x7F); c++ {
			f.bytes[upper[c]] = true
			f.bytes[lower(byte(c))] = true
		}
	}
	// Surrogates have no UTF-8 form.
	if lo >= 0xD800 && lo <= 0xDFFF {
		lo = 0xE000
	}
	if hi >= 0xD800 && hi <= 0xDFFF {
		hi = 0xD7FF
	}
	hi = min(hi, utf8.MaxRune)
	if lo > hi {
		return
	}
	for b := int(leadByte(lo)); b <= int(leadByte(hi)); b++ {
		f.bytes[b] = true
	}
}

// candidate reports whether a match could start at pos in data.
func (f *firstInfo) candidate(data []byte, pos int) bool {
	if f.textStart && pos != 0 {
		return false
	}
	if f.lineStart && pos != 0 && data[pos-1] != '\n' {
		return false
	}
	if f.any {
		return true
	}
	return pos < len(data) && f.bytes[data[pos]]
}

// FindRegex searches for the regular expression pattern starting at start.
// Assertions such as ^, $ and \b are evaluated against the whole text, so
// a search starting mid-line does not treat start as a line start.
func (s *Searcher) FindRegex(start int, pattern string, dir Direction, ignoreCase bool) (cursor.Selection, error) {
	c, err := s.compile(pattern, ignoreCase)
	if err != nil {
		return cursor.Selection{}, err
	}
	n := s.text.Len()
	start = max(0, min(start, n))
	data, err := s.text.Read(0, n)
	if err != nil {
		return cursor.Selection{}, err
	}

	if dir == Forward {
		m, err := c.matchAfter(data, start)
		if err != nil {
			return cursor.Selection{}, err
		}
		if m == nil {
			return cursor.Selection{}, ErrNotFound
		}
		return cursor.New(m[0], m[1]), nil
	}

	text := motion.Bytes(data)
	for pos := start; ; {
		if c.first.candidate(data, pos) {
			m, err := c.matchAt(data, pos, start)
			if err != nil {
				return cursor.Selection{}, err
			}
			if m != nil {
				return cursor.New(m[0], m[1]), nil
			}
		}
		if pos == 0 {
			return cursor.Selection{}, ErrNotFound
		}
		pos -= motion.PrevCharLen(text, pos)
	}
}
