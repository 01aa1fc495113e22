package search

import "github.com/dshills/textcore/internal/engine/cursor"

// upper maps ASCII lower-case letters to upper case and every other byte to itself.
var upper = func() (t [256]byte) {
	for i := range t {
		t[i] = byte(i)
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] = byte(c - 'a' + 'A')
	}
	return t
}()

func foldPattern(pattern string, ignoreCase bool) []byte {
	p := []byte(pattern)
	if ignoreCase {
		for i, c := range p {
			p[i] = upper[c]
		}
	}
	return p
}

// FindLiteral searches for pattern starting at start. An empty pattern is
// never found.
func (s *Searcher) FindLiteral(start int, pattern string, dir Direction, ignoreCase bool) (cursor.Selection, error) {
	if pattern == "" {
		return cursor.Selection{}, ErrNotFound
	}
	start = max(0, min(start, s.text.Len()))
	pat := foldPattern(pattern, ignoreCase)

	var pos int
	if dir == Backward {
		pos = s.horspoolBackward(start, pat, ignoreCase)
	} else {
		pos = s.horspoolForward(start, pat, ignoreCase)
	}
	if pos < 0 {
		return cursor.Selection{}, ErrNotFound
	}
	return cursor.New(pos, pos+len(pat)), nil
}

// byteAt returns the byte at off, folded when ignoreCase is set.
func (s *Searcher) byteAt(off int, ignoreCase bool) byte {
	c := s.text.ByteAt(off)
	if ignoreCase {
		return upper[c]
	}
	return c
}

// horspoolForward returns the first position >= start where pat occurs, or -1.
//
// skip[c] is the distance from the last occurrence of c in pat[:m-1] to the
// end of the pattern. After a mismatch the window moves by the skip of its
// last byte, which never passes over a match.
func (s *Searcher) horspoolForward(start int, pat []byte, ignoreCase bool) int {
	m, n := len(pat), s.text.Len()
	var skip [256]int
	for i := range skip {
		skip[i] = m
	}
	for i := 0; i < m-1; i++ {
		skip[pat[i]] = m - 1 - i
		if ignoreCase {
			skip[lower(pat[i])] = m - 1 - i
		}
	}

	for pos := start; pos+m <= n; {
		j := m - 1
		for j >= 0 && s.byteAt(pos+j, ignoreCase) == pat[j] {
			j--
		}
		if j < 0 {
			return pos
		}
		pos += max(skip[s.text.ByteAt(pos+m-1)], 1)
	}
	return -1
}

// horspoolBackward returns the last position p with p+len(pat) <= end where
// pat occurs, or -1. It mirrors horspoolForward: the window is compared
// left to right and moves left by the skip of its first byte.
func (s *Searcher) horspoolBackward(end int, pat []byte, ignoreCase bool) int {
	m := len(pat)
	var skip [256]int
	for i := range skip {
		skip[i] = m
	}
	for i := m - 1; i > 0; i-- {
		skip[pat[i]] = i
		if ignoreCase {
			skip[lower(pat[i])] = i
		}
	}

	for pos := end - m; pos >= 0; {
		j := 0
		for j < m && s.byteAt(pos+j, ignoreCase) == pat[j] {
			j++
		}
		if j == m {
			return pos
		}
		pos -= max(skip[s.text.ByteAt(pos)], 1)
	}
	return -1
}

// lower is the inverse of upper for ASCII letters.
func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c - 'A' + 'a'
	}
	return c
}

// matchAt reports whether the folded pattern occurs at pos.
func (s *Searcher) matchAt(pos int, pat []byte, ignoreCase bool) bool {
	if pos < 0 || pos+len(pat) > s.text.Len() {
		return false
	}
	for j, c := range pat {
		if s.byteAt(pos+j, ignoreCase) != c {
			return false
		}
	}
	return true
}

// findAllLiteral returns non-overlapping matches from the start of the text.
func (s *Searcher) findAllLiteral(pattern string, ignoreCase bool) []cursor.Range {
	if pattern == "" {
		return nil
	}
	pat := foldPattern(pattern, ignoreCase)
	var out []cursor.Range
	for pos := 0; ; {
		pos = s.horspoolForward(pos, pat, ignoreCase)
		if pos < 0 {
			return out
		}
		out = append(out, cursor.Range{Start: pos, End: pos + len(pat)})
		pos += len(pat)
	}
}
