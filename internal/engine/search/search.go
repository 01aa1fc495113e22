package search

import (
	"errors"
	"fmt"

	"github.com/dshills/textcore/internal/engine/cursor"
)

// ErrNotFound is returned when a search finds no match.
var ErrNotFound = errors.New("not found")

// Text is the read-only view a Searcher works on.
type Text interface {
	Len() int
	ByteAt(off int) byte
	Read(off, n int) ([]byte, error)
}

// Direction is the direction of a search.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Query describes what to search for.
type Query struct {
	Pattern    string
	Regex      bool
	IgnoreCase bool
	Direction  Direction
}

// PatternError reports a regular expression that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Searcher runs searches against a Text. It caches the most recently
// compiled regular expression.
type Searcher struct {
	text Text
	last *compiled
}

// New returns a Searcher for t.
func New(t Text) *Searcher {
	return &Searcher{text: t}
}

// Find runs q from start.
//
// Forward searches return the first match starting at or after start.
// Backward searches return the last match that ends at or before start.
// The returned selection has the anchor at the match start and the head at
// its end.
func (s *Searcher) Find(start int, q Query) (cursor.Selection, error) {
	if q.Regex {
		return s.FindRegex(start, q.Pattern, q.Direction, q.IgnoreCase)
	}
	return s.FindLiteral(start, q.Pattern, q.Direction, q.IgnoreCase)
}

// FindAll returns every non-overlapping match of q in document order.
// The query direction is ignored.
func (s *Searcher) FindAll(q Query) ([]cursor.Range, error) {
	if !q.Regex {
		return s.findAllLiteral(q.Pattern, q.IgnoreCase), nil
	}
	c, err := s.compile(q.Pattern, q.IgnoreCase)
	if err != nil {
		return nil, err
	}
	data, err := s.text.Read(0, s.text.Len())
	if err != nil {
		return nil, err
	}
	var out []cursor.Range
	for _, loc := range c.re.FindAllIndex(data, -1) {
		out = append(out, cursor.Range{Start: loc[0], End: loc[1]})
	}
	return out, nil
}

// CanReplace reports whether the text under sel is exactly a match of q.
// It guards against replacing a stale search result. Regex assertions see
// the text around the selection.
func (s *Searcher) CanReplace(sel cursor.Selection, q Query) (bool, error) {
	m, err := s.matchSelection(sel, q)
	return m != nil, err
}

// matchSelection returns the submatch offsets of q exactly covering sel, or
// nil. Literal matches have a single group.
func (s *Searcher) matchSelection(sel cursor.Selection, q Query) ([]int, error) {
	if sel.Block {
		return nil, nil
	}
	r := sel.Clamp(s.text.Len()).Range()
	if !q.Regex {
		if r.Len() != len(q.Pattern) || r.IsEmpty() {
			return nil, nil
		}
		if !s.matchAt(r.Start, foldPattern(q.Pattern, q.IgnoreCase), q.IgnoreCase) {
			return nil, nil
		}
		return []int{r.Start, r.End}, nil
	}
	c, err := s.compile(q.Pattern, q.IgnoreCase)
	if err != nil {
		return nil, err
	}
	data, err := s.text.Read(0, s.text.Len())
	if err != nil {
		return nil, err
	}
	return c.matchExact(data, r.Start, r.End)
}

// ReplaceExpression returns the text that replaces the selection.
// For literal queries the template is used as is. For regex queries the
// selection must match q exactly and the template is expanded against its
// capture groups with ExpandReplacement.
func (s *Searcher) ReplaceExpression(sel cursor.Selection, q Query, template string) (string, error) {
	m, err := s.matchSelection(sel, q)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", ErrNotFound
	}
	if !q.Regex {
		return template, nil
	}
	data, err := s.text.Read(0, s.text.Len())
	if err != nil {
		return "", err
	}
	return ExpandReplacement(template, submatches(data, m)), nil
}

// Replacement is one match of a replace-all and the text that replaces it.
type Replacement struct {
	cursor.Range
	Text string
}

// Replacements returns every non-overlapping match of q in document order,
// each with template expanded against its groups. Literal queries use the
// template as is.
func (s *Searcher) Replacements(q Query, template string) ([]Replacement, error) {
	if !q.Regex {
		var out []Replacement
		for _, r := range s.findAllLiteral(q.Pattern, q.IgnoreCase) {
			out = append(out, Replacement{Range: r, Text: template})
		}
		return out, nil
	}
	c, err := s.compile(q.Pattern, q.IgnoreCase)
	if err != nil {
		return nil, err
	}
	data, err := s.text.Read(0, s.text.Len())
	if err != nil {
		return nil, err
	}
	var out []Replacement
	for _, loc := range c.re.FindAllSubmatchIndex(data, -1) {
		out = append(out, Replacement{
			Range: cursor.Range{Start: loc[0], End: loc[1]},
			Text:  ExpandReplacement(template, submatches(data, loc)),
		})
	}
	return out, nil
}

// submatches returns the text of each group in loc. Unmatched groups are
// empty.
func submatches(data []byte, loc []int) []string {
	groups := make([]string, len(loc)/2)
	for i := range groups {
		if lo, hi := loc[2*i], loc[2*i+1]; lo >= 0 {
			groups[i] = string(data[lo:hi])
		}
	}
	return groups
}
