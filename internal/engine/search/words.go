package search

import "github.com/dshills/textcore/internal/engine/motion"

// CollectWordsStartingWith returns the distinct words that begin with
// prefix, in the order they are met when searching from from in direction
// dir. The search wraps around the end of the text once and stops before
// revisiting its starting point. The prefix itself is not reported as a word.
func (s *Searcher) CollectWordsStartingWith(from int, dir Direction, prefix string) []string {
	if prefix == "" {
		return nil
	}
	n := s.text.Len()
	from = max(0, min(from, n))

	var words []string
	seen := make(map[string]bool)
	pos, wrapped := from, false
	for {
		sel, err := s.FindLiteral(pos, prefix, dir, false)
		if err != nil {
			if wrapped {
				break
			}
			wrapped = true
			if dir == Forward {
				pos = 0
			} else {
				pos = n
			}
			continue
		}

		hit := sel.Start()
		if wrapped && (dir == Forward && hit >= from || dir == Backward && hit+len(prefix) <= from) {
			break
		}
		if w, ok := s.wordAt(hit, len(prefix)); ok && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}

		if dir == Forward {
			pos = hit + 1
		} else {
			pos = hit + len(prefix) - 1
		}
	}
	return words
}

// wordAt returns the word that starts at off and is longer than minLen bytes.
func (s *Searcher) wordAt(off, minLen int) (string, bool) {
	end := motion.NextStop(s.text, off, motion.WordMouse)
	if end-off <= minLen || motion.PrevStop(s.text, end, motion.WordMouse) != off {
		return "", false
	}
	p, err := s.text.Read(off, end-off)
	if err != nil {
		return "", false
	}
	return string(p), true
}
