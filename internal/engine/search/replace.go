package search

import "strings"

// ExpandReplacement expands a replacement template against the groups of a
// match, where groups[0] is the whole match.
//
//	$$       a literal $
//	$&       the whole match
//	$0..$9   the numbered group, empty if it does not exist
//	\n \r \t newline, carriage return, tab
//	\c       c, for any other character c
//
// The template is read left to right. Each escape consumes its $ or \ and
// exactly one following byte; a trailing $ or \ is kept as is.
func ExpandReplacement(template string, groups []string) string {
	var b strings.Builder
	b.Grow(len(template))
	group := func(i int) string {
		if i < len(groups) {
			return groups[i]
		}
		return ""
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		if (c != '$' && c != '\\') || i+1 == len(template) {
			b.WriteByte(c)
			continue
		}
		i++
		next := template[i]
		if c == '\\' {
			switch next {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(next)
			}
			continue
		}
		switch {
		case next == '$':
			b.WriteByte('$')
		case next == '&':
			b.WriteString(group(0))
		case next >= '0' && next <= '9':
			b.WriteString(group(int(next - '0')))
		default:
			b.WriteByte('$')
			b.WriteByte(next)
		}
	}
	return b.String()
}
