package cursor

import "fmt"

// Point is a zero-based line/column position. Columns count bytes.
type Point struct {
	Line   int
	Column int
}

// Less reports whether p comes before q.
func (p Point) Less(q Point) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
