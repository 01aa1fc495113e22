package cursor

import "fmt"

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// IsEmpty reports whether the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Selection is a stream or block selection.
// For stream selections Anchor and Head are byte offsets and the points are
// ignored; for block selections the points are used and the offsets are not.
type Selection struct {
	Anchor int
	Head   int

	Block       bool
	AnchorPoint Point
	HeadPoint   Point
}

// New creates a stream selection from anchor to head.
func New(anchor, head int) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// Caret creates an empty selection at offset.
func Caret(offset int) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// NewBlock creates a block selection between two points.
func NewBlock(anchor, head Point) Selection {
	return Selection{Block: true, AnchorPoint: anchor, HeadPoint: head}
}

// IsEmpty reports whether the selection has no extent.
func (s Selection) IsEmpty() bool {
	if s.Block {
		return s.AnchorPoint == s.HeadPoint
	}
	return s.Anchor == s.Head
}

// Start returns the lower offset.
func (s Selection) Start() int {
	return min(s.Anchor, s.Head)
}

// End returns the upper offset.
func (s Selection) End() int {
	return max(s.Anchor, s.Head)
}

// Range returns the normalized byte range.
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Len returns the selection length in bytes.
func (s Selection) Len() int {
	return s.End() - s.Start()
}

// IsBackward reports whether the caret precedes the anchor.
func (s Selection) IsBackward() bool {
	if s.Block {
		return s.HeadPoint.Less(s.AnchorPoint)
	}
	return s.Head < s.Anchor
}

// Clamp limits both offsets to [0, n].
func (s Selection) Clamp(n int) Selection {
	s.Anchor = max(0, min(s.Anchor, n))
	s.Head = max(0, min(s.Head, n))
	return s
}

func (s Selection) String() string {
	if s.Block {
		return fmt.Sprintf("Block(%v-%v)", s.AnchorPoint, s.HeadPoint)
	}
	if s.IsEmpty() {
		return fmt.Sprintf("Caret(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}
