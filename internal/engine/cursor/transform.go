package cursor

// Edit describes a replacement of Removed bytes at Offset by Inserted bytes.
type Edit struct {
	Offset   int
	Removed  int
	Inserted int
}

// Delta returns the change in document length.
func (e Edit) Delta() int {
	return e.Inserted - e.Removed
}

// TransformOffset maps an offset across an edit.
//
// Offsets before the edit are unchanged, offsets after it shift by the
// delta, and offsets inside the replaced range move to the end of the
// inserted text. An offset equal to the edit offset stays put unless
// the edit removed nothing and sticky is false.
func TransformOffset(offset int, e Edit, sticky bool) int {
	switch end := e.Offset + e.Removed; {
	case offset < e.Offset:
		return offset
	case offset == e.Offset:
		if e.Removed == 0 && !sticky {
			return offset + e.Inserted
		}
		return offset
	case offset >= end:
		return offset + e.Delta()
	}
	return e.Offset + e.Inserted
}

// Transform maps a stream selection across an edit. The anchor is sticky,
// the head follows insertions. Block selections are returned unchanged.
func Transform(s Selection, e Edit) Selection {
	if s.Block {
		return s
	}
	s.Anchor = TransformOffset(s.Anchor, e, true)
	s.Head = TransformOffset(s.Head, e, false)
	return s
}
