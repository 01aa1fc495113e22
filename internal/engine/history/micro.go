package history

import "fmt"

// Buffer is the storage a History edits.
type Buffer interface {
	Insert(off int, p []byte) error
	Delete(off, n int) error
	Read(off, n int) ([]byte, error)
}

// MicroAction is a single insertion (Length > 0) or deletion (Length < 0)
// at Offset.
type MicroAction struct {
	Length int
	Offset int

	saved []byte
}

// IsInsert reports whether the micro action inserted text.
func (m *MicroAction) IsInsert() bool {
	return m.Length > 0
}

// Size returns the number of bytes inserted or deleted.
func (m *MicroAction) Size() int {
	if m.Length < 0 {
		return -m.Length
	}
	return m.Length
}

// Saved returns the bytes held by the micro action, if any.
func (m *MicroAction) Saved() []byte {
	return m.saved
}

// apply performs the edit on buf.
func (m *MicroAction) apply(buf Buffer) error {
	if m.IsInsert() {
		if err := buf.Insert(m.Offset, m.saved); err != nil {
			return fmt.Errorf("reinsert %d bytes at %d: %w", m.Length, m.Offset, err)
		}
		m.saved = nil
		return nil
	}
	saved, err := buf.Read(m.Offset, -m.Length)
	if err != nil {
		return fmt.Errorf("redelete %d bytes at %d: %w", -m.Length, m.Offset, err)
	}
	if err := buf.Delete(m.Offset, -m.Length); err != nil {
		return fmt.Errorf("redelete %d bytes at %d: %w", -m.Length, m.Offset, err)
	}
	m.saved = saved
	return nil
}

// revert reverses the edit on buf.
func (m *MicroAction) revert(buf Buffer) error {
	if !m.IsInsert() {
		if err := buf.Insert(m.Offset, m.saved); err != nil {
			return fmt.Errorf("restore %d bytes at %d: %w", -m.Length, m.Offset, err)
		}
		m.saved = nil
		return nil
	}
	saved, err := buf.Read(m.Offset, m.Length)
	if err != nil {
		return fmt.Errorf("remove %d bytes at %d: %w", m.Length, m.Offset, err)
	}
	if err := buf.Delete(m.Offset, m.Length); err != nil {
		return fmt.Errorf("remove %d bytes at %d: %w", m.Length, m.Offset, err)
	}
	m.saved = saved
	return nil
}
