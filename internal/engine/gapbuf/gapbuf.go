package gapbuf

import (
	"errors"
	"fmt"
	"io"
)

// DefaultBlockSize is the allocation granularity used when no block size is given.
const DefaultBlockSize = 10 * 1024

// ErrOutOfRange indicates an offset or length outside the live content.
var ErrOutOfRange = errors.New("offset out of range")

// Buffer is a gap buffer of bytes.
//
// The live content is data[:gapOffset] followed by data[gapOffset+gapLen():].
type Buffer struct {
	data       []byte
	gapOffset  int
	logicalLen int
	blockSize  int
}

// New creates an empty buffer that grows in blocks of blockSize bytes.
// A non-positive blockSize selects DefaultBlockSize.
func New(blockSize int) *Buffer {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &Buffer{blockSize: blockSize}
}

// NewFromBytes creates a buffer holding a copy of p.
func NewFromBytes(p []byte, blockSize int) *Buffer {
	b := New(blockSize)
	b.Reset(p)
	return b
}

// NewFromString creates a buffer holding s.
func NewFromString(s string, blockSize int) *Buffer {
	return NewFromBytes([]byte(s), blockSize)
}

// Len returns the number of live bytes.
func (b *Buffer) Len() int {
	return b.logicalLen
}

// Cap returns the physical size of the backing storage.
func (b *Buffer) Cap() int {
	return len(b.data)
}

// GapOffset returns the logical offset at which the gap currently starts.
func (b *Buffer) GapOffset() int {
	return b.gapOffset
}

// BlockSize returns the allocation granularity.
func (b *Buffer) BlockSize() int {
	return b.blockSize
}

func (b *Buffer) gapLen() int {
	return len(b.data) - b.logicalLen
}

// Reset replaces the whole content with a copy of p.
// The storage is reallocated to fit p, so Reset is the only way the buffer shrinks.
func (b *Buffer) Reset(p []byte) {
	size := roundUp(len(p), b.blockSize)
	data := make([]byte, size)
	copy(data, p)
	b.data = data
	b.gapOffset = len(p)
	b.logicalLen = len(p)
}

// Insert inserts p at offset.
func (b *Buffer) Insert(offset int, p []byte) error {
	if offset < 0 || offset > b.logicalLen {
		return fmt.Errorf("insert at %d (len %d): %w", offset, b.logicalLen, ErrOutOfRange)
	}
	if len(p) == 0 {
		return nil
	}
	if len(p) > b.gapLen() {
		b.grow(len(p))
	}
	b.moveGap(offset)
	copy(b.data[b.gapOffset:], p)
	b.gapOffset += len(p)
	b.logicalLen += len(p)
	return nil
}

// Delete removes length bytes starting at offset.
func (b *Buffer) Delete(offset, length int) error {
	if offset < 0 || length < 0 || offset > b.logicalLen || length > b.logicalLen-offset {
		return fmt.Errorf("delete [%d,+%d) (len %d): %w", offset, length, b.logicalLen, ErrOutOfRange)
	}
	if length == 0 {
		return nil
	}
	b.moveGap(offset + length)
	b.gapOffset -= length
	b.logicalLen -= length
	return nil
}

// Read returns a copy of length bytes starting at offset.
func (b *Buffer) Read(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset > b.logicalLen || length > b.logicalLen-offset {
		return nil, fmt.Errorf("read [%d,+%d) (len %d): %w", offset, length, b.logicalLen, ErrOutOfRange)
	}
	out := make([]byte, length)
	b.copyOut(out, offset)
	return out, nil
}

// ReadAt implements io.ReaderAt over the logical content.
func (b *Buffer) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("read at %d: %w", off, ErrOutOfRange)
	}
	if off >= int64(b.logicalLen) {
		return 0, io.EOF
	}
	n := len(p)
	if rest := b.logicalLen - int(off); n > rest {
		n = rest
	}
	b.copyOut(p[:n], int(off))
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// ByteAt returns the byte at offset. It panics if offset is outside [0, Len()),
// matching slice indexing.
func (b *Buffer) ByteAt(offset int) byte {
	if offset < 0 || offset >= b.logicalLen {
		panic(fmt.Sprintf("gapbuf: ByteAt(%d) outside [0,%d)", offset, b.logicalLen))
	}
	if offset < b.gapOffset {
		return b.data[offset]
	}
	return b.data[offset+b.gapLen()]
}

// Bytes returns a copy of the whole live content.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.logicalLen)
	b.copyOut(out, 0)
	return out
}

// String returns the live content as a string.
func (b *Buffer) String() string {
	return string(b.Bytes())
}

// WriteTo writes the live content to w without collapsing the gap.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n1, err := w.Write(b.data[:b.gapOffset])
	if err != nil {
		return int64(n1), err
	}
	n2, err := w.Write(b.data[b.gapOffset+b.gapLen():])
	return int64(n1 + n2), err
}

// copyOut fills dst with live bytes starting at logical offset.
// The caller has validated the range.
func (b *Buffer) copyOut(dst []byte, offset int) {
	n := 0
	if offset < b.gapOffset {
		n = copy(dst, b.data[offset:b.gapOffset])
		offset += n
	}
	if n < len(dst) {
		phys := offset + b.gapLen()
		copy(dst[n:], b.data[phys:])
	}
}

// moveGap relocates the gap so that it starts at logical offset pos.
func (b *Buffer) moveGap(pos int) {
	if pos == b.gapOffset {
		return
	}
	gap := b.gapLen()
	if pos < b.gapOffset {
		// Bytes [pos, gapOffset) slide right to sit just before the old gap end.
		copy(b.data[pos+gap:b.gapOffset+gap], b.data[pos:b.gapOffset])
	} else {
		// Bytes after the gap slide left into it.
		copy(b.data[b.gapOffset:pos], b.data[b.gapOffset+gap:pos+gap])
	}
	b.gapOffset = pos
}

// grow reallocates so the gap can absorb at least needed more bytes.
// The live content is laid out contiguously with the gap collapsed to the end.
func (b *Buffer) grow(needed int) {
	size := roundUp(b.logicalLen+needed, b.blockSize)
	data := make([]byte, size)
	b.copyOut(data[:b.logicalLen], 0)
	b.data = data
	b.gapOffset = b.logicalLen
}

func roundUp(n, block int) int {
	if n == 0 {
		return 0
	}
	return (n + block - 1) / block * block
}
