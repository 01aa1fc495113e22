package gapbuf

import (
	"testing"
)

// FuzzInsert checks insertion against string concatenation.
func FuzzInsert(f *testing.F) {
	f.Add("hello", 0, "x")
	f.Add("hello", 5, "x")
	f.Add("hello", 3, "world")
	f.Add("", 0, "test")
	f.Add("日本語", 3, "x")

	f.Fuzz(func(t *testing.T, initial string, offset int, insert string) {
		b := NewFromString(initial, 8)

		if offset < 0 {
			offset = 0
		}
		if offset > len(initial) {
			offset = len(initial)
		}

		if err := b.Insert(offset, []byte(insert)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		expected := initial[:offset] + insert + initial[offset:]
		if b.String() != expected {
			t.Errorf("insert mismatch at offset %d", offset)
		}
	})
}

// FuzzInsertDelete checks that deleting what was inserted restores the original.
func FuzzInsertDelete(f *testing.F) {
	f.Add("hello world", 6, "big ", 2)
	f.Add("", 0, "abc", 0)
	f.Add("日本語", 3, "x", 1)

	f.Fuzz(func(t *testing.T, initial string, offset int, insert string, pre int) {
		b := NewFromString(initial, 4)
		if offset < 0 || offset > len(initial) {
			return
		}
		// Park the gap somewhere else first.
		if pre >= 0 && pre <= len(initial) {
			_ = b.Insert(pre, []byte{'#'})
			_ = b.Delete(pre, 1)
		}

		if err := b.Insert(offset, []byte(insert)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
		if err := b.Delete(offset, len(insert)); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if b.String() != initial {
			t.Errorf("round trip mismatch: %q != %q", b.String(), initial)
		}
	})
}
