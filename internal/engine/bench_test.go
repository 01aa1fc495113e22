package engine

import (
	"strings"
	"testing"
)

// ============================================================================
// Setup Helpers
// ============================================================================

func setupLargeEngine(b *testing.B, lines int) *Engine {
	b.Helper()
	var sb strings.Builder
	line := strings.Repeat("x", 76) + " fox\n"
	for i := 0; i < lines; i++ {
		sb.WriteString(line)
	}
	return New(WithContent(sb.String()))
}

// ============================================================================
// Read Operation Benchmarks
// ============================================================================

func BenchmarkEngineText(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Text()
	}
}

func BenchmarkEngineTextRange(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.TextRange(400000, 1000)
	}
}

func BenchmarkEngineNextCursorPosition(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		off := 0
		for off < 8100 {
			off, _ = e.NextCursorPosition(off, WordKeyboard)
		}
	}
}

// ============================================================================
// Write Operation Benchmarks
// ============================================================================

func BenchmarkEngineTyping(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	off := e.Len() / 2
	e.StartAction("Typing", Selection{})
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.Insert(off+i, "a")
	}
}

func BenchmarkEngineScatteredEdits(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	n := e.Len()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		off := (i * 7919) % (n - 10)
		e.StartAction("Edit", Selection{})
		_ = e.Replace(off, "yy", 2)
	}
}

func BenchmarkEngineUndoRedo(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	e.StartAction("Edit", Selection{})
	_ = e.Replace(100, "hello", 50)
	e.MarkSaved()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.Undo()
		_, _ = e.Redo()
	}
}

// ============================================================================
// Load/Save and Search Benchmarks
// ============================================================================

func BenchmarkEngineLoadSave(b *testing.B) {
	src := setupLargeEngine(b, 10000)
	src.SetLineEnding(LineEndingCRLF)
	raw := src.SaveBytes()
	e := New()
	b.SetBytes(int64(len(raw)))
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = e.LoadBytes(raw)
		_ = e.SaveBytes()
	}
}

func BenchmarkEngineFindLiteral(b *testing.B) {
	e := setupLargeEngine(b, 10000)
	q := Query{Pattern: "fox", IgnoreCase: true}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.Find(i%e.Len(), q)
	}
}

func BenchmarkEngineFindRegexBackward(b *testing.B) {
	e := setupLargeEngine(b, 1000)
	q := Query{Pattern: `f[o]+x`, Regex: true, Direction: Backward}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = e.Find(e.Len()-(i%1000), q)
	}
}
