package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/dshills/textcore/internal/config/watcher"
	"github.com/dshills/textcore/internal/engine"
	"github.com/dshills/textcore/internal/engine/codec"
)

func newFlagSet(e *env, name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: textcore %s %s\n\nOptions:\n", name, usage)
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses args and checks the positional argument count.
func parseArgs(fs *flag.FlagSet, args []string, minArgs, maxArgs int) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < minArgs || (maxArgs >= 0 && fs.NArg() > maxArgs) {
		fs.Usage()
		return errUsage
	}
	return nil
}

// ============================================================================
// info
// ============================================================================

type infoReport struct {
	File       string          `json:"file"`
	ID         string          `json:"id"`
	Attributes codec.Attributes `json:"attributes"`
	Bytes      int             `json:"bytes"`
	Lines      int             `json:"lines"`
	Charset    string          `json:"charset,omitempty"`
}

func runInfo(e *env, args []string) error {
	fs := newFlagSet(e, "info", "[-json] FILE...")
	asJSON := fs.Bool("json", false, "Print a JSON report")
	if err := parseArgs(fs, args, 1, -1); err != nil {
		return err
	}

	for _, name := range fs.Args() {
		doc, err := e.openDocument(name)
		if err != nil {
			return err
		}
		text := doc.Text()
		rep := infoReport{
			File:       name,
			ID:         doc.ID().String(),
			Attributes: doc.Attributes(),
			Bytes:      doc.Len(),
			Lines:      countLines(text),
		}
		if rep.Attributes.Encoding == codec.Legacy {
			rep.Charset = e.cfg.Engine.LegacyCharset
		}

		if !*asJSON {
			fmt.Fprintf(e.stdout, "%s: %s, %d bytes, %d lines\n", name, rep.Attributes, rep.Bytes, rep.Lines)
			continue
		}
		if err := writeJSON(e.stdout, rep); err != nil {
			return err
		}
	}
	return nil
}

func countLines(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// writeJSON pretty-prints v, in color when w is a terminal.
func writeJSON(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	b = pretty.Pretty(b)
	if isTerminal(w) {
		b = pretty.Color(b, nil)
	}
	_, err = w.Write(b)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ============================================================================
// convert
// ============================================================================

func runConvert(e *env, args []string) error {
	fs := newFlagSet(e, "convert", "[-encoding E] [-eol L] [-bom|-no-bom] [-o OUT] FILE")
	enc := fs.String("encoding", "", "Target encoding (utf-8, utf-16le, utf-16be, legacy)")
	eol := fs.String("eol", "", "Target line ending (lf, crlf, cr)")
	bom := fs.Bool("bom", false, "Write a byte-order mark")
	noBOM := fs.Bool("no-bom", false, "Do not write a byte-order mark")
	out := fs.String("o", "", "Output file (default: overwrite FILE)")
	if err := parseArgs(fs, args, 1, 1); err != nil {
		return err
	}
	if *bom && *noBOM {
		fmt.Fprintln(e.stderr, "Error: -bom and -no-bom are exclusive")
		return errUsage
	}

	name := fs.Arg(0)
	target := name
	if *out != "" {
		target = *out
	}

	doc, err := e.openDocument(name)
	if err != nil {
		return err
	}
	before := doc.Attributes()

	// Without explicit flags the configured overrides for the target decide.
	attrs := before
	if *enc == "" && *eol == "" && !*bom && !*noBOM {
		attrs = e.cfg.AttributesFor(target)
	}
	if *enc != "" {
		v, err := codec.ParseEncoding(*enc)
		if err != nil {
			return err
		}
		attrs.Encoding = v
	}
	if *eol != "" {
		v, err := codec.ParseLineEnding(*eol)
		if err != nil {
			return err
		}
		attrs.EOL = v
	}
	switch {
	case *bom:
		attrs.BOM = true
	case *noBOM:
		attrs.BOM = false
	}

	doc.SetAttributes(attrs)
	if !doc.Modified() && target == name {
		fmt.Fprintf(e.stderr, "%s: already %s\n", name, attrs)
		return nil
	}
	if err := saveDocument(doc, target); err != nil {
		return err
	}
	fmt.Fprintf(e.stderr, "%s: %s -> %s\n", target, before, attrs)
	return nil
}

// ============================================================================
// find
// ============================================================================

func runFind(e *env, args []string) error {
	fs := newFlagSet(e, "find", "[-regex] [-i] [-backward] [-from N] PATTERN FILE")
	regex := fs.Bool("regex", false, "Treat PATTERN as a regular expression")
	ignoreCase := fs.Bool("i", false, "Ignore case")
	backward := fs.Bool("backward", false, "Search from the end towards the start")
	from := fs.Int("from", -1, "Start offset (default: start or end of file)")
	if err := parseArgs(fs, args, 2, 2); err != nil {
		return err
	}

	q := engine.Query{Pattern: fs.Arg(0), Regex: *regex, IgnoreCase: *ignoreCase}
	if *backward {
		q.Direction = engine.Backward
	}
	name := fs.Arg(1)
	doc, err := e.openDocument(name)
	if err != nil {
		return err
	}

	start := *from
	if start < 0 {
		start = 0
		if *backward {
			start = doc.Len()
		}
	}

	text := doc.Text()
	found := 0
	for {
		sel, err := doc.Find(start, q)
		if errors.Is(err, engine.ErrNotFound) {
			break
		}
		if err != nil {
			return err
		}
		found++
		line, col := lineCol(text, sel.Start())
		fmt.Fprintf(e.stdout, "%s:%d:%d: %q\n", name, line, col, text[sel.Start():sel.End()])

		next, ok := nextStart(doc, sel, start, *backward)
		if !ok {
			break
		}
		start = next
	}
	if found == 0 {
		return fmt.Errorf("%q: %w", q.Pattern, engine.ErrNotFound)
	}
	return nil
}

// nextStart returns where to resume after sel. An empty match at the
// current start steps over one character so the loop advances.
func nextStart(doc *engine.Engine, sel engine.Selection, start int, backward bool) (int, bool) {
	if backward {
		next := sel.Start()
		if next < start {
			return next, true
		}
		if start == 0 {
			return 0, false
		}
		prev, err := doc.PreviousCursorPosition(start, engine.Char)
		return prev, err == nil
	}
	next := sel.End()
	if next > start {
		return next, true
	}
	if start == doc.Len() {
		return 0, false
	}
	n, err := doc.NextCursorPosition(start, engine.Char)
	return n, err == nil
}

// lineCol returns the 1-based line and byte column of off.
func lineCol(text string, off int) (int, int) {
	head := text[:off]
	return strings.Count(head, "\n") + 1, off - strings.LastIndexByte(head, '\n')
}

// ============================================================================
// replace
// ============================================================================

func runReplace(e *env, args []string) error {
	fs := newFlagSet(e, "replace", "[-regex] [-i] [-n] [-o OUT] PATTERN REPLACEMENT FILE")
	regex := fs.Bool("regex", false, "Treat PATTERN as a regular expression; REPLACEMENT may use $0-$9 and $&")
	ignoreCase := fs.Bool("i", false, "Ignore case")
	dryRun := fs.Bool("n", false, "Print the result instead of writing it")
	out := fs.String("o", "", "Output file (default: overwrite FILE)")
	if err := parseArgs(fs, args, 3, 3); err != nil {
		return err
	}

	q := engine.Query{Pattern: fs.Arg(0), Regex: *regex, IgnoreCase: *ignoreCase}
	name := fs.Arg(2)
	target := name
	if *out != "" {
		target = *out
	}

	doc, err := e.openDocument(name)
	if err != nil {
		return err
	}
	n, err := doc.ReplaceAll(q, fs.Arg(1), engine.Selection{})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stderr, "%s: %d replacements\n", name, n)

	if *dryRun {
		_, err := io.WriteString(e.stdout, doc.Text())
		return err
	}
	if n == 0 && target == name {
		return nil
	}
	return saveDocument(doc, target)
}

// ============================================================================
// words
// ============================================================================

func runWords(e *env, args []string) error {
	fs := newFlagSet(e, "words", "[-from N] [-backward] PREFIX FILE")
	from := fs.Int("from", 0, "Offset to start collecting from")
	backward := fs.Bool("backward", false, "Collect towards the start of the file")
	if err := parseArgs(fs, args, 2, 2); err != nil {
		return err
	}

	doc, err := e.openDocument(fs.Arg(1))
	if err != nil {
		return err
	}
	dir := engine.Forward
	if *backward {
		dir = engine.Backward
	}
	for _, w := range doc.CollectWordsStartingWith(*from, dir, fs.Arg(0)) {
		fmt.Fprintln(e.stdout, w)
	}
	return nil
}

// ============================================================================
// watch
// ============================================================================

func runWatch(e *env, args []string) error {
	fs := newFlagSet(e, "watch", "[-debounce D]")
	debounce := fs.Duration("debounce", watcher.DefaultDebounce, "Quiet period before a reload")
	if err := parseArgs(fs, args, 0, 0); err != nil {
		return err
	}
	if e.cfgPath == "" {
		return errors.New("no configuration path; use -config")
	}

	w, err := watcher.New(e.cfgPath,
		watcher.WithDebounce(*debounce),
		watcher.WithEnv(os.LookupEnv),
		watcher.WithLogger(e.log),
	)
	if err != nil {
		return err
	}
	defer w.Close()

	fmt.Fprintf(e.stderr, "watching %s\n", w.Path())
	for {
		select {
		case <-e.ctx.Done():
			return nil
		case u, ok := <-w.Updates():
			if !ok {
				return nil
			}
			stamp := u.Time.Format(time.TimeOnly)
			if u.Err != nil {
				fmt.Fprintf(e.stderr, "%s reload failed: %v\n", stamp, u.Err)
				continue
			}
			if u.Warnings != nil {
				fmt.Fprintf(e.stderr, "%s warnings: %v\n", stamp, u.Warnings)
			}
			fmt.Fprintf(e.stderr, "%s reloaded\n", stamp)
			if err := writeJSON(e.stdout, u.Config); err != nil {
				return err
			}
		}
	}
}
