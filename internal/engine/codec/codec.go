package codec

import (
	"bytes"
	"context"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// chunkSize bounds the work done between cancellation checks.
const chunkSize = 64 * 1024

// Attributes are the per-document properties restored on save.
type Attributes struct {
	Encoding Encoding
	BOM      bool
	EOL      LineEnding
}

// DefaultAttributes describes a new, empty document.
func DefaultAttributes() Attributes {
	return Attributes{Encoding: UTF8, EOL: LF}
}

// Codec converts between on-disk bytes and internal UTF-8/LF text.
// The zero value is not usable; use New or Default.
type Codec struct {
	legacy *Table
}

// Default uses the Latin-1 legacy table.
var Default = New(Latin1)

// New creates a codec that uses legacy for the single-byte encoding.
// A nil table selects Latin1.
func New(legacy *Table) *Codec {
	if legacy == nil {
		legacy = Latin1
	}
	return &Codec{legacy: legacy}
}

// Legacy returns the codec's legacy table.
func (c *Codec) Legacy() *Table {
	return c.legacy
}

// Load sniffs raw, decodes it and normalizes line endings.
func (c *Codec) Load(raw []byte) ([]byte, Attributes) {
	text, attrs, _ := c.LoadContext(context.Background(), raw)
	return text, attrs
}

// LoadContext is Load with cancellation. On cancellation it returns ctx.Err()
// and no text.
func (c *Codec) LoadContext(ctx context.Context, raw []byte) ([]byte, Attributes, error) {
	enc, bom := Sniff(raw)
	text, err := c.DecodeContext(ctx, raw, enc, bom)
	if err != nil {
		return nil, Attributes{}, err
	}
	text, eol := NormalizeEOL(text)
	return text, Attributes{Encoding: enc, BOM: bom, EOL: eol}, nil
}

// Save converts internal text to bytes using attrs.
func (c *Codec) Save(internal []byte, attrs Attributes) []byte {
	return c.Encode(ExpandEOL(internal, attrs.EOL), attrs)
}

// Decode converts raw bytes in encoding enc to UTF-8. If bom is set the
// encoding's byte-order mark is skipped. Line endings are left alone.
func (c *Codec) Decode(raw []byte, enc Encoding, bom bool) []byte {
	out, _ := c.DecodeContext(context.Background(), raw, enc, bom)
	return out
}

// DecodeContext is Decode with cancellation checks between chunks.
func (c *Codec) DecodeContext(ctx context.Context, raw []byte, enc Encoding, bom bool) ([]byte, error) {
	if bom {
		raw = bytes.TrimPrefix(raw, enc.BOM())
	}
	switch enc {
	case UTF16LE:
		return decodeUTF16(ctx, raw, unicode.LittleEndian)
	case UTF16BE:
		return decodeUTF16(ctx, raw, unicode.BigEndian)
	case Legacy:
		out := make([]byte, 0, len(raw)+len(raw)/4)
		for start := 0; start < len(raw); start += chunkSize {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			end := min(start+chunkSize, len(raw))
			out = c.legacy.decode(out, raw[start:end])
		}
		return out, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]byte(nil), raw...), nil
}

func decodeUTF16(ctx context.Context, raw []byte, order unicode.Endianness) ([]byte, error) {
	// An odd trailing byte cannot form a code unit.
	odd := len(raw)%2 == 1
	if odd {
		raw = raw[:len(raw)-1]
	}

	dec := unicode.UTF16(order, unicode.IgnoreBOM).NewDecoder()
	r := transform.NewReader(bytes.NewReader(raw), dec)
	out := make([]byte, 0, len(raw))
	chunk := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := r.Read(chunk)
		out = append(out, chunk[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			// The decoder substitutes U+FFFD for bad input and should not
			// fail; if it does, decode by hand.
			out = decodeUTF16Slow(raw, order)
			break
		}
	}
	if odd {
		out = utf8.AppendRune(out, utf8.RuneError)
	}
	return out, nil
}

// Encode converts UTF-8 text to the target encoding and prepends the BOM
// when attrs.BOM is set. The legacy encoding has no BOM.
func (c *Codec) Encode(text []byte, attrs Attributes) []byte {
	var body []byte
	switch attrs.Encoding {
	case UTF16LE:
		body = encodeUTF16(text, unicode.LittleEndian)
	case UTF16BE:
		body = encodeUTF16(text, unicode.BigEndian)
	case Legacy:
		return c.legacy.encode(text)
	default:
		body = text
	}
	if !attrs.BOM {
		return body
	}
	bom := attrs.Encoding.BOM()
	out := make([]byte, 0, len(bom)+len(body))
	out = append(out, bom...)
	return append(out, body...)
}

func encodeUTF16(text []byte, order unicode.Endianness) []byte {
	out, err := unicode.UTF16(order, unicode.IgnoreBOM).NewEncoder().Bytes(text)
	if err != nil {
		return encodeUTF16Slow(text, order)
	}
	return out
}

func decodeUTF16Slow(raw []byte, order unicode.Endianness) []byte {
	units := make([]uint16, len(raw)/2)
	for i := range units {
		lo, hi := raw[2*i], raw[2*i+1]
		if order == unicode.BigEndian {
			lo, hi = hi, lo
		}
		units[i] = uint16(lo) | uint16(hi)<<8
	}
	return []byte(string(utf16.Decode(units)))
}

func encodeUTF16Slow(text []byte, order unicode.Endianness) []byte {
	units := utf16.Encode([]rune(string(text)))
	out := make([]byte, 0, 2*len(units))
	for _, u := range units {
		if order == unicode.BigEndian {
			out = append(out, byte(u>>8), byte(u))
		} else {
			out = append(out, byte(u), byte(u>>8))
		}
	}
	return out
}
