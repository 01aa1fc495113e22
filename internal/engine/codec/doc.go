// Package codec converts between on-disk bytes and the engine's internal form.
//
// Internally every document is UTF-8 with LF line endings. On disk a document
// may be UTF-8, UTF-16 (either byte order) or a legacy 8-bit charset, with or
// without a byte-order mark, using LF, CR or CRLF line endings. The codec
// detects these attributes on load and restores them on save, so that for
// well-formed input
//
//	internal, attrs := codec.Default.Load(raw)
//	codec.Default.Save(internal, attrs) // == raw
//
// Decoding never fails. Bytes that are not valid UTF-8 select the legacy
// charset, and the legacy table is total: every byte maps to some code point.
//
// Attributes can be marshalled to a small JSON document so a host can persist
// a user's encoding or line ending override next to the file.
package codec
