package glyphstream

import "unicode/utf8"

// Glyph is the tagged value produced by a Decoder: either a successfully
// decoded Unicode scalar value, or a single raw byte that could not be
// part of a valid multibyte sequence. Exactly one of the two is active;
// there is no third "invalid" state stored on the value itself - the
// Decoder reports end-of-stream separately rather than via a sentinel
// Glyph.
type Glyph struct {
	value  rune
	mbLen  int
	isByte bool
}

// FromRune returns a decoded glyph. n is the number of source bytes the
// rune was decoded from, so that re-emitting the glyph reproduces the
// original input exactly.
func FromRune(r rune, n int) Glyph {
	if n <= 0 {
		n = utf8.RuneLen(r)
		if n <= 0 {
			n = 1
		}
	}
	return Glyph{value: r, mbLen: n, isByte: false}
}

// FromByte returns a byte glyph: a single octet that could not be decoded.
func FromByte(b byte) Glyph {
	return Glyph{value: rune(b), mbLen: 1, isByte: true}
}

// IsByte reports whether g is a raw, un-decodable byte rather than a
// decoded code point.
func (g Glyph) IsByte() bool { return g.isByte }

// Rune returns the decoded scalar value. It panics if g is a byte glyph.
func (g Glyph) Rune() rune {
	if g.isByte {
		panic("glyphstream: Rune called on a byte glyph")
	}
	return g.value
}

// Byte returns the raw octet. It panics if g is a decoded glyph.
func (g Glyph) Byte() byte {
	if !g.isByte {
		panic("glyphstream: Byte called on a decoded glyph")
	}
	return byte(g.value)
}

// Len reports the number of original input bytes this glyph represents:
// 1 for a byte glyph, or the multibyte sequence length for a decoded one.
func (g Glyph) Len() int { return g.mbLen }

// Bytes returns the glyph's original encoding: the single raw octet for
// a byte glyph, or the UTF-8 encoding of the decoded rune otherwise.
// Used by byte-indexed selection, which must be able to address (and
// split) the individual bytes of a multibyte glyph.
func (g Glyph) Bytes() []byte {
	if g.isByte {
		return []byte{byte(g.value)}
	}
	buf := make([]byte, utf8.UTFMax)
	n := utf8.EncodeRune(buf, g.value)
	return buf[:n]
}

// Equal reports whether two glyphs carry the same value and tag,
// ignoring byte length.
func (g Glyph) Equal(other Glyph) bool {
	return g.isByte == other.isByte && g.value == other.value
}

// EqualRune reports whether a decoded glyph's value equals r. A byte
// glyph never equals any rune, matching the source semantics where a
// raw byte is never mistaken for the decoded delimiter it happens to
// share a numeric value with.
func (g Glyph) EqualRune(r rune) bool {
	return !g.isByte && g.value == r
}

// RawValue returns the glyph's numeric value regardless of tag: the
// decoded rune, or the byte widened to rune.
func (g Glyph) RawValue() rune { return g.value }
