package glyphstream

import (
	"io"
	"unicode/utf8"
)

// PutGlyph writes g to w: a byte glyph is written verbatim as a single
// octet; a decoded glyph is UTF-8 encoded. Grounded on
// src/grapheme.c:fputgr. Unlike the C original, there is no narrow-
// locale fallback for scalars the encoder "refuses" - Go's UTF-8
// encoder never refuses a valid rune, so that branch has no Go
// equivalent.
func PutGlyph(w io.Writer, g Glyph) error {
	if g.IsByte() {
		_, err := w.Write([]byte{g.Byte()})
		return err
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], g.Rune())
	_, err := w.Write(buf[:n])
	return err
}

// PutGlyphs writes each glyph in gs via PutGlyph, stopping at the
// first error.
func PutGlyphs(w io.Writer, gs []Glyph) error {
	for _, g := range gs {
		if err := PutGlyph(w, g); err != nil {
			return err
		}
	}
	return nil
}
