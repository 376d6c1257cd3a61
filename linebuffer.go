package glyphstream

import "io"

// LineBuffer is a growable sequence of glyphs holding at most one
// line's worth of content, including the delimiter glyph if any. It
// may contain embedded decoded NUL glyphs and is not NUL-terminated -
// unlike the C grlinebuffer this wraps a Go slice, whose length is
// already self-describing, so there is no separate "allocated vs.
// used" bookkeeping to maintain by hand.
//
// Grounded on src/widetext.c:readgrlinebuffer_delim.
type LineBuffer struct {
	Glyphs []Glyph
}

// ReadDelim reads glyphs from r into lb until a glyph equal to delim is
// consumed or EOF. Every glyph read is appended, including the
// delimiter. If EOF is reached before delim and the buffer does not
// already end in delim, a synthetic delim glyph is appended so the
// line is always properly terminated. ok is false iff the stream was
// already at EOF on entry (nothing was read).
func (lb *LineBuffer) ReadDelim(r *Reader, delim rune) (ok bool, err error) {
	lb.Glyphs = lb.Glyphs[:0]
	for {
		g, gerr := r.Get()
		if gerr != nil {
			if gerr != io.EOF {
				return false, gerr
			}
			if len(lb.Glyphs) == 0 {
				return false, nil
			}
			if !lb.Glyphs[len(lb.Glyphs)-1].EqualRune(delim) {
				lb.Glyphs = append(lb.Glyphs, FromRune(delim, 1))
			}
			return true, nil
		}
		lb.Glyphs = append(lb.Glyphs, g)
		if g.EqualRune(delim) {
			return true, nil
		}
	}
}

// BoundedRead reads glyphs from r, stopping as soon as a glyph equals
// delim1 or delim2 (that glyph is included in the result), max glyphs
// have been read, or EOF is reached. Grounded on
// src/widetext.c:grgetndelim2; Go's append already grows the
// underlying array geometrically, so the manual MIN_CHUNK/doubling
// policy and NUL-terminator reservation in the original have no direct
// Go analogue - a returned slice's length is authoritative.
func BoundedRead(r *Reader, max int, delim1, delim2 rune) ([]Glyph, error) {
	out := make([]Glyph, 0, 64)
	for max <= 0 || len(out) < max {
		g, err := r.Get()
		if err != nil {
			if err == io.EOF {
				break
			}
			return out, err
		}
		out = append(out, g)
		if g.EqualRune(delim1) || g.EqualRune(delim2) {
			break
		}
	}
	return out, nil
}
