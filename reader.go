package glyphstream

import "io"

// Reader is a peekable glyph stream over an io.Reader. It is grounded
// on src/grapheme.c's fgetgr_internal/fpeekgr, which implement peek by
// pushing every consumed byte back into the stdio stream via ungetc.
// Go's bufio.Reader only guarantees a single byte of pushback, so
// Reader instead keeps its own one-glyph lookahead cache - the
// idiomatic Go replacement for "push all consumed bytes back".
type Reader struct {
	dec      *Decoder
	cache    Glyph
	hasCache bool
}

// NewReader returns a Reader decoding from r with the default buffer
// size.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: NewDecoder(r, 0)}
}

// Peek returns the next glyph without consuming it. Repeated Peek
// calls without an intervening Get return the identical glyph; a Get
// that follows returns exactly what Peek returned. err is io.EOF at
// clean end of stream, or the Decoder's latched I/O error.
func (r *Reader) Peek() (Glyph, error) {
	if r.hasCache {
		return r.cache, nil
	}
	g, ok := r.dec.Next()
	if !ok {
		if err := r.dec.Err(); err != nil {
			return Glyph{}, err
		}
		return Glyph{}, io.EOF
	}
	r.cache = g
	r.hasCache = true
	return g, nil
}

// Get returns and consumes the next glyph.
func (r *Reader) Get() (Glyph, error) {
	g, err := r.Peek()
	if err != nil {
		return Glyph{}, err
	}
	r.hasCache = false
	return g, nil
}
