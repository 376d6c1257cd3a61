package glyphstream

import (
	"io"
	"unicode/utf8"
)

// DefaultBaseSize is used when NewDecoder is given a baseSize <= 0,
// standing in for the original mbbuf_init's BUFSIZ fallback.
const DefaultBaseSize = 4096

// Decoder pulls bytes from a Source into a fixed-capacity buffer and
// decodes them one glyph at a time. It is grounded on gl/lib/mbbuffer.c:
// capacity is base+utf8.UTFMax, the buffer is refilled whenever live
// bytes fall below utf8.UTFMax (unless EOF/error has already been
// observed), and every decode step advances the read offset by exactly
// the returned glyph's byte length.
//
// A Decoder is single-use and not safe for concurrent use.
type Decoder struct {
	src  io.Reader
	buf  []byte
	pos  int
	len  int
	eof  bool
	err  error
}

// NewDecoder returns a Decoder reading from src, with an internal
// buffer of capacity baseSize+utf8.UTFMax. baseSize is the preferred
// I/O block size; if <= 0, DefaultBaseSize is used.
func NewDecoder(src io.Reader, baseSize int) *Decoder {
	if baseSize <= 0 {
		baseSize = DefaultBaseSize
	}
	return &Decoder{
		src: src,
		buf: make([]byte, baseSize+utf8.UTFMax),
	}
}

// Err returns the sticky I/O error latched by a failed Read, or nil.
// Once set, every subsequent Next/NextCount call returns ok == false.
func (d *Decoder) Err() error { return d.err }

// fill tops up the buffer until at least utf8.UTFMax bytes are
// available, or EOF/error is observed. Short reads are simply looped
// on: Go's io.Reader contract already requires implementations to
// handle retry-on-interrupt internally, so unlike the C fd-source vs.
// stream-source split, one loop serves both kinds of Source.
func (d *Decoder) fill() {
	if d.len >= utf8.UTFMax || d.eof || d.err != nil {
		return
	}
	if d.pos > 0 {
		copy(d.buf, d.buf[d.pos:d.pos+d.len])
		d.pos = 0
	}
	for d.len < utf8.UTFMax && !d.eof {
		n, err := d.src.Read(d.buf[d.len:])
		d.len += n
		if err != nil {
			if err == io.EOF {
				d.eof = true
			} else {
				d.err = err
			}
			return
		}
		if n == 0 {
			// A reader returning (0, nil) forever would spin; treat it
			// like EOF rather than loop, since there is nothing more we
			// can productively do with it.
			d.eof = true
			return
		}
	}
}

// decodeAt reports the glyph starting at the buffer's current read
// position, and its byte length, without advancing anything.
func (d *Decoder) decodeAt() (Glyph, int) {
	window := d.buf[d.pos : d.pos+d.len]
	r, size := utf8.DecodeRune(window)
	if r == utf8.RuneError && size <= 1 {
		// Invalid sequence, or an incomplete one stranded at EOF - both
		// are treated as a single undecodable byte, since a sequence
		// truncated by EOF will never be completed.
		return FromByte(window[0]), 1
	}
	return FromRune(r, size), size
}

// Next decodes the next glyph from the stream. ok is false at clean
// end-of-stream or once a sticky I/O error has been latched; callers
// distinguish the two via Err.
func (d *Decoder) Next() (Glyph, bool) {
	g, _, ok := d.NextCount()
	return g, ok
}

// NextCount is like Next, but additionally reports the number of
// source bytes consumed - the fgetgr_count variant.
func (d *Decoder) NextCount() (Glyph, int, bool) {
	if d.err != nil {
		return Glyph{}, 0, false
	}
	d.fill()
	if d.len == 0 {
		return Glyph{}, 0, false
	}
	g, n := d.decodeAt()
	d.pos += n
	d.len -= n
	return g, n, true
}
