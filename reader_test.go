package glyphstream_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/e-n-f/glyphstream"
	"github.com/stretchr/testify/require"
)

// property 4: peek idempotence.
func TestReaderPeekIdempotent(t *testing.T) {
	r := glyphstream.NewReader(bytes.NewReader([]byte("ab")))

	g1, err := r.Peek()
	require.NoError(t, err)
	g2, err := r.Peek()
	require.NoError(t, err)
	require.True(t, g1.Equal(g2))

	g3, err := r.Get()
	require.NoError(t, err)
	require.True(t, g1.Equal(g3))

	g4, err := r.Get()
	require.NoError(t, err)
	require.Equal(t, 'b', g4.Rune())

	_, err = r.Get()
	require.ErrorIs(t, err, io.EOF)
}

// property 1: round-trip for valid input.
func TestPutGlyphRoundTrip(t *testing.T) {
	in := []byte("hello, αβγ world\n")
	r := glyphstream.NewReader(bytes.NewReader(in))
	var out bytes.Buffer
	for {
		g, err := r.Get()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, glyphstream.PutGlyph(&out, g))
	}
	require.Equal(t, in, out.Bytes())
}

func TestLineBufferReadDelimSynthesizesTrailingDelim(t *testing.T) {
	r := glyphstream.NewReader(bytes.NewReader([]byte("abc")))
	var lb glyphstream.LineBuffer
	ok, err := lb.ReadDelim(r, '\n')
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, lb.Glyphs, 4)
	require.True(t, lb.Glyphs[3].EqualRune('\n'))
}

func TestLineBufferReadDelimEmptyAtEOF(t *testing.T) {
	r := glyphstream.NewReader(bytes.NewReader(nil))
	var lb glyphstream.LineBuffer
	ok, err := lb.ReadDelim(r, '\n')
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBoundedReadStopsAtEitherDelimiter(t *testing.T) {
	r := glyphstream.NewReader(bytes.NewReader([]byte("a:b\nc")))
	out, err := glyphstream.BoundedRead(r, 0, ':', '\n')
	require.NoError(t, err)
	require.Equal(t, "a:", glyphsToString(out))

	out, err = glyphstream.BoundedRead(r, 0, ':', '\n')
	require.NoError(t, err)
	require.Equal(t, "b\n", glyphsToString(out))
}

func glyphsToString(gs []glyphstream.Glyph) string {
	var buf bytes.Buffer
	for _, g := range gs {
		_ = glyphstream.PutGlyph(&buf, g)
	}
	return buf.String()
}
