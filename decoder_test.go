package glyphstream_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/e-n-f/glyphstream"
	"github.com/stretchr/testify/require"
)

// scenario 1 from spec.md §8: "a" + GREEK SMALL ALPHA + LF.
func TestDecoderBasicScenario(t *testing.T) {
	in := []byte{0x61, 0xCE, 0xB1, 0x0A}
	d := glyphstream.NewDecoder(bytes.NewReader(in), 0)

	g1, ok := d.Next()
	require.True(t, ok)
	require.False(t, g1.IsByte())
	require.Equal(t, rune(0x61), g1.Rune())
	require.Equal(t, 1, g1.Len())

	g2, ok := d.Next()
	require.True(t, ok)
	require.False(t, g2.IsByte())
	require.Equal(t, rune(0x3B1), g2.Rune())
	require.Equal(t, 2, g2.Len())

	g3, ok := d.Next()
	require.True(t, ok)
	require.Equal(t, rune(0x0A), g3.Rune())

	_, ok = d.Next()
	require.False(t, ok)
	require.NoError(t, d.Err())
}

// scenario 2: isolated invalid byte between two valid ASCII bytes.
func TestDecoderInvalidByteFallback(t *testing.T) {
	in := []byte{0x41, 0x80, 0x42}
	d := glyphstream.NewDecoder(bytes.NewReader(in), 0)

	g1, _ := d.Next()
	require.Equal(t, rune('A'), g1.Rune())

	g2, ok := d.Next()
	require.True(t, ok)
	require.True(t, g2.IsByte())
	require.Equal(t, byte(0x80), g2.Byte())

	g3, _ := d.Next()
	require.Equal(t, rune('B'), g3.Rune())
}

// scenario 3: a multibyte sequence truncated by EOF decodes as a byte glyph.
func TestDecoderTruncatedSequenceAtEOF(t *testing.T) {
	in := []byte{0xC3, 0xA9, 0xC3}
	d := glyphstream.NewDecoder(bytes.NewReader(in), 0)

	g1, _ := d.Next()
	require.Equal(t, rune(0xE9), g1.Rune())

	g2, ok := d.Next()
	require.True(t, ok)
	require.True(t, g2.IsByte())
	require.Equal(t, byte(0xC3), g2.Byte())

	_, ok = d.Next()
	require.False(t, ok)
}

// property 8: buffer-size invariance.
func TestDecoderBufferSizeInvariance(t *testing.T) {
	in := []byte("hello, αβγ world — a longer line to exercise refill boundaries\n")
	var want []glyphstream.Glyph
	for i, size := range []int{0, glyphstream.DefaultBaseSize, 1, 2, 5} {
		d := glyphstream.NewDecoder(bytes.NewReader(in), size)
		var got []glyphstream.Glyph
		for {
			g, ok := d.Next()
			if !ok {
				break
			}
			got = append(got, g)
		}
		require.NoError(t, d.Err(), "size=%d", size)
		require.NotEmpty(t, got, "size=%d", size)
		if i == 0 {
			want = got
		} else {
			require.Equal(t, want, got, "size=%d", size)
		}
	}
}

// property 3: byte fallback preserves the original byte.
func TestDecoderKuhnBoundaries(t *testing.T) {
	cases := []struct {
		name  string
		in    []byte
		runes []rune
	}{
		{"ascii", []byte{0x61}, []rune{0x61}},
		{"two-byte boundary", []byte{0xC2, 0x80}, []rune{0x80}},
		{"three-byte boundary", []byte{0xE0, 0xA0, 0x80}, []rune{0x800}},
		{"four-byte boundary", []byte{0xF0, 0x90, 0x80, 0x80}, []rune{0x10000}},
		{"impossible byte 0xFE", []byte{0xFE}, nil},
		{"impossible byte 0xFF", []byte{0xFF}, nil},
		{"lone continuation byte", []byte{0x80}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := glyphstream.NewDecoder(bytes.NewReader(c.in), 0)
			var gotRunes []rune
			var gotBytes int
			for {
				g, ok := d.Next()
				if !ok {
					break
				}
				if g.IsByte() {
					gotBytes++
					require.Equal(t, c.in[0], g.Byte())
				} else {
					gotRunes = append(gotRunes, g.Rune())
				}
			}
			if c.runes != nil {
				require.Equal(t, c.runes, gotRunes)
			} else {
				require.Equal(t, len(c.in), gotBytes)
			}
		})
	}
}

type errReader struct{ err error }

func (r errReader) Read(p []byte) (int, error) { return 0, r.err }

func TestDecoderLatchesIOError(t *testing.T) {
	sentinel := io.ErrClosedPipe
	d := glyphstream.NewDecoder(errReader{sentinel}, 0)
	_, ok := d.Next()
	require.False(t, ok)
	require.ErrorIs(t, d.Err(), sentinel)
	_, ok = d.Next()
	require.False(t, ok)
}
