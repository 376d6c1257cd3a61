package codepoint_test

import (
	"testing"

	"github.com/e-n-f/glyphstream/internal/codepoint"
	"github.com/stretchr/testify/require"
)

// property 6: surrogate join.
func TestSurrogateRoundTrip(t *testing.T) {
	for c := rune(0x10000); c <= 0x10100; c++ {
		hi, lo := codepoint.SplitSurrogates(c)
		require.True(t, codepoint.IsSurrogateHigh(hi))
		require.True(t, codepoint.IsSurrogateLow(lo))
		require.Equal(t, c, codepoint.CombineSurrogates(hi, lo))
	}
}

func TestIsSupplementary(t *testing.T) {
	require.False(t, codepoint.IsSupplementary('a'))
	require.False(t, codepoint.IsSupplementary(0xFFFF))
	require.True(t, codepoint.IsSupplementary(0x10000))
	require.True(t, codepoint.IsSupplementary(0x10FFFF))
}

func TestLocaleLooksLikeUTF8(t *testing.T) {
	require.True(t, codepoint.LocaleLooksLikeUTF8("en_US.UTF-8"))
	require.True(t, codepoint.LocaleLooksLikeUTF8("C.utf8"))
	require.False(t, codepoint.LocaleLooksLikeUTF8("en_US.ISO-8859-1"))
	require.False(t, codepoint.LocaleLooksLikeUTF8("C"))
}

func TestDecodeJoiningRejectsLoneLowSurrogate(t *testing.T) {
	// U+DC00 written as the raw 3-byte sequence ED B0 80 is a lone low
	// surrogate and must be rejected; an ordinary rune still decodes.
	_, _, ok := codepoint.DecodeJoining([]byte{0xED, 0xB0, 0x80})
	require.False(t, ok)

	c, n, ok := codepoint.DecodeJoining([]byte("a"))
	require.True(t, ok)
	require.Equal(t, rune('a'), c)
	require.Equal(t, 1, n)
}
