package fold_test

import (
	"bytes"
	"strings"
	"testing"

	gs "github.com/e-n-f/glyphstream"
	"github.com/e-n-f/glyphstream/fold"
	"github.com/stretchr/testify/require"
)

func runFold(t *testing.T, opt fold.Options, input string) string {
	t.Helper()
	var out bytes.Buffer
	err := fold.Run(&out, strings.NewReader(input), opt)
	require.NoError(t, err)
	return out.String()
}

func TestRunWrapsAtWidth(t *testing.T) {
	got := runFold(t, fold.Options{Width: 5}, "abcdefgh\n")
	require.Equal(t, "abcde\nfgh\n", got)
}

func TestRunPassesThroughShortLines(t *testing.T) {
	got := runFold(t, fold.Options{Width: 80}, "short\nlines\n")
	require.Equal(t, "short\nlines\n", got)
}

func TestRunBreakAtSpaces(t *testing.T) {
	got := runFold(t, fold.Options{Width: 6, BreakSpaces: true}, "ab cd ef\n")
	require.Equal(t, "ab cd \nef\n", got)
}

func TestRunBreakAtSpacesFallsBackToHardWrapWithNoBlank(t *testing.T) {
	got := runFold(t, fold.Options{Width: 3, BreakSpaces: true}, "abcdef\n")
	require.Equal(t, "abc\ndef\n", got)
}

func TestRunNoTrailingNewlineInInput(t *testing.T) {
	got := runFold(t, fold.Options{Width: 80}, "no newline at end")
	require.Equal(t, "no newline at end", got)
}

func TestRunCountBytesForcesWrapOnMultibyteGlyph(t *testing.T) {
	got := runFold(t, fold.Options{Width: 2, CountBytes: true}, "αb\n") // α is 2 bytes
	require.Equal(t, "α\nb\n", got)
}

func TestRunDisplayWidthDoesNotCountMultibyteGlyphAsTwoColumns(t *testing.T) {
	// without CountBytes, α occupies 1 display column like any other
	// narrow character, so width 2 fits both glyphs on one line.
	got := runFold(t, fold.Options{Width: 2}, "αb\n")
	require.Equal(t, "αb\n", got)
}

func TestDisplayWidthEastAsianWide(t *testing.T) {
	g := gs.FromRune('中', 0) // CJK ideograph, East Asian Wide
	require.Equal(t, 2, fold.DisplayWidth(g))
}

func TestDisplayWidthCombiningMarkIsZero(t *testing.T) {
	g := gs.FromRune('́', 0) // combining acute accent
	require.Equal(t, 0, fold.DisplayWidth(g))
}

func TestDisplayWidthASCIIIsOne(t *testing.T) {
	require.Equal(t, 1, fold.DisplayWidth(gs.FromRune('a', 0)))
}

func TestAdjustColumnTab(t *testing.T) {
	g := gs.FromRune('\t', 0)
	require.Equal(t, 8, fold.AdjustColumn(3, g, false))
	require.Equal(t, 16, fold.AdjustColumn(8, g, false))
}

func TestAdjustColumnBackspace(t *testing.T) {
	g := gs.FromRune('\b', 0)
	require.Equal(t, 4, fold.AdjustColumn(5, g, false))
	require.Equal(t, 0, fold.AdjustColumn(0, g, false))
}

func TestAdjustColumnCarriageReturn(t *testing.T) {
	g := gs.FromRune('\r', 0)
	require.Equal(t, 0, fold.AdjustColumn(42, g, false))
}

func TestAdjustColumnCountBytesUsesGlyphLength(t *testing.T) {
	g := gs.FromRune('中', 0) // 3 bytes in UTF-8
	require.Equal(t, 3, fold.AdjustColumn(0, g, true))
}
