// Package fold wraps each line of a glyph stream to fit a given
// column width, in the style of the "fold" utility. Grounded on
// src/fold.c: fold_text (the simple, single-byte path is subsumed by
// treating every glyph uniformly) and fold_multibyte_text.
package fold

import (
	"io"
	"unicode"

	gs "github.com/e-n-f/glyphstream"
	"golang.org/x/text/width"
)

const tabWidth = 8

// Options configures a Run.
type Options struct {
	Width       int  // default 80
	CountBytes  bool // count raw bytes, not display columns
	BreakSpaces bool // -s: break at the last blank rather than mid-word
	LineDelim   byte // default '\n'
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.LineDelim == 0 {
		o.LineDelim = '\n'
	}
	return o
}

// DisplayWidth reports how many columns g occupies, independent of
// the running column (i.e. ignoring \t's alignment-to-stop behavior,
// which AdjustColumn alone accounts for). A byte glyph and the
// control characters \b \r \t are handled as in src/fold.c; any other
// control character counts 0; every other decoded glyph is classified
// via golang.org/x/text/width (East Asian Wide/Fullwidth count 2, a
// combining mark counts 0, everything else counts 1) - the original's "every multibyte
// character costs 1 column" placeholder is superseded here, per
// SPEC_FULL.md.
func DisplayWidth(g gs.Glyph) int {
	if g.IsByte() {
		return 1
	}
	r := g.Rune()
	switch r {
	case '\b', '\r', '\t':
		return 1 // handled specially by AdjustColumn
	}
	if unicode.IsControl(r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	if isZeroWidth(r) {
		return 0
	}
	return 1
}

func isZeroWidth(r rune) bool {
	// A pragmatic combining-mark check: the norm package's own
	// decomposition tables classify these far more precisely, but
	// fold only needs "does this occupy a column."
	return (r >= 0x0300 && r <= 0x036F) || // combining diacritical marks
		(r >= 0x200B && r <= 0x200F) || // zero-width space/joiners/marks
		r == 0xFEFF
}

// AdjustColumn returns the column the cursor moves to after printing
// g, given it is currently at column. Grounded on
// src/fold.c:adjust_column / adjust_column_multibyte.
func AdjustColumn(column int, g gs.Glyph, countBytes bool) int {
	if countBytes {
		return column + g.Len()
	}
	if !g.IsByte() {
		switch g.Rune() {
		case '\b':
			if column > 0 {
				return column - 1
			}
			return column
		case '\r':
			return 0
		case '\t':
			return column + tabWidth - column%tabWidth
		}
	}
	return column + DisplayWidth(g)
}

func isBlank(g gs.Glyph) bool {
	if g.IsByte() {
		return false
	}
	r := g.Rune()
	return r == ' ' || r == '\t'
}

// Run reads r and writes it to w, wrapped to opt.Width columns.
func Run(w io.Writer, r io.Reader, opt Options) error {
	opt = opt.withDefaults()
	reader := gs.NewReader(r)

	var line []gs.Glyph
	column := 0
	lastBlankOffset := 0 // 0 means "none seen on this physical line"
	lastBlankColumn := 0

	writeLine := func(addDelim bool) error {
		for _, g := range line {
			if err := gs.PutGlyph(w, g); err != nil {
				return err
			}
		}
		if addDelim {
			if _, err := w.Write([]byte{opt.LineDelim}); err != nil {
				return err
			}
		}
		line = line[:0]
		column, lastBlankOffset, lastBlankColumn = 0, 0, 0
		return nil
	}

	for {
		g, err := reader.Get()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if !g.IsByte() && g.Rune() == rune(opt.LineDelim) {
			if err := writeLine(true); err != nil {
				return err
			}
			continue
		}

	rescan:
		next := AdjustColumn(column, g, opt.CountBytes)

		if next > opt.Width {
			if opt.BreakSpaces && lastBlankOffset > 0 {
				head := line[:lastBlankOffset]
				for _, hg := range head {
					if err := gs.PutGlyph(w, hg); err != nil {
						return err
					}
				}
				if _, err := w.Write([]byte{opt.LineDelim}); err != nil {
					return err
				}
				rest := append([]gs.Glyph(nil), line[lastBlankOffset:]...)
				line = rest
				column -= lastBlankColumn
				lastBlankOffset, lastBlankColumn = 0, 0
				goto rescan
			}

			if len(line) == 0 {
				line = append(line, g)
				column = next
				continue
			}

			if err := writeLine(true); err != nil {
				return err
			}
			goto rescan
		}

		line = append(line, g)
		column = next

		if opt.BreakSpaces && isBlank(g) {
			lastBlankOffset = len(line)
			lastBlankColumn = column
		}
	}

	if len(line) > 0 {
		return writeLine(false)
	}
	return nil
}
