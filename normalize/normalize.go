// Package normalize streams decoded code points through a Unicode
// normalization form and repairs invalid bytes according to a
// configurable policy. Grounded on src/unorm.c from the original
// coreutils fork; the normalization engine itself is
// golang.org/x/text/unicode/norm, replacing gnulib's uninorm_filter.
package normalize

import (
	"errors"
	"fmt"
	"io"

	gs "github.com/e-n-f/glyphstream"
	"golang.org/x/text/unicode/norm"
)

// Policy selects how an invalid byte glyph is handled.
type Policy int

const (
	Discard Policy = iota
	Abort
	Replace
	Recode
)

// Form names a Unicode normalization form.
type Form int

const (
	NFD Form = iota
	NFC
	NFKD
	NFKC
)

var formTable = map[Form]norm.Form{
	NFD:  norm.NFD,
	NFC:  norm.NFC,
	NFKD: norm.NFKD,
	NFKC: norm.NFKC,
}

// ErrAborted is returned by Run when Policy is Abort and an invalid
// byte is encountered. Use errors.Is to detect it.
var ErrAborted = errors.New("normalize: aborted on invalid input")

// Options configures a Run. The zero value is "no normalization,
// discard invalid bytes (Policy Discard), line delimiter '\n'".
type Options struct {
	Policy       Policy
	Form         Form
	Normalize    bool
	ReplaceChar  rune   // default U+FFFD
	RecodeFormat string // default "<0x%02x>", exactly one %x/%02x verb
	LineDelim    byte   // default '\n'
	Check        bool   // if true, no bytes are written
	Verbose      bool   // report (line,col) of every invalid byte to stderr
}

func (o Options) withDefaults() Options {
	if o.ReplaceChar == 0 {
		o.ReplaceChar = 0xFFFD
	}
	if o.RecodeFormat == "" {
		o.RecodeFormat = "<0x%02x>"
	}
	if o.LineDelim == 0 {
		o.LineDelim = '\n'
	}
	return o
}

// Run consumes r, writes the repaired/normalized byte stream to w (or
// discards it if opt.Check is set), and reports diagnostics for
// invalid bytes to stderr when opt.Verbose is set. It returns
// ErrAborted (wrapped) if opt.Policy is Abort and an invalid byte is
// found; any other non-nil error is an I/O failure from r or w.
//
// Note: the original's precondition check ("normalize requires a
// wchar_t wide enough to hold a full scalar value") has no Go
// equivalent - a rune is always a full 32-bit scalar value - so it is
// not reproduced.
func Run(w io.Writer, stderr io.Writer, r io.Reader, opt Options) error {
	opt = opt.withDefaults()

	dest := w
	if opt.Check {
		dest = io.Discard
	}

	var normW io.WriteCloser
	if opt.Normalize {
		normW = formTable[opt.Form].Writer(dest)
	}
	closeNorm := func() error {
		if normW == nil {
			return nil
		}
		return normW.Close()
	}
	reopenNorm := func() {
		if opt.Normalize {
			normW = formTable[opt.Form].Writer(dest)
		}
	}

	reader := gs.NewReader(r)
	pos := gs.NewPosition()

	for {
		g, err := reader.Get()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = closeNorm()
			return fmt.Errorf("normalize: %w", err)
		}

		if g.IsByte() {
			// Flush pending normalization state before handling the
			// recovery, so normalization is never applied across a
			// recovery boundary. Per spec, this flush does NOT also
			// happen on the seam between two valid glyphs separated
			// only by a line delimiter - only here and on reset.
			if err := closeNorm(); err != nil {
				return fmt.Errorf("normalize: %w", err)
			}
			reopenNorm()

			c := g.Byte()
			if opt.Verbose {
				fmt.Fprintf(stderr, "line %d char %d byte-col %d (byte %d): found invalid multibyte sequence, octet 0x%02x\n",
					pos.Line, pos.CharCol, pos.ByteCol, pos.Offset+1, c)
			}

			switch opt.Policy {
			case Discard:
				// nothing written
			case Abort:
				pos.Advance(g, opt.LineDelim)
				return fmt.Errorf("%w: octet 0x%02x at line %d", ErrAborted, c, pos.Line)
			case Replace:
				if err := gs.PutGlyph(dest, gs.FromRune(opt.ReplaceChar, 0)); err != nil {
					return fmt.Errorf("normalize: %w", err)
				}
			case Recode:
				if _, err := fmt.Fprintf(dest, opt.RecodeFormat, c); err != nil {
					return fmt.Errorf("normalize: %w", err)
				}
			}
		} else if opt.Normalize {
			if _, err := normW.Write([]byte(string(g.Rune()))); err != nil {
				return fmt.Errorf("normalize: %w", err)
			}
		} else {
			if err := gs.PutGlyph(dest, g); err != nil {
				return fmt.Errorf("normalize: %w", err)
			}
		}

		pos.Advance(g, opt.LineDelim)
	}

	if err := closeNorm(); err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	return nil
}
