package fold

import (
	"bytes"
	"errors"
	"io"

	gs "github.com/e-n-f/glyphstream"
)

// word is one paragraph token: a run of non-blank glyphs plus the
// classification reflow's cost function needs. Grounded on spec.md
// §4.9's description of a quadratic-deviation line-break chooser;
// there is no single original-source file this mirrors line-for-line.
type word struct {
	glyphs    []gs.Glyph
	width     int
	sentence  bool // the word ends a sentence (./?/! possibly quoted)
	punctDash bool // the word ends in a hyphen or other break-eligible punctuation
}

// arenaCap bounds how many words are accumulated before a paragraph is
// force-flushed - the fixed-capacity word arena spec.md describes.
const arenaCap = 2048

// errArenaFull is the explicit control signal used instead of a panic
// when a paragraph would need more than arenaCap words: the caller
// flushes the best split found so far and restarts the paragraph with
// the overflowing word as its new head.
var errArenaFull = errors.New("fold: paragraph word arena exhausted")

func classify(glyphs []gs.Glyph) word {
	w := word{glyphs: glyphs}
	for _, g := range glyphs {
		w.width += DisplayWidth(g)
	}
	if n := len(glyphs); n > 0 {
		last := glyphs[n-1]
		if !last.IsByte() {
			r := last.Rune()
			switch r {
			case '.', '?', '!':
				w.sentence = true
			case '-', ',', ';', ':':
				w.punctDash = true
			}
		}
	}
	return w
}

// fillParagraph chooses line breaks for words so that each line's
// total column width (words plus one space between each) tracks goal
// as closely as possible, via a dynamic program over suffix costs. It
// returns break-before indices, starting with 0 and ending with
// len(words): a line runs from breaks[i] to breaks[i+1]-1.
//
// Cost of a line words[i:j]:
//   - quadratic deviation from goal (full weight on interior lines,
//     waived on the final line unless it is the paragraph's only line)
//   - a widow penalty if a non-final line holds exactly one word
//   - an orphan penalty if the final line holds exactly one word and
//     there is more than one line
//   - a small bonus (cost reduction) if the line's last word ends a
//     sentence or punctuation/dash, rewarding breaks at natural seams
//
// All costs are integers; there is no floating point anywhere in the
// chooser.
func fillParagraph(words []word, goal int) []int {
	n := len(words)
	if n == 0 {
		return []int{0}
	}

	const (
		widowPenalty  = 10000
		orphanPenalty = 4000
		sentenceBonus = 40
		punctBonus    = 15
	)

	dp := make([]int, n+1)
	from := make([]int, n+1)
	const infinity = 1 << 30
	for i := 1; i <= n; i++ {
		dp[i] = infinity
	}

	for i := 0; i < n; i++ {
		if dp[i] == infinity {
			continue
		}
		width := -1 // first word has no leading space
		for j := i; j < n; j++ {
			if width < 0 {
				width = words[j].width
			} else {
				width += 1 + words[j].width
			}
			isLast := j == n-1
			lineWordCount := j - i + 1

			cost := 0
			if !isLast || i == 0 {
				dev := goal - width
				cost += dev * dev
			}
			if !isLast && lineWordCount == 1 {
				cost += widowPenalty
			}
			if isLast && lineWordCount == 1 && i != 0 {
				cost += orphanPenalty
			}
			if words[j].sentence {
				cost -= sentenceBonus
			} else if words[j].punctDash {
				cost -= punctBonus
			}
			if cost < 0 {
				cost = 0
			}

			total := dp[i] + cost
			if total < dp[j+1] {
				dp[j+1] = total
				from[j+1] = i
			}
			if width > goal && lineWordCount > 1 {
				break // no point extending this line further
			}
		}
	}

	var breaks []int
	for k := n; k > 0; k = from[k] {
		breaks = append([]int{from[k]}, breaks...)
	}
	breaks = append(breaks, n)
	return breaks
}

// ReflowOptions configures Reflow.
type ReflowOptions struct {
	Width     int // goal column width, default 80
	LineDelim byte
}

func (o ReflowOptions) withDefaults() ReflowOptions {
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.LineDelim == 0 {
		o.LineDelim = '\n'
	}
	return o
}

// Reflow re-wraps r's paragraphs (runs of non-blank lines, separated
// by one or more blank lines) to opt.Width using fillParagraph,
// rather than fold's byte-for-byte line-length cut. Blank lines
// between paragraphs are preserved as-is.
func Reflow(w io.Writer, r io.Reader, opt ReflowOptions) error {
	opt = opt.withDefaults()
	reader := gs.NewReader(r)

	var words []word
	var cur []gs.Glyph

	flushParagraph := func() error {
		for len(words) > 0 {
			breaks := fillParagraph(words, opt.Width)
			for i := 0; i < len(breaks)-1; i++ {
				line := words[breaks[i]:breaks[i+1]]
				var buf bytes.Buffer
				for wi, wd := range line {
					if wi > 0 {
						buf.WriteByte(' ')
					}
					if err := gs.PutGlyphs(&buf, wd.glyphs); err != nil {
						return err
					}
				}
				buf.WriteByte(opt.LineDelim)
				if _, err := w.Write(buf.Bytes()); err != nil {
					return err
				}
			}
			words = nil
		}
		return nil
	}

	endWord := func() error {
		if len(cur) == 0 {
			return nil
		}
		words = append(words, classify(cur))
		cur = nil
		if len(words) >= arenaCap {
			return errArenaFull
		}
		return nil
	}

	// handleEndWord calls endWord and, on errArenaFull, flushes the
	// best split found so far and continues - the recovery path
	// spec.md describes instead of growing the arena unboundedly or
	// panicking.
	handleEndWord := func() error {
		if err := endWord(); err != nil {
			if errors.Is(err, errArenaFull) {
				return flushParagraph()
			}
			return err
		}
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

		isNL := !g.IsByte() && g.Rune() == rune(opt.LineDelim)
		if isNL {
			// Whether this delimiter terminates real paragraph content
			// (a pending word, or words already accumulated) rather than
			// being a genuinely blank line. Checked before handleEndWord
			// runs, since that call can itself consume cur/words (via a
			// normal flush or an arena-overflow flush).
			hadContent := len(cur) > 0 || len(words) > 0
			if err := handleEndWord(); err != nil {
				return err
			}
			if hadContent {
				if len(words) > 0 {
					if err := flushParagraph(); err != nil {
						return err
					}
				}
				// else: an arena-overflow flush inside handleEndWord
				// already wrote this word as the last line of a batch,
				// with its own trailing delimiter - this one is absorbed.
			} else {
				if _, err := w.Write([]byte{opt.LineDelim}); err != nil {
					return err
				}
			}
			continue
		}

		if isBlank(g) {
			if err := handleEndWord(); err != nil {
				return err
			}
			continue
		}
		cur = append(cur, g)
	}
	if err := handleEndWord(); err != nil {
		return err
	}
	return flushParagraph()
}
