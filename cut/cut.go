// Package cut selects byte, character, or field ranges from each line
// of a glyph stream, in the style of the "cut" utility. Grounded on
// src/cut.c: cut_bytes, cut_characters, and cut_fields.
package cut

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	gs "github.com/e-n-f/glyphstream"
)

// Mode selects what a Range counts over.
type Mode int

const (
	// ByteMode selects by raw byte position; a multibyte glyph
	// straddling a selected/unselected boundary is split.
	ByteMode Mode = iota
	// CharMode selects by glyph (character) position.
	CharMode
	// CharByteMode counts by byte position, as ByteMode, but never
	// splits a multibyte glyph: the running count is advanced by the
	// glyph's full byte length in one step and tested once, so a glyph
	// is either printed whole or not at all. Grounded on
	// cut_characters(use_bytes=true), reached in the original via "-b -n".
	CharByteMode
	// FieldMode selects delimiter-separated fields.
	FieldMode
)

// Range is an inclusive 1-based [Lo,Hi] span. Hi < 0 means "to end of
// line" (an open range, written N- on the command line).
type Range struct {
	Lo, Hi int
}

func (r Range) contains(k int) bool {
	return k >= r.Lo && (r.Hi < 0 || k <= r.Hi)
}

// RangeSet is a normalized, sorted set of non-overlapping ranges,
// already adjusted for complementing if requested.
type RangeSet struct {
	ranges []Range
}

// ParseRangeSet parses a comma-separated list of ranges ("1,3-5,-2,7-")
// as accepted by -b/-c/-f. If complement is true, the returned set
// selects exactly the positions NOT covered by the parsed ranges.
func ParseRangeSet(spec string, complement bool) (RangeSet, error) {
	if spec == "" {
		return RangeSet{}, fmt.Errorf("cut: missing list of ranges")
	}
	var ranges []Range
	for _, item := range strings.Split(spec, ",") {
		if item == "" {
			return RangeSet{}, fmt.Errorf("cut: invalid range with no endpoint: %q", spec)
		}
		r, err := parseRange(item)
		if err != nil {
			return RangeSet{}, err
		}
		ranges = append(ranges, r)
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Lo < ranges[j].Lo })
	ranges = mergeRanges(ranges)

	if complement {
		ranges = complementRanges(ranges)
	}
	return RangeSet{ranges: ranges}, nil
}

func parseRange(item string) (Range, error) {
	switch {
	case strings.HasPrefix(item, "-"):
		m, err := strconv.Atoi(item[1:])
		if err != nil || m < 1 {
			return Range{}, fmt.Errorf("cut: invalid range %q", item)
		}
		return Range{Lo: 1, Hi: m}, nil
	case strings.HasSuffix(item, "-"):
		n, err := strconv.Atoi(item[:len(item)-1])
		if err != nil || n < 1 {
			return Range{}, fmt.Errorf("cut: invalid range %q", item)
		}
		return Range{Lo: n, Hi: -1}, nil
	case strings.Contains(item, "-"):
		parts := strings.SplitN(item, "-", 2)
		n, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil || n < 1 || m < n {
			return Range{}, fmt.Errorf("cut: invalid range %q", item)
		}
		return Range{Lo: n, Hi: m}, nil
	default:
		n, err := strconv.Atoi(item)
		if err != nil || n < 1 {
			return Range{}, fmt.Errorf("cut: invalid range %q", item)
		}
		return Range{Lo: n, Hi: n}, nil
	}
}

func mergeRanges(in []Range) []Range {
	if len(in) == 0 {
		return nil
	}
	out := []Range{in[0]}
	for _, r := range in[1:] {
		last := &out[len(out)-1]
		if last.Hi < 0 {
			continue // already unbounded, absorbs everything after
		}
		if r.Lo <= last.Hi+1 {
			if r.Hi < 0 || r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

func complementRanges(in []Range) []Range {
	var out []Range
	next := 1
	for _, r := range in {
		if r.Lo > next {
			out = append(out, Range{Lo: next, Hi: r.Lo - 1})
		}
		if r.Hi < 0 {
			return out
		}
		next = r.Hi + 1
	}
	out = append(out, Range{Lo: next, Hi: -1})
	return out
}

// Selected reports whether position k (1-based) is in the set.
func (rs RangeSet) Selected(k int) bool {
	for _, r := range rs.ranges {
		if k < r.Lo {
			return false
		}
		if r.contains(k) {
			return true
		}
	}
	return false
}

// IsRangeStart reports whether k is exactly the first position of one
// of the set's ranges - used to decide where to insert an output
// delimiter between two disjoint selected spans. Grounded on
// src/cut.c:is_range_start_index.
func (rs RangeSet) IsRangeStart(k int) bool {
	for _, r := range rs.ranges {
		if r.Lo == k {
			return true
		}
		if r.Lo > k {
			return false
		}
	}
	return false
}

// Options configures a Run.
type Options struct {
	Mode   Mode
	Ranges RangeSet

	Delim     rune // field delimiter, default '\t'
	LineDelim byte // default '\n'

	OutputDelimiterSpecified bool
	OutputDelimiter          string // default: one rune, Delim

	SuppressNonDelimited bool // -s, field mode only
}

func (o Options) withDefaults() Options {
	if o.Delim == 0 {
		o.Delim = '\t'
	}
	if o.LineDelim == 0 {
		o.LineDelim = '\n'
	}
	if !o.OutputDelimiterSpecified {
		o.OutputDelimiter = string(o.Delim)
	}
	return o
}

// Run reads r and writes the selected bytes/characters/fields to w.
func Run(w io.Writer, r io.Reader, opt Options) error {
	opt = opt.withDefaults()
	reader := gs.NewReader(r)

	switch opt.Mode {
	case ByteMode:
		return cutBytes(w, reader, opt)
	case CharMode:
		return cutChars(w, reader, opt, false)
	case CharByteMode:
		return cutChars(w, reader, opt, true)
	default:
		return cutFields(w, reader, opt)
	}
}

// cutBytes selects by raw byte position: a multibyte glyph that
// straddles a selected/unselected boundary is split, printing only the
// bytes of it that fall inside a selected range. Grounded on
// src/cut.c:cut_bytes, which reads and counts raw octets directly.
func cutBytes(w io.Writer, r *gs.Reader, opt Options) error {
	idx := 0
	printDelim := false
	for {
		g, err := r.Get()
		if err == io.EOF {
			if idx > 0 {
				if _, werr := w.Write([]byte{opt.LineDelim}); werr != nil {
					return werr
				}
			}
			return nil
		}
		if err != nil {
			return err
		}

		if !g.IsByte() && g.Len() == 1 && g.Rune() == rune(opt.LineDelim) {
			if _, werr := w.Write([]byte{opt.LineDelim}); werr != nil {
				return werr
			}
			idx = 0
			printDelim = false
			continue
		}

		for _, b := range g.Bytes() {
			idx++
			if opt.Ranges.Selected(idx) {
				if opt.OutputDelimiterSpecified && printDelim && opt.Ranges.IsRangeStart(idx) {
					if _, werr := io.WriteString(w, opt.OutputDelimiter); werr != nil {
						return werr
					}
				}
				printDelim = true
				if _, werr := w.Write([]byte{b}); werr != nil {
					return werr
				}
			}
		}
	}
}

func cutChars(w io.Writer, r *gs.Reader, opt Options, useBytes bool) error {
	idx := 0
	printDelim := false
	for {
		g, err := r.Get()
		if err == io.EOF {
			if idx > 0 {
				if _, werr := w.Write([]byte{opt.LineDelim}); werr != nil {
					return werr
				}
			}
			return nil
		}
		if err != nil {
			return err
		}

		n := 1
		if useBytes {
			n = g.Len()
		}

		if !g.IsByte() && g.Rune() == rune(opt.LineDelim) {
			if err := gs.PutGlyph(w, g); err != nil {
				return err
			}
			idx = 0
			printDelim = false
			continue
		}

		for i := 0; i < n; i++ {
			idx++
		}
		if opt.Ranges.Selected(idx) {
			if opt.OutputDelimiterSpecified && printDelim && opt.Ranges.IsRangeStart(idx) {
				if _, werr := io.WriteString(w, opt.OutputDelimiter); werr != nil {
					return werr
				}
			}
			printDelim = true
			if err := gs.PutGlyph(w, g); err != nil {
				return err
			}
		}
	}
}

// cutFields implements field-mode selection across the whole stream.
// It mirrors src/cut.c:cut_fields line by line; -s's first-field
// buffering (see bufferFirstField below) is re-done at the start of
// every line, not just the stream's first one.
//
// Simplification: the original additionally suppresses a duplicate
// line-delimiter print in one narrow edge case (an empty line
// immediately following a non-delimited buffered first field). That
// interaction is not reproduced here; see DESIGN.md.
func cutFields(w io.Writer, r *gs.Reader, opt Options) error {
	if _, err := r.Peek(); err == io.EOF {
		return nil
	} else if err != nil {
		return err
	}

	// Buffering the first field is only required when -s and "is
	// field 1 selected" agree (both set or both clear); otherwise
	// cut_fields can tell whether to print the line from whether any
	// field was selected.
	bufferFirstField := opt.SuppressNonDelimited != !opt.Ranges.Selected(1)

	fieldIdx := 1
	foundSelected := false

lineLoop:
	for {
		if fieldIdx == 1 && bufferFirstField {
			lb, err := gs.BoundedRead(r, 0, opt.Delim, rune(opt.LineDelim))
			if err != nil {
				return err
			}
			if len(lb) == 0 {
				return nil
			}
			last := lb[len(lb)-1]
			delimited := !last.IsByte() && last.Rune() == opt.Delim
			if !delimited {
				if !opt.SuppressNonDelimited {
					for _, g := range lb {
						if err := gs.PutGlyph(w, g); err != nil {
							return err
						}
					}
					if !(!last.IsByte() && last.Rune() == rune(opt.LineDelim)) {
						if _, werr := w.Write([]byte{opt.LineDelim}); werr != nil {
							return werr
						}
					}
				}
				foundSelected = false
				continue lineLoop
			}

			if opt.Ranges.Selected(1) {
				for _, g := range lb[:len(lb)-1] {
					if err := gs.PutGlyph(w, g); err != nil {
						return err
					}
				}
				if opt.Delim == rune(opt.LineDelim) {
					if _, err := r.Peek(); err != io.EOF {
						foundSelected = true
					}
				} else {
					foundSelected = true
				}
			}
			fieldIdx = 2
		}

		selected := opt.Ranges.Selected(fieldIdx)
		if selected {
			if foundSelected {
				if _, werr := io.WriteString(w, opt.OutputDelimiter); werr != nil {
					return werr
				}
			}
			foundSelected = true
		}

		var lastRune rune
		haveLastRune := false
		for {
			g, err := r.Get()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if !g.IsByte() && (g.Rune() == opt.Delim || g.Rune() == rune(opt.LineDelim)) {
				lastRune = g.Rune()
				haveLastRune = true
				break
			}
			if selected {
				if err := gs.PutGlyph(w, g); err != nil {
					return err
				}
			}
		}

		atEOF := !haveLastRune
		// When Delim == LineDelim the two cannot be told apart by value
		// alone; a matching glyph is treated as a field delimiter (the
		// common case) unless it is immediately followed by the true
		// end of stream, checked below.
		isFieldDelim := haveLastRune && lastRune == opt.Delim
		isLineDelim := haveLastRune && !isFieldDelim && lastRune == rune(opt.LineDelim)

		if opt.Delim == rune(opt.LineDelim) && isFieldDelim {
			if _, err := r.Peek(); err == io.EOF {
				isFieldDelim = false
				atEOF = true
			}
		}

		if isFieldDelim {
			fieldIdx++
			continue lineLoop
		}

		if isLineDelim || atEOF {
			if foundSelected || !(opt.SuppressNonDelimited && fieldIdx == 1) {
				if _, werr := w.Write([]byte{opt.LineDelim}); werr != nil {
					return werr
				}
			}
			if atEOF {
				return nil
			}
			fieldIdx = 1
			foundSelected = false
			if _, err := r.Peek(); err == io.EOF {
				return nil
			} else if err != nil {
				return err
			}
		}
	}
}
