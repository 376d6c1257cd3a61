// Command fold wraps each line of its input to a given column width.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/e-n-f/glyphstream/fold"
	flag "github.com/spf13/pflag"
)

var (
	countBytes  = flag.BoolP("bytes", "b", false, "count bytes rather than columns")
	breakSpaces = flag.BoolP("spaces", "s", false, "break at spaces")
	width       = flag.IntP("width", "w", 80, "use WIDTH columns instead of 80")
	reflow      = flag.Bool("reflow", false, "reflow paragraphs instead of hard-wrapping lines")
)

// extractDigitWidth implements fold's "-N accumulates a width" shorthand
// (e.g. "fold -12" means "-w 12", and "-1 -2" accumulates to "-w 12"):
// pflag has no notion of a bare numeric flag, so bare "-N" arguments are
// pulled out of os.Args before pflag.Parse ever sees them.
func extractDigitWidth(args []string) (rest []string, digits string) {
	for _, a := range args {
		if len(a) >= 2 && a[0] == '-' && a[1] != '-' && isAllDigits(a[1:]) {
			digits += a[1:]
			continue
		}
		rest = append(rest, a)
	}
	return rest, digits
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func main() {
	args, digits := extractDigitWidth(os.Args[1:])
	os.Args = append(os.Args[:1], args...)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]... [FILE]...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	opt := fold.Options{
		CountBytes:  *countBytes,
		BreakSpaces: *breakSpaces,
		Width:       *width,
		LineDelim:   '\n',
	}
	if digits != "" {
		var n int
		if _, err := fmt.Sscanf(strings.TrimLeft(digits, "0"), "%d", &n); err == nil && n > 0 {
			opt.Width = n
		}
	}

	in := os.Stdin
	if a := flag.Args(); len(a) > 0 {
		f, err := os.Open(a[0])
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(os.Stdout)
	var err error
	if *reflow {
		err = fold.Reflow(out, bufio.NewReader(in), fold.ReflowOptions{Width: opt.Width, LineDelim: opt.LineDelim})
	} else {
		err = fold.Run(out, bufio.NewReader(in), opt)
	}
	if err != nil {
		out.Flush()
		log.Fatal(err)
	}
	if err := out.Flush(); err != nil {
		log.Fatal(err)
	}
}
