// Command cut selects byte, character, or field ranges from each line
// of its input. CLI shape and flag wiring grounded on the ogier/pflag
// style seen in the xxd reference tool, adapted to spf13/pflag.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/e-n-f/glyphstream/cut"
	flag "github.com/spf13/pflag"
)

var (
	bytesList = flag.StringP("bytes", "b", "", "select only these bytes")
	charsList = flag.StringP("characters", "c", "", "select only these characters")
	fieldList = flag.StringP("fields", "f", "", "select only these fields")

	delimiter = flag.StringP("delimiter", "d", "", "use DELIM instead of TAB for field delimiter")
	noSplit   = flag.BoolP("no-character-splitting", "n", false, "with -b, don't split a multibyte character across a range boundary")
	onlyDelim = flag.BoolP("only-delimited", "s", false, "do not print lines not containing delimiters")
	zero      = flag.BoolP("zero-terminated", "z", false, "line delimiter is NUL, not newline")

	outputDelim = flag.String("output-delimiter", "", "use STRING as the output delimiter")
	complement  = flag.Bool("complement", false, "complement the set of selected bytes, characters or fields")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s OPTION... [FILE]...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	nSpecified := 0
	for _, s := range []string{*bytesList, *charsList, *fieldList} {
		if s != "" {
			nSpecified++
		}
	}
	if nSpecified != 1 {
		log.Fatal("cut: you must specify exactly one of -b, -c, or -f")
	}
	if *onlyDelim && *fieldList == "" {
		log.Fatal("cut: suppressing non-delimited lines makes sense only when operating on fields")
	}
	if *delimiter != "" && *fieldList == "" {
		log.Fatal("cut: an input delimiter may be specified only when operating on fields")
	}

	var opt cut.Options
	var spec string
	switch {
	case *bytesList != "":
		spec = *bytesList
		opt.Mode = cut.ByteMode
		if *noSplit {
			opt.Mode = cut.CharByteMode
		}
	case *charsList != "":
		spec = *charsList
		opt.Mode = cut.CharMode
	default:
		spec = *fieldList
		opt.Mode = cut.FieldMode
		opt.SuppressNonDelimited = *onlyDelim
	}

	ranges, err := cut.ParseRangeSet(spec, *complement)
	if err != nil {
		log.Fatal(err)
	}
	opt.Ranges = ranges

	if *zero {
		opt.LineDelim = 0
	} else {
		opt.LineDelim = '\n'
	}

	if *delimiter != "" {
		r := []rune(*delimiter)
		if len(r) != 1 {
			log.Fatal("cut: the delimiter must be a single character")
		}
		opt.Delim = r[0]
	}
	if flag.CommandLine.Changed("output-delimiter") {
		opt.OutputDelimiterSpecified = true
		opt.OutputDelimiter = *outputDelim
	}

	in := os.Stdin
	if args := flag.Args(); len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	out := bufio.NewWriter(os.Stdout)
	if err := cut.Run(out, bufio.NewReader(in), opt); err != nil {
		out.Flush()
		log.Fatal(err)
	}
	if err := out.Flush(); err != nil {
		log.Fatal(err)
	}
}
