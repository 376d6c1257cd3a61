// Command unorm repairs invalid byte sequences in its input according
// to a configurable policy and optionally normalizes the result to a
// Unicode normalization form.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/e-n-f/glyphstream/normalize"
	flag "github.com/spf13/pflag"
)

var (
	form = flag.StringP("normalization", "n", "", "normalization form: nfd, nfc, nfkd, nfkc")
	pol  = flag.StringP("policy", "p", "replace", "invalid-input policy: discard, abort, replace, recode")

	abortFlag   = flag.BoolP("abort", "A", false, "synonym for --policy=abort")
	discardFlag = flag.BoolP("discard", "D", false, "synonym for --policy=discard")
	replaceFlag = flag.BoolP("replace", "R", false, "synonym for --policy=replace")
	recodeFlag  = flag.BoolP("recode", "C", false, "synonym for --policy=recode")

	replaceChar = flag.String("replace-char", "", "Unicode scalar (decimal or 0x-prefixed) used by --policy=replace")
	recodeFmt   = flag.String("recode-format", "", "printf-style format (one %x/%02x verb) used by --policy=recode")

	check     = flag.BoolP("check", "c", false, "check only, produce no output")
	verbose   = flag.BoolP("verbose", "v", false, "report invalid-input locations to stderr")
	zero      = flag.BoolP("zero-terminated", "z", false, "line delimiter is NUL, not newline")
)

var formAliases = map[string]normalize.Form{
	"nfd": normalize.NFD, "d": normalize.NFD,
	"nfc": normalize.NFC, "c": normalize.NFC,
	"nfkd": normalize.NFKD, "kd": normalize.NFKD,
	"nfkc": normalize.NFKC, "kc": normalize.NFKC,
}

func parsePolicy(s string) (normalize.Policy, error) {
	switch strings.ToLower(s) {
	case "discard":
		return normalize.Discard, nil
	case "abort":
		return normalize.Abort, nil
	case "replace":
		return normalize.Replace, nil
	case "recode":
		return normalize.Recode, nil
	default:
		return 0, fmt.Errorf("unorm: unknown policy %q", s)
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]... [FILE]...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	var opt normalize.Options
	opt.Check = *check
	opt.Verbose = *verbose
	if *zero {
		opt.LineDelim = 0
	} else {
		opt.LineDelim = '\n'
	}

	policy, err := parsePolicy(*pol)
	if err != nil {
		log.Fatal(err)
	}
	// --check implies --policy=abort and --verbose, as in the original
	// 'c' case; an explicit policy flag still takes priority over it.
	if *check {
		if !flag.CommandLine.Changed("policy") {
			policy = normalize.Abort
		}
		opt.Verbose = true
	}
	switch {
	case *abortFlag:
		policy = normalize.Abort
	case *discardFlag:
		policy = normalize.Discard
	case *replaceFlag:
		policy = normalize.Replace
	case *recodeFlag:
		policy = normalize.Recode
	}
	opt.Policy = policy
	if policy == normalize.Abort {
		opt.Verbose = true
	}

	if *form != "" {
		f, ok := formAliases[strings.ToLower(*form)]
		if !ok {
			log.Fatalf("unorm: unknown normalization form %q", *form)
		}
		opt.Form = f
		opt.Normalize = true
	}

	if *replaceChar != "" {
		n, err := strconv.ParseInt(strings.TrimPrefix(*replaceChar, "0x"), hexOrDecBase(*replaceChar), 32)
		if err != nil || n < 1 || n > 0x10FFFF {
			log.Fatalf("unorm: invalid --replace-char %q", *replaceChar)
		}
		opt.ReplaceChar = rune(n)
	}
	if *recodeFmt != "" {
		opt.RecodeFormat = *recodeFmt
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
	runErr := normalize.Run(out, os.Stderr, bufio.NewReader(in), opt)
	if flushErr := out.Flush(); flushErr != nil {
		log.Fatal(flushErr)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

func hexOrDecBase(s string) int {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return 16
	}
	return 10
}
