// Command regx matches one line read from stdin against a pattern.
//
// Usage: echo <input_text> | regx -E <pattern> [-o] [-v]
//
// The exit status is 0 when the line matches, 1 when it does not, and 2 on
// usage errors or malformed patterns.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/auvred/regx"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

type options struct {
	pattern      string
	onlyMatching bool
	verbose      bool
}

func parseArgs(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("regx", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.pattern, "E", "", "pattern to match")
	fs.BoolVar(&opts.onlyMatching, "o", false, "print only the matched part of the line")
	fs.BoolVar(&opts.verbose, "v", false, "print the compiled pattern and match details to stderr")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	patternSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "E" {
			patternSet = true
		}
	})
	if !patternSet {
		return options{}, errors.New("expected a pattern after -E")
	}
	if fs.NArg() > 0 {
		return options{}, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return opts, nil
}

// readLine returns the first line of r without its line terminator.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "regx: %v\nusage: regx -E <pattern> [-o] [-v]\n", err)
		return exitError
	}

	logger := NewLogger(opts.verbose)
	logger.SetOutput(stderr)

	p, err := regx.Compile(opts.pattern)
	if err != nil {
		fmt.Fprintf(stderr, "regx: invalid pattern %q: %v\n", opts.pattern, err)
		return exitError
	}
	logger.Section("pattern")
	logger.Log("source %q", p.Source())
	logger.Log("nodes %s", p)
	logger.Log("anchored start=%t end=%t", p.AnchoredStart(), p.AnchoredEnd())

	line, err := readLine(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "regx: reading input: %v\n", err)
		return exitError
	}

	match := p.FindMatch(line)
	if match == nil {
		logger.Log("no match in %q", line)
		return exitNoMatch
	}

	logger.Section("match")
	logger.Log("span [%d, %d)", match.Start, match.End)
	for i, g := range match.Groups {
		logger.Log("group %d = %q", i+1, g)
	}

	if opts.onlyMatching {
		fmt.Fprintln(stdout, string([]rune(line)[match.Start:match.End]))
	} else {
		fmt.Fprintln(stdout, line)
	}
	return exitMatch
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
