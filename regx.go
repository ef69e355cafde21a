// Package regx is a small backtracking regular expression matcher for single
// lines of text.
//
// The supported syntax is deliberately tiny: literals, ".", "\d", "\w",
// "\\", "\(", positive and negated character classes, the "+" and "?"
// quantifiers, capturing alternation groups and the backreferences "\1" to
// "\9". A leading "^" and a trailing "$" anchor the match.
//
// Quantifiers are greedy and never give back what they consumed; only group
// alternatives are retried. Backreferences re-parse the captured text as
// pattern syntax before matching it.
package regx

import (
	"strconv"
	"strings"
)

// CompileErrorKind classifies a [CompileError].
type CompileErrorKind uint8

const (
	// An escape sequence other than \d, \w, \\, \( or \0-\9.
	UnsupportedEscape CompileErrorKind = iota

	// A "(" that is never closed.
	UnterminatedGroup

	// A ")" without an open group.
	UnmatchedParen
)

func (k CompileErrorKind) String() string {
	switch k {
	case UnsupportedEscape:
		return "unsupported escape"
	case UnterminatedGroup:
		return "unterminated group"
	case UnmatchedParen:
		return "unmatched parenthesis"
	}
	return "unknown error"
}

// CompileError is returned by [Compile] for a malformed pattern. No partial
// pattern is produced.
type CompileError struct {
	Kind CompileErrorKind
	// Char is the offending character: the escaped character for
	// UnsupportedEscape, otherwise the parenthesis.
	Char rune
	// Pos is the rune offset of the offending token in the pattern.
	Pos int
}

func (e *CompileError) Error() string {
	if e.Kind == UnsupportedEscape {
		return e.Kind.String() + " \\" + string(e.Char) + " at offset " + strconv.Itoa(e.Pos)
	}
	return e.Kind.String() + " at offset " + strconv.Itoa(e.Pos)
}

var _ error = (*CompileError)(nil)

func newCompileError(kind CompileErrorKind, char rune, pos int) *CompileError {
	return &CompileError{Kind: kind, Char: char, Pos: pos}
}

// BackreferenceError reports a backreference that cannot be resolved during a
// match attempt. It only ever fails the current candidate; the public
// matching methods report it as a non-match.
type BackreferenceError struct {
	Group int
	// Cyclic is set when the captured text, re-parsed as a pattern,
	// refers back to the group being expanded.
	Cyclic bool
}

func (e *BackreferenceError) Error() string {
	if e.Cyclic {
		return "backreference \\" + strconv.Itoa(e.Group) + " refers to itself"
	}
	return "backreference \\" + strconv.Itoa(e.Group) + " to a group that has not matched"
}

var _ error = (*BackreferenceError)(nil)

func newBackreferenceError(group int, cyclic bool) *BackreferenceError {
	return &BackreferenceError{Group: group, Cyclic: cyclic}
}

// Pattern is a compiled pattern.
// It is safe for concurrent use by multiple goroutines: matching never
// mutates it.
type Pattern struct {
	source        string
	nodes         []node
	anchoredStart bool
	anchoredEnd   bool
}

// Compile parses a pattern and returns a Pattern that can be matched against
// input lines. A malformed pattern yields a *[CompileError].
func Compile(pattern string) (*Pattern, error) {
	c, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	return &Pattern{
		source:        pattern,
		nodes:         c.nodes,
		anchoredStart: c.anchoredStart,
		anchoredEnd:   c.anchoredEnd,
	}, nil
}

// MustCompile is like [Compile] but panics if the pattern cannot be parsed.
// It simplifies safe initialization of global variables holding patterns.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic("regx: MustCompile: " + err.Error())
	}
	return p
}

// Matches compiles pattern and reports whether it matches input.
// A compile failure is returned as an error and is never reported as a
// plain non-match.
func Matches(pattern, input string) (bool, error) {
	p, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return p.MatchString(input), nil
}

// Match holds the result of a successful match.
type Match struct {
	// Start and End delimit the matched text as rune offsets into the
	// input, End exclusive.
	Start int
	End   int
	// Groups is the capture table. Groups[k-1] is the text of the k-th
	// group to match during the winning attempt, counted in the order the
	// groups finished matching.
	Groups []string
}

// MatchString reports whether p matches input.
//
// Without a start anchor every offset from 0 to len(input) is tried in
// order and the first one that matches wins.
func (p *Pattern) MatchString(input string) bool {
	return p.findMatch(input) != nil
}

// FindMatch is like [Pattern.MatchString] but returns the winning attempt,
// or nil if there is no match.
func (p *Pattern) FindMatch(input string) *Match {
	return p.findMatch(input)
}

// AnchoredStart reports whether the pattern began with "^".
func (p *Pattern) AnchoredStart() bool {
	return p.anchoredStart
}

// AnchoredEnd reports whether the pattern ended with "$".
func (p *Pattern) AnchoredEnd() bool {
	return p.anchoredEnd
}

// Source returns the text the pattern was compiled from.
func (p *Pattern) Source() string {
	return p.source
}

// String renders the compiled node tree, with the anchors as Start and End
// markers.
func (p *Pattern) String() string {
	var out strings.Builder
	if p.anchoredStart {
		out.WriteString("Start ")
	}
	out.WriteString(formatNodes(p.nodes))
	if p.anchoredEnd {
		out.WriteString(" End")
	}
	return out.String()
}
