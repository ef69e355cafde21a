package regx

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/v3/assert"
)

var nodeOpts = cmp.Options{
	cmp.AllowUnexported(
		literalNode{},
		charClassNode{},
		oneOrMoreNode{},
		zeroOrOneNode{},
		backReferenceNode{},
		groupNode{},
	),
	cmpopts.EquateEmpty(),
}

func lit(s string) []node {
	nodes := []node{}
	for _, r := range s {
		nodes = append(nodes, literalNode{r})
	}
	return nodes
}

func TestCompileTree(t *testing.T) {
	tests := []struct {
		pattern string
		nodes   []node
		start   bool
		end     bool
	}{
		{pattern: "", nodes: nil},
		{pattern: "abc", nodes: lit("abc")},
		{pattern: "^abc$", nodes: lit("abc"), start: true, end: true},
		{pattern: "^", start: true},
		{pattern: "$", end: true},
		{pattern: "^^", nodes: lit("^"), start: true},
		{pattern: "a$b", nodes: lit("a$b")},
		{pattern: "a^", nodes: lit("a^")},
		{pattern: "a|b", nodes: lit("a|b")},
		{pattern: `\d\w.`, nodes: []node{digitNode{}, alphanumericNode{}, anyNode{}}},
		{pattern: `\\\(`, nodes: lit(`\(`)},
		{pattern: `\`, nodes: lit(`\`)},
		{pattern: `\\$`, nodes: lit(`\`), end: true},
		{pattern: `\3\0`, nodes: []node{backReferenceNode{3}, backReferenceNode{0}}},
		{pattern: `\10`, nodes: []node{backReferenceNode{1}, literalNode{'0'}}},
		{pattern: "[abc]", nodes: []node{charClassNode{positive: true, members: "abc"}}},
		{pattern: "[^abc]x", nodes: []node{charClassNode{positive: false, members: "abc"}, literalNode{'x'}}},
		{pattern: "[", nodes: lit("[")},
		{pattern: "[^", nodes: []node{charClassNode{positive: false}}},
		{pattern: "[a(b", nodes: []node{charClassNode{positive: true, members: "a(b"}}},
		{pattern: `[\w]`, nodes: []node{charClassNode{positive: true, members: `\w`}}},
		{pattern: "a+b?", nodes: []node{
			oneOrMoreNode{literalNode{'a'}},
			zeroOrOneNode{literalNode{'b'}},
		}},
		{pattern: "a+?", nodes: []node{zeroOrOneNode{oneOrMoreNode{literalNode{'a'}}}}},
		{pattern: "+?", nodes: []node{zeroOrOneNode{literalNode{'+'}}}},
		{pattern: "^?", nodes: lit("?"), start: true},
		{pattern: "(a|bc)+", nodes: []node{
			oneOrMoreNode{groupNode{alternatives: [][]node{lit("a"), lit("bc")}}},
		}},
		{pattern: "x(a(b|c))y", nodes: []node{
			literalNode{'x'},
			groupNode{alternatives: [][]node{{
				literalNode{'a'},
				groupNode{alternatives: [][]node{lit("b"), lit("c")}},
			}}},
			literalNode{'y'},
		}},
		{pattern: "(|)", nodes: []node{groupNode{alternatives: [][]node{nil, nil}}}},
		{pattern: "(+)", nodes: []node{groupNode{alternatives: [][]node{lit("+")}}}},
		{pattern: "(a$)$", nodes: []node{groupNode{alternatives: [][]node{lit("a$")}}}, end: true},
		{pattern: `(\w+) and \1`, nodes: append(
			[]node{groupNode{alternatives: [][]node{{oneOrMoreNode{alphanumericNode{}}}}}},
			append(lit(" and "), backReferenceNode{1})...,
		)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			p, err := Compile(tt.pattern)
			assert.NilError(t, err)
			assert.DeepEqual(t, p.nodes, tt.nodes, nodeOpts)
			assert.Equal(t, p.AnchoredStart(), tt.start)
			assert.Equal(t, p.AnchoredEnd(), tt.end)
		})
	}
}

func TestCompileErrorPositions(t *testing.T) {
	tests := []struct {
		pattern string
		want    CompileError
		msg     string
	}{
		{`\q`, CompileError{Kind: UnsupportedEscape, Char: 'q', Pos: 0}, `unsupported escape \q at offset 0`},
		{`ab\q`, CompileError{Kind: UnsupportedEscape, Char: 'q', Pos: 2}, `unsupported escape \q at offset 2`},
		{`(a\s)`, CompileError{Kind: UnsupportedEscape, Char: 's', Pos: 2}, `unsupported escape \s at offset 2`},
		{"(a", CompileError{Kind: UnterminatedGroup, Char: '(', Pos: 0}, "unterminated group at offset 0"},
		{"a(b(c)", CompileError{Kind: UnterminatedGroup, Char: '(', Pos: 1}, "unterminated group at offset 1"},
		{")", CompileError{Kind: UnmatchedParen, Char: ')', Pos: 0}, "unmatched parenthesis at offset 0"},
		{"日本)", CompileError{Kind: UnmatchedParen, Char: ')', Pos: 2}, "unmatched parenthesis at offset 2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			p, err := Compile(tt.pattern)
			assert.Assert(t, p == nil)
			var compileErr *CompileError
			assert.Assert(t, errors.As(err, &compileErr))
			assert.DeepEqual(t, *compileErr, tt.want)
			assert.Error(t, err, tt.msg)
		})
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	patterns := []string{
		`^(\w+) (cat|dog)s? and \1$`,
		`[^xyz]+(a(b|c)|d)?\d`,
		`\\(.)+`,
	}
	for _, pattern := range patterns {
		first := MustCompile(pattern)
		second := MustCompile(pattern)
		if diff := cmp.Diff(first.nodes, second.nodes, nodeOpts); diff != "" {
			t.Errorf("Compile(%q) mismatch (-first +second):\n%s", pattern, diff)
		}
		assert.Equal(t, first.String(), second.String())
	}
}

func TestCompileFragment(t *testing.T) {
	nodes, err := compileFragment("^a.$")
	assert.NilError(t, err)
	assert.DeepEqual(t, nodes, []node{literalNode{'^'}, literalNode{'a'}, anyNode{}, literalNode{'$'}}, nodeOpts)

	nodes, err = compileFragment("a)")
	assert.NilError(t, err)
	assert.DeepEqual(t, nodes, lit("a)"), nodeOpts)

	_, err = compileFragment(`x\z`)
	assert.ErrorContains(t, err, `unsupported escape \z`)

	_, err = compileFragment("(a")
	assert.ErrorContains(t, err, "unterminated group")
}

func TestPatternString(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"", "[]"},
		{"^$", "Start [] End"},
		{`^(a|\d)+x?$`, `Start [OneOrMore(Group([Literal('a')] | [Digit])), ZeroOrOne(Literal('x'))] End`},
		{`[^ab][c].\w\2`, `[NegatedCharClass("ab"), CharClass("c"), Any, Alphanumeric, BackReference(2)]`},
		{"(|)", "[Group([] | [])]"},
	}
	for _, tt := range tests {
		assert.Equal(t, MustCompile(tt.pattern).String(), tt.want)
	}
}
