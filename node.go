package regx

import (
	"strconv"
	"strings"
)

// node is one element of a compiled pattern. The tree is never mutated after
// compilation.
type node interface {
	String() string
}

type literalNode struct {
	char rune
}

type digitNode struct{}

type alphanumericNode struct{}

type anyNode struct{}

type charClassNode struct {
	positive bool
	// members is matched as a set; order is kept only for rendering.
	members string
}

type oneOrMoreNode struct {
	inner node
}

type zeroOrOneNode struct {
	inner node
}

type backReferenceNode struct {
	group int
}

type groupNode struct {
	alternatives [][]node
}

func (n literalNode) String() string    { return "Literal(" + strconv.QuoteRune(n.char) + ")" }
func (digitNode) String() string        { return "Digit" }
func (alphanumericNode) String() string { return "Alphanumeric" }
func (anyNode) String() string          { return "Any" }

func (n charClassNode) String() string {
	if n.positive {
		return "CharClass(" + strconv.Quote(n.members) + ")"
	}
	return "NegatedCharClass(" + strconv.Quote(n.members) + ")"
}

func (n oneOrMoreNode) String() string { return "OneOrMore(" + n.inner.String() + ")" }
func (n zeroOrOneNode) String() string { return "ZeroOrOne(" + n.inner.String() + ")" }

func (n backReferenceNode) String() string {
	return "BackReference(" + strconv.Itoa(n.group) + ")"
}

func (n groupNode) String() string {
	var out strings.Builder
	out.WriteString("Group(")
	for i, alt := range n.alternatives {
		if i > 0 {
			out.WriteString(" | ")
		}
		out.WriteString(formatNodes(alt))
	}
	out.WriteByte(')')
	return out.String()
}

func formatNodes(nodes []node) string {
	var out strings.Builder
	out.WriteByte('[')
	for i, n := range nodes {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(n.String())
	}
	out.WriteByte(']')
	return out.String()
}

func isDigit(r rune) bool {
	return uint32(r)-'0' <= 9
}

func isASCIIWordChar(r rune) bool {
	return isDigit(r) || uint32(r|('a'-'A'))-'a' <= 'z'-'a' || r == '_'
}
