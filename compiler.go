package regx

// groupFrame holds the state of one open group while its body is scanned.
type groupFrame struct {
	// outer is the accumulator of the enclosing sequence, restored on ')'.
	outer        []node
	alternatives [][]node
	start        int
}

type compiler struct {
	pattern []rune
	pos     int
	// anchors enables '^' and '$' recognition and rejects a ')' with no open
	// group. It is off when captured text is recompiled for a
	// backreference, where both are literals.
	anchors bool

	nodes  []node
	groups []groupFrame

	anchoredStart bool
	anchoredEnd   bool
}

func (c *compiler) atEnd() bool {
	return c.pos >= len(c.pattern)
}

func (c *compiler) peek() (rune, bool) {
	if c.atEnd() {
		return 0, false
	}
	return c.pattern[c.pos], true
}

func (c *compiler) emit(n node) {
	c.nodes = append(c.nodes, n)
}

func (c *compiler) compile() error {
	if c.anchors {
		if char, ok := c.peek(); ok && char == '^' {
			c.anchoredStart = true
			c.pos++
		}
	}

	for !c.atEnd() {
		char := c.pattern[c.pos]
		c.pos++

		switch char {
		case '$':
			if c.anchors && c.atEnd() && len(c.groups) == 0 {
				c.anchoredEnd = true
				continue
			}
			c.emit(literalNode{char})
		case '.':
			c.emit(anyNode{})
		case '\\':
			if err := c.compileEscape(); err != nil {
				return err
			}
		case '[':
			c.compileCharClass()
		case '(':
			c.groups = append(c.groups, groupFrame{
				outer: c.nodes,
				start: c.pos - 1,
			})
			c.nodes = nil
		case '|':
			if len(c.groups) == 0 {
				c.emit(literalNode{char})
				continue
			}
			group := &c.groups[len(c.groups)-1]
			group.alternatives = append(group.alternatives, c.nodes)
			c.nodes = nil
		case ')':
			if len(c.groups) == 0 {
				if !c.anchors {
					c.emit(literalNode{char})
					continue
				}
				return newCompileError(UnmatchedParen, char, c.pos-1)
			}
			group := c.groups[len(c.groups)-1]
			c.groups = c.groups[:len(c.groups)-1]
			alternatives := append(group.alternatives, c.nodes)
			c.nodes = append(group.outer, groupNode{alternatives: alternatives})
		case '+', '?':
			c.compileQuantifier(char)
		default:
			c.emit(literalNode{char})
		}
	}

	if len(c.groups) > 0 {
		return newCompileError(UnterminatedGroup, '(', c.groups[len(c.groups)-1].start)
	}
	return nil
}

// compileEscape is called with the backslash already consumed.
func (c *compiler) compileEscape() error {
	char, ok := c.peek()
	if !ok {
		c.emit(literalNode{'\\'})
		return nil
	}
	c.pos++

	switch {
	case char == 'w':
		c.emit(alphanumericNode{})
	case char == 'd':
		c.emit(digitNode{})
	case char == '\\', char == '(':
		c.emit(literalNode{char})
	case isDigit(char):
		c.emit(backReferenceNode{group: int(char - '0')})
	default:
		return newCompileError(UnsupportedEscape, char, c.pos-2)
	}
	return nil
}

// compileCharClass is called with '[' already consumed. Members are taken
// verbatim up to the closing ']' or the end of the pattern.
func (c *compiler) compileCharClass() {
	if c.atEnd() {
		c.emit(literalNode{'['})
		return
	}

	positive := true
	if c.pattern[c.pos] == '^' {
		positive = false
		c.pos++
	}

	start := c.pos
	for !c.atEnd() && c.pattern[c.pos] != ']' {
		c.pos++
	}
	members := string(c.pattern[start:c.pos])
	if !c.atEnd() {
		c.pos++
	}

	c.emit(charClassNode{positive: positive, members: members})
}

func (c *compiler) compileQuantifier(char rune) {
	if len(c.nodes) == 0 {
		c.emit(literalNode{char})
		return
	}

	last := len(c.nodes) - 1
	inner := c.nodes[last]
	if char == '+' {
		c.nodes[last] = oneOrMoreNode{inner: inner}
	} else {
		c.nodes[last] = zeroOrOneNode{inner: inner}
	}
}

func compilePattern(pattern string) (*compiler, error) {
	c := compiler{
		pattern: []rune(pattern),
		anchors: true,
	}
	if err := c.compile(); err != nil {
		return nil, err
	}
	return &c, nil
}

// compileFragment compiles captured text for a backreference. Anchor
// characters and a stray ')' are literals here; an unclosed '(' or an
// unsupported escape is still an error.
func compileFragment(text string) ([]node, error) {
	c := compiler{
		pattern: []rune(text),
	}
	if err := c.compile(); err != nil {
		return nil, err
	}
	return c.nodes, nil
}
