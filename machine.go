package regx

import (
	"errors"
	"slices"
	"strings"
)

var errNoMatch = errors.New("no match")

// machine is the state of a single match attempt at one candidate offset.
// Positions are indexes into input, so a snapshot of the cursor is just an
// int held by the caller.
type machine struct {
	input []rune

	// captures is the capture table: slot k is captures[k-1]. Its length is
	// the number of groups that have matched so far in this attempt.
	captures []string

	// expanding lists the slots whose backreferences are being matched, so
	// that captured text referring back to itself is rejected.
	expanding []int
}

func newMachine(input []rune) *machine {
	return &machine{input: input}
}

// matchSequence matches nodes in order starting at pos and returns the
// position after the last node. On failure the returned position is pos.
func (vm *machine) matchSequence(nodes []node, pos int) (int, error) {
	start := pos
	for _, n := range nodes {
		next, err := vm.matchNode(n, pos)
		if err != nil {
			return start, err
		}
		pos = next
	}
	return pos, nil
}

func (vm *machine) matchRune(pos int, pred func(r rune) bool) (int, error) {
	if pos >= len(vm.input) || !pred(vm.input[pos]) {
		return pos, errNoMatch
	}
	return pos + 1, nil
}

func (vm *machine) matchNode(n node, pos int) (int, error) {
	switch n := n.(type) {
	case literalNode:
		return vm.matchRune(pos, func(r rune) bool { return r == n.char })
	case digitNode:
		return vm.matchRune(pos, isDigit)
	case alphanumericNode:
		return vm.matchRune(pos, isASCIIWordChar)
	case anyNode:
		return vm.matchRune(pos, func(rune) bool { return true })
	case charClassNode:
		return vm.matchRune(pos, func(r rune) bool {
			return strings.ContainsRune(n.members, r) == n.positive
		})
	case oneOrMoreNode:
		end, err := vm.matchNode(n.inner, pos)
		if err != nil {
			return pos, err
		}
		// Greedy and never given back: a later failure does not retry with
		// fewer repetitions.
		for {
			mark := len(vm.captures)
			next, err := vm.matchNode(n.inner, end)
			if err != nil || next == end {
				vm.captures = vm.captures[:mark]
				return end, nil
			}
			end = next
		}
	case zeroOrOneNode:
		end, err := vm.matchNode(n.inner, pos)
		if err != nil {
			return pos, nil
		}
		return end, nil
	case groupNode:
		return vm.matchGroup(n, pos)
	case backReferenceNode:
		return vm.matchBackReference(n.group, pos)
	}
	panic("regx: unknown node type")
}

func (vm *machine) matchGroup(n groupNode, pos int) (int, error) {
	mark := len(vm.captures)
	err := errNoMatch
	for _, alt := range n.alternatives {
		var end int
		end, err = vm.matchSequence(alt, pos)
		if err == nil {
			vm.captures = append(vm.captures, string(vm.input[pos:end]))
			return end, nil
		}
		vm.captures = vm.captures[:mark]
	}
	return pos, err
}

// matchBackReference recompiles the captured text as pattern syntax and
// matches it at pos.
func (vm *machine) matchBackReference(group, pos int) (int, error) {
	if group < 1 || group > len(vm.captures) {
		return pos, newBackreferenceError(group, false)
	}
	if slices.Contains(vm.expanding, group) {
		return pos, newBackreferenceError(group, true)
	}

	nodes, err := compileFragment(vm.captures[group-1])
	if err != nil {
		return pos, errNoMatch
	}

	vm.expanding = append(vm.expanding, group)
	end, err := vm.matchSequence(nodes, pos)
	vm.expanding = vm.expanding[:len(vm.expanding)-1]
	return end, err
}

// attempt walks the whole pattern from start. It returns nil and the reason
// when the candidate does not match.
func (p *Pattern) attempt(input []rune, start int) (*Match, error) {
	vm := newMachine(input)
	end, err := vm.matchSequence(p.nodes, start)
	if err != nil {
		return nil, err
	}
	if p.anchoredEnd && end != len(input) {
		return nil, errNoMatch
	}
	return &Match{
		Start:  start,
		End:    end,
		Groups: vm.captures,
	}, nil
}

func (p *Pattern) findMatch(input string) *Match {
	runes := []rune(input)
	if p.anchoredStart {
		m, _ := p.attempt(runes, 0)
		return m
	}
	for start := 0; start <= len(runes); start++ {
		if m, err := p.attempt(runes, start); err == nil {
			return m
		}
	}
	return nil
}
