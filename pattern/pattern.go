// Package pattern implements the prefix-matching primitives selector rule
// templates are compiled from. Each pattern recognizes one kind of token at
// the start of a rune sequence; Exec chains a queue of patterns over an
// input, which is the single execution primitive used both to compile rule
// templates and to tokenize live selector text.
package pattern

import (
	"fmt"
	"strconv"
)

// Matched is the result of a successful pattern application: the consumed
// prefix, an optional semantic name ("identity", "nth", "regexp", ...) and
// named sub-captures.
type Matched struct {
	Chars []rune
	Name  string
	Data  map[string]string
}

// String returns the consumed text.
func (m *Matched) String() string {
	return string(m.Chars)
}

// Pattern recognizes a prefix of a rune sequence. Match returns nil when the
// input does not start with the pattern; this is an ordinary outcome, never
// an error. Matching reads only the reported prefix and never mutates the
// pattern, so a Pattern is safe to share across goroutines.
type Pattern interface {
	Match(chars []rune) *Matched
}

// IsNested reports whether p marks a nested sub-selector region that the
// selector compiler must recurse into instead of tokenizing locally.
func IsNested(p Pattern) bool {
	_, ok := p.(NestedSelector)
	return ok
}

// Char matches exactly one literal character.
type Char rune

func (p Char) Match(chars []rune) *Matched {
	if len(chars) == 0 || chars[0] != rune(p) {
		return nil
	}
	return &Matched{Chars: chars[:1]}
}

// CharSeq matches an exact ordered run of characters. The match is atomic:
// any mismatch fails the whole sequence with nothing consumed.
type CharSeq []rune

func (p CharSeq) Match(chars []rune) *Matched {
	if len(p) > len(chars) {
		return nil
	}
	for i, ch := range p {
		if chars[i] != ch {
			return nil
		}
	}
	return &Matched{Chars: chars[:len(p)]}
}

// Identity matches a CSS-identifier-like token: first char [A-Za-z_],
// then [A-Za-z0-9_-]*. With Optional set, a failed first char still
// succeeds with zero consumed characters, for places where an identifier
// may be elided.
type Identity struct {
	Optional bool
}

func (p Identity) Match(chars []rune) *Matched {
	const name = "identity"
	if len(chars) == 0 || !isIdentityStart(chars[0]) {
		if p.Optional {
			return &Matched{Name: name}
		}
		return nil
	}
	n := 1
	for n < len(chars) && isIdentityRune(chars[n]) {
		n++
	}
	return &Matched{Chars: chars[:n], Name: name}
}

// AttrKey matches a maximal run of characters valid in an attribute name:
// everything except ASCII whitespace, ASCII control, Unicode noncharacters
// and the literal set {NUL, ", ', >, /, =}. Fails on an empty run.
type AttrKey struct{}

func (p AttrKey) Match(chars []rune) *Matched {
	n := 0
	for n < len(chars) && isAttrKeyRune(chars[n]) {
		n++
	}
	if n == 0 {
		return nil
	}
	return &Matched{Chars: chars[:n], Name: "attr_key"}
}

// Spaces matches a maximal run of ASCII whitespace of at least Min
// characters. Min zero makes the run optional.
type Spaces struct {
	Min int
}

func (p Spaces) Match(chars []rune) *Matched {
	n := 0
	for n < len(chars) && isASCIISpace(chars[n]) {
		n++
	}
	if n < p.Min {
		return nil
	}
	return &Matched{Chars: chars[:n], Name: "spaces"}
}

// Index matches a non-negative integer literal with no leading zero:
// a single "0", or [1-9][0-9]*.
type Index struct{}

func (p Index) Match(chars []rune) *Matched {
	if len(chars) == 0 || !isDigit(chars[0]) {
		return nil
	}
	n := 1
	if chars[0] != '0' {
		for n < len(chars) && isDigit(chars[n]) {
			n++
		}
	}
	return &Matched{Chars: chars[:n], Name: "index"}
}

// ExecResult is what a queue run produces: the per-step results obtained
// before the first failure, the total consumed length, the count of
// patterns that succeeded, and whether the whole input was consumed.
type ExecResult struct {
	Steps    []*Matched
	Consumed int
	Matched  int
	Complete bool
}

// Exec applies each pattern of queue in turn against the unconsumed suffix
// of chars, stopping at the first failure.
func Exec(queue []Pattern, chars []rune) ExecResult {
	res := ExecResult{Steps: make([]*Matched, 0, len(queue))}
	for _, p := range queue {
		m := p.Match(chars[res.Consumed:])
		if m == nil {
			break
		}
		res.Consumed += len(m.Chars)
		res.Matched++
		res.Steps = append(res.Steps, m)
	}
	res.Complete = res.Consumed == len(chars)
	return res
}

func runesToInt(chars []rune) (int, error) {
	n, err := strconv.Atoi(string(chars))
	if err != nil {
		return 0, fmt.Errorf("not an integer %q: %w", string(chars), err)
	}
	return n, nil
}

func isIdentityStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentityRune(ch rune) bool {
	return isIdentityStart(ch) || isDigit(ch) || ch == '-'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isASCIISpace(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// isNonCharacter reports Unicode noncharacters per
// https://infra.spec.whatwg.org/#noncharacter
func isNonCharacter(ch rune) bool {
	if ch >= 0xFDD0 && ch <= 0xFDEF {
		return true
	}
	// the last two code points of every plane
	low := ch & 0xFFFF
	return ch >= 0xFFFE && ch <= 0x10FFFF && (low == 0xFFFE || low == 0xFFFF)
}

// isAttrKeyRune follows the HTML attribute name syntax:
// https://html.spec.whatwg.org/multipage/syntax.html#attributes-2
func isAttrKeyRune(ch rune) bool {
	if isASCIISpace(ch) || ch < 0x20 || ch == 0x7F || isNonCharacter(ch) {
		return false
	}
	switch ch {
	case 0, '"', '\'', '>', '/', '=':
		return false
	}
	return true
}
