package selector

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dsq/dom"
)

// Combinators joining two segments of a selector.
const (
	CombinatorDescendant = ' '
	CombinatorChild      = '>'
	CombinatorNext       = '+'
	CombinatorFollowing  = '~'
)

// Segment is one simple-selector compound: the rule tokens recognized at a
// position, plus the combinator relating it to the previous segment.
type Segment struct {
	Combinator rune
	Tokens     []Token
}

// Selector is a compiled selector string: comma-separated groups of
// combinator-joined segments.
type Selector struct {
	raw    string
	groups [][]Segment
}

func (s *Selector) String() string { return s.raw }

// Groups exposes the compiled structure.
func (s *Selector) Groups() [][]Segment { return s.groups }

// Compile tokenizes a raw selector string against the registered rules.
// Unrecognizable text is an ordinary input error, never a panic.
func (r *Registry) Compile(text string) (*Selector, error) {
	chars := []rune(strings.TrimSpace(text))
	if len(chars) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	sel := &Selector{raw: text}
	var group []Segment
	cur := Segment{Combinator: CombinatorDescendant}
	flushSegment := func() error {
		if len(cur.Tokens) == 0 {
			return fmt.Errorf("invalid selector %q: segment without content", text)
		}
		group = append(group, cur)
		return nil
	}
	i := 0
	for i < len(chars) {
		if isSeparator(chars[i]) {
			comb, endsGroup, next, err := scanSeparator(text, chars, i)
			if err != nil {
				return nil, err
			}
			if err := flushSegment(); err != nil {
				return nil, err
			}
			if endsGroup {
				sel.groups = append(sel.groups, group)
				group = nil
				cur = Segment{Combinator: CombinatorDescendant}
			} else {
				cur = Segment{Combinator: comb}
			}
			i = next
			continue
		}
		tok, ok := r.Match(chars[i:])
		if !ok {
			return nil, fmt.Errorf("invalid selector %q at offset %d", text, i)
		}
		cur.Tokens = append(cur.Tokens, tok)
		i += tok.Consumed
	}
	if err := flushSegment(); err != nil {
		return nil, err
	}
	sel.groups = append(sel.groups, group)
	r.log.Debug("Compiled selector",
		zap.String("selector", text),
		zap.Int("groups", len(sel.groups)))
	return sel, nil
}

// Query compiles text and evaluates it against doc.
func (r *Registry) Query(doc dom.Document, text string) (dom.Elements, error) {
	sel, err := r.Compile(text)
	if err != nil {
		return nil, err
	}
	return sel.MatchAll(doc), nil
}

// MatchAll evaluates the selector over a whole document, returning the
// union of all groups' results in document order of first appearance.
func (s *Selector) MatchAll(doc dom.Document) dom.Elements {
	root := doc.Root()
	if root == nil {
		return nil
	}
	seed := append(dom.Elements{root}, dom.Descendants(root)...)
	var out dom.Elements
	for _, group := range s.groups {
		cur := seed
		for si, seg := range group {
			if si > 0 {
				cur = applyCombinator(seg.Combinator, cur)
			}
			for _, tok := range seg.Tokens {
				if len(cur) == 0 {
					break
				}
				cur = applyToken(tok, cur)
			}
		}
		for _, e := range cur {
			if !out.Contains(e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// applyToken evaluates one rule token over the current collection.
// AllMatcher results produced under the cache fast path are intersected
// against the live input set, honoring the caller obligation of the
// caching contract.
func applyToken(tok Token, cur dom.Elements) dom.Elements {
	switch m := tok.Rule.Matcher(tok.Data).(type) {
	case OneMatcher:
		out := make(dom.Elements, 0, len(cur))
		for _, e := range cur {
			if m(e, false) {
				out = append(out, e)
			}
		}
		return out
	case AllMatcher:
		useCache := tok.Rule.Cacheable()
		out := m(cur, useCache)
		if useCache {
			out = out.Intersect(cur)
		}
		return out
	}
	return nil
}

func applyCombinator(comb rune, cur dom.Elements) dom.Elements {
	var out dom.Elements
	add := func(e dom.Element) {
		if !out.Contains(e) {
			out = append(out, e)
		}
	}
	for _, e := range cur {
		switch comb {
		case CombinatorChild:
			for _, c := range e.Children() {
				add(c)
			}
		case CombinatorNext:
			if next := nextSiblings(e, true); len(next) > 0 {
				add(next[0])
			}
		case CombinatorFollowing:
			for _, s := range nextSiblings(e, false) {
				add(s)
			}
		default:
			for _, d := range dom.Descendants(e) {
				add(d)
			}
		}
	}
	return out
}

// nextSiblings returns the element siblings after e in document order;
// with firstOnly set, at most one.
func nextSiblings(e dom.Element, firstOnly bool) dom.Elements {
	parent := e.Parent()
	if parent == nil {
		return nil
	}
	index, _ := dom.SiblingPosition(e)
	siblings := parent.Children()
	if index+1 >= len(siblings) {
		return nil
	}
	if firstOnly {
		return siblings[index+1 : index+2]
	}
	return siblings[index+1:]
}

func isSeparator(ch rune) bool {
	switch ch {
	case ' ', '\t', '\n', '\f', '\r', '>', '+', '~', ',':
		return true
	}
	return false
}

// scanSeparator consumes a run of whitespace and at most one combinator or
// group separator, returning the combinator in effect and the next offset.
func scanSeparator(text string, chars []rune, i int) (comb rune, endsGroup bool, next int, err error) {
	comb = CombinatorDescendant
	seen := false
	for i < len(chars) && isSeparator(chars[i]) {
		switch chars[i] {
		case '>', '+', '~', ',':
			if seen {
				return 0, false, 0, fmt.Errorf("invalid selector %q: unexpected %q at offset %d", text, string(chars[i]), i)
			}
			seen = true
			if chars[i] == ',' {
				endsGroup = true
			} else {
				comb = chars[i]
			}
		}
		i++
	}
	if i >= len(chars) {
		return 0, false, 0, fmt.Errorf("invalid selector %q: trailing separator", text)
	}
	return comb, endsGroup, i, nil
}
