// Package selector implements the rule/matcher protocol over the pattern
// engine: prioritized rules compiled from placeholder templates, the
// registry the tokenizer consults, and a compiler/executor for complete
// selector strings.
package selector

import (
	"fmt"
	"strings"

	"dsq/dom"
	"dsq/pattern"
)

// MatcherData carries the captured field values a rule extracted from
// selector text, keyed by field name plus any sub-captures of the matched
// step (e.g. the "n"/"index" fields of an nth formula).
type MatcherData map[string]string

// Matcher is the runtime evaluation unit a rule's handler produces.
// Exactly one shape exists per matcher, by type:
//
//   - OneMatcher tests a single element, for rules evaluated
//     element-by-element;
//   - AllMatcher transforms a whole ordered collection, for rules with
//     collection-relative semantics (universal selector, id lookup).
//
// The bool argument is the cache flag of the evaluation contract: under a
// truthy flag a cacheable rule's AllMatcher may return elements without
// verifying membership in the input, and the caller must intersect the
// result against the true input set before trusting it.
type Matcher interface {
	matcher()
}

// OneMatcher is the single-element predicate shape.
type OneMatcher func(ele dom.Element, useCache bool) bool

// AllMatcher is the whole-collection transform shape.
type AllMatcher func(eles dom.Elements, useCache bool) dom.Elements

func (OneMatcher) matcher() {}
func (AllMatcher) matcher() {}

// Field declares one captured value of a rule template: the semantic
// capture name and which occurrence of it within the template is meant.
type Field struct {
	Name  string
	Index int
}

// RuleDef is the declarative form of a selector feature. The template is
// literal characters interleaved with placeholders:
//
//	{name}            a registered pattern kind
//	{name?}           with a modifier character (?, !)
//	{name#content}    with configuration content; double-quote the content
//	                  ("...", \" and \\ escapes) when it contains '}'
type RuleDef struct {
	Name      string
	Template  string
	Priority  int
	Fields    []Field
	Cacheable bool
	Handler   func(data MatcherData) Matcher
}

// Rule is a compiled selector feature. Rules are built once at registration
// and never mutated afterwards.
type Rule struct {
	name      string
	template  string
	priority  int
	fields    []Field
	cacheable bool
	handler   func(MatcherData) Matcher
	queue     []pattern.Pattern
}

func (r *Rule) Name() string     { return r.name }
func (r *Rule) Template() string { return r.template }
func (r *Rule) Priority() int    { return r.priority }
func (r *Rule) Cacheable() bool  { return r.cacheable }

// Queue exposes the compiled pattern queue.
func (r *Rule) Queue() []pattern.Pattern { return r.queue }

// Fields exposes the declared capture fields.
func (r *Rule) Fields() []Field { return r.fields }

// Matcher invokes the rule's handler over captured field values.
func (r *Rule) Matcher(data MatcherData) Matcher {
	return r.handler(data)
}

// fieldData converts positional step results into the named values the
// rule declared: for each field, the Index-th step whose semantic name
// equals the field name contributes its consumed text under the field
// name, plus all of its sub-captures.
func (r *Rule) fieldData(steps []*pattern.Matched) MatcherData {
	data := make(MatcherData, len(r.fields))
	for _, field := range r.fields {
		seen := 0
		for _, step := range steps {
			if step.Name != field.Name {
				continue
			}
			if seen == field.Index {
				data[field.Name] = step.String()
				for k, v := range step.Data {
					data[k] = v
				}
				break
			}
			seen++
		}
	}
	return data
}

// compileTemplate parses a rule template into a pattern queue using the
// registered placeholder kinds. Literal runs become CharSeq patterns.
func compileTemplate(template string, patterns *pattern.Registry) ([]pattern.Pattern, error) {
	chars := []rune(template)
	var queue []pattern.Pattern
	var literal []rune
	flush := func() {
		switch len(literal) {
		case 0:
		case 1:
			queue = append(queue, pattern.Char(literal[0]))
			literal = nil
		default:
			queue = append(queue, pattern.CharSeq(literal))
			literal = nil
		}
	}
	for i := 0; i < len(chars); {
		if chars[i] != '{' {
			literal = append(literal, chars[i])
			i++
			continue
		}
		flush()
		name, modifier, content, next, err := parsePlaceholder(chars, i)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", template, err)
		}
		p, err := patterns.ToPattern(name, modifier, content)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", template, err)
		}
		queue = append(queue, p)
		i = next
	}
	flush()
	if len(queue) == 0 {
		return nil, fmt.Errorf("template %q compiles to nothing", template)
	}
	return queue, nil
}

// parsePlaceholder reads one {name[modifier][#content]} starting at the
// opening brace, returning the offset just past the closing brace.
func parsePlaceholder(chars []rune, start int) (name, modifier, content string, next int, err error) {
	i := start + 1
	j := i
	for j < len(chars) && (isPlaceholderName(chars[j])) {
		j++
	}
	if j == i {
		return "", "", "", 0, fmt.Errorf("empty placeholder name at offset %d", start)
	}
	name = string(chars[i:j])
	i = j
	if i < len(chars) && strings.ContainsRune("?!", chars[i]) {
		modifier = string(chars[i])
		i++
	}
	if i < len(chars) && chars[i] == '#' {
		i++
		content, i, err = parsePlaceholderContent(chars, i)
		if err != nil {
			return "", "", "", 0, err
		}
	}
	if i >= len(chars) || chars[i] != '}' {
		return "", "", "", 0, fmt.Errorf("unterminated placeholder %q", name)
	}
	return name, modifier, content, i + 1, nil
}

func parsePlaceholderContent(chars []rune, i int) (string, int, error) {
	if i < len(chars) && chars[i] == '"' {
		var out []rune
		i++
		for i < len(chars) {
			switch chars[i] {
			case '"':
				return string(out), i + 1, nil
			case '\\':
				if i+1 < len(chars) && (chars[i+1] == '"' || chars[i+1] == '\\') {
					out = append(out, chars[i+1])
					i += 2
					continue
				}
				out = append(out, chars[i])
				i++
			default:
				out = append(out, chars[i])
				i++
			}
		}
		return "", 0, fmt.Errorf("unterminated quoted placeholder content")
	}
	j := i
	for j < len(chars) && chars[j] != '}' {
		j++
	}
	return string(chars[i:j]), j, nil
}

func isPlaceholderName(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || ch == '_'
}
