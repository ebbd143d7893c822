package rules

import (
	"strings"

	"dsq/dom"
	"dsq/selector"
)

// attrTemplate recognizes the bracketed attribute syntax: `[key]`,
// `[key=v]`, `[key='v']`, `[key="v"]` with the operators =, ^=, $=, *=,
// |= and ~=. The whole bracket body is one regexp: the AttrKey pattern's
// charset legally includes ']', so it cannot delimit a bracketed template
// under sequential matching. The key class excludes the operator
// characters too, or the greedy key run would swallow them before the
// operator group gets a look. Regexp groups: 1 key, 2 operator prefix,
// 3 single-quoted value, 4 double-quoted value, 5 bare value.
const attrTemplate = `[{spaces}{regexp#"([^\s\]'\"=*^$|~]+)(?:\s*([*^$|~])?=\s*(?:'([^']*)'|\"([^\"]*)\"|([^\s\]'\"]+)))?\s*"}]`

// installAttr registers the attribute selector as a per-element predicate.
func installAttr(reg *selector.Registry) error {
	return reg.Add(selector.RuleDef{
		Name:     "attr",
		Template: attrTemplate,
		Priority: priorityAttr,
		Fields: []selector.Field{
			{Name: "regexp", Index: 0},
		},
		Handler: func(data selector.MatcherData) selector.Matcher {
			key := data["1"]
			op := data["2"]
			var want string
			var hasValue bool
			for _, group := range []string{"3", "4", "5"} {
				if v, ok := data[group]; ok {
					want, hasValue = v, true
					break
				}
			}
			return selector.OneMatcher(func(ele dom.Element, _ bool) bool {
				value, ok := ele.Attr(key)
				if !ok {
					return false
				}
				if !hasValue {
					return true
				}
				switch op {
				case "^":
					return want != "" && strings.HasPrefix(value, want)
				case "$":
					return want != "" && strings.HasSuffix(value, want)
				case "*":
					return want != "" && strings.Contains(value, want)
				case "~":
					for _, word := range strings.Fields(value) {
						if word == want {
							return true
						}
					}
					return false
				case "|":
					return value == want || strings.HasPrefix(value, want+"-")
				default:
					return value == want
				}
			})
		},
	})
}
