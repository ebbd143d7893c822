package rules

import (
	"strings"

	"dsq/dom"
	"dsq/selector"
)

// installClass registers the class selector `.{identity}`: a per-element
// test for membership in the whitespace-delimited class list.
func installClass(reg *selector.Registry) error {
	return reg.Add(selector.RuleDef{
		Name:     "class",
		Template: ".{identity}",
		Priority: priorityClass,
		Fields:   []selector.Field{{Name: "identity", Index: 0}},
		Handler: func(data selector.MatcherData) selector.Matcher {
			className := data["identity"]
			return selector.OneMatcher(func(ele dom.Element, _ bool) bool {
				names, ok := ele.Attr("class")
				if !ok {
					return false
				}
				for _, name := range strings.Fields(names) {
					if name == className {
						return true
					}
				}
				return false
			})
		},
	})
}
