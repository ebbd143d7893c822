package rules

import (
	"strings"

	"dsq/dom"
	"dsq/selector"
)

// installName registers tag-name matching, e.g. `div`. Tag comparison is
// case-insensitive, as element names are in HTML documents.
func installName(reg *selector.Registry) error {
	return reg.Add(selector.RuleDef{
		Name:     "name",
		Template: "{identity}",
		Priority: priorityName,
		Fields:   []selector.Field{{Name: "identity", Index: 0}},
		Handler: func(data selector.MatcherData) selector.Matcher {
			tag := data["identity"]
			return selector.OneMatcher(func(ele dom.Element, _ bool) bool {
				return strings.EqualFold(ele.TagName(), tag)
			})
		},
	})
}
