package rules

import (
	"dsq/dom"
	"dsq/selector"
)

// installAll registers the universal selector `*`: an order-preserving
// copy of the input collection, at the lowest priority.
func installAll(reg *selector.Registry) error {
	return reg.Add(selector.RuleDef{
		Name:     "all",
		Template: "*",
		Priority: priorityAll,
		Handler: func(_ selector.MatcherData) selector.Matcher {
			return selector.AllMatcher(func(eles dom.Elements, _ bool) dom.Elements {
				return eles.Cloned()
			})
		},
	})
}
