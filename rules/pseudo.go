package rules

import (
	"go.uber.org/multierr"

	"dsq/dom"
	"dsq/pattern"
	"dsq/selector"
)

// installPseudo registers the pseudo-class rules. The :nth-* forms resolve
// their formula through the nth resolver; the ordinal shorthands test
// sibling position directly.
func installPseudo(reg *selector.Registry) error {
	return multierr.Combine(
		reg.Add(selector.RuleDef{
			Name:     "nth-child",
			Template: `:nth-child({spaces}{nth}{spaces})`,
			Priority: priorityPseudo,
			Fields:   []selector.Field{{Name: "nth", Index: 0}},
			Handler:  nthHandler(false),
		}),
		reg.Add(selector.RuleDef{
			Name:     "nth-last-child",
			Template: `:nth-last-child({spaces}{nth}{spaces})`,
			Priority: priorityPseudo,
			Fields:   []selector.Field{{Name: "nth", Index: 0}},
			Handler:  nthHandler(true),
		}),
		reg.Add(selector.RuleDef{
			Name:     "first-child",
			Template: `:first-child`,
			Priority: priorityPseudo,
			Handler: func(_ selector.MatcherData) selector.Matcher {
				return selector.OneMatcher(func(ele dom.Element, _ bool) bool {
					index, _ := dom.SiblingPosition(ele)
					return index == 0
				})
			},
		}),
		reg.Add(selector.RuleDef{
			Name:     "last-child",
			Template: `:last-child`,
			Priority: priorityPseudo,
			Handler: func(_ selector.MatcherData) selector.Matcher {
				return selector.OneMatcher(func(ele dom.Element, _ bool) bool {
					index, total := dom.SiblingPosition(ele)
					return index == total-1
				})
			},
		}),
	)
}

// nthHandler builds the :nth-child / :nth-last-child handler; fromEnd
// counts positions from the last sibling backwards.
func nthHandler(fromEnd bool) func(selector.MatcherData) selector.Matcher {
	return func(data selector.MatcherData) selector.Matcher {
		formula, err := pattern.ParseNth(data)
		if err != nil {
			// the nth pattern always yields parsable fields; anything else
			// is a broken rule definition, not bad selector input
			panic(err)
		}
		return selector.OneMatcher(func(ele dom.Element, _ bool) bool {
			index, total := dom.SiblingPosition(ele)
			if fromEnd {
				index = total - 1 - index
			}
			for _, allowed := range formula.Allowed(total) {
				if allowed == index {
					return true
				}
			}
			return false
		})
	}
}
