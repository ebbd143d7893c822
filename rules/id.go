package rules

import (
	"dsq/dom"
	"dsq/selector"
)

// installID registers the id selector `#{identity}` at the highest
// priority. The matcher is collection-shaped because it answers from the
// document-wide id index, not by testing elements independently.
//
// The cache flag picks between two modes. Truthy: the indexed element is
// pushed without verifying membership in the input collection, and the
// caller is responsible for intersecting the result against the true input
// set. Falsy: a linear scan keeps only input elements identical (by node
// identity) to the indexed one.
func installID(reg *selector.Registry) error {
	return reg.Add(selector.RuleDef{
		Name:      "id",
		Template:  "#{identity}",
		Priority:  priorityID,
		Cacheable: true,
		Fields:    []selector.Field{{Name: "identity", Index: 0}},
		Handler: func(data selector.MatcherData) selector.Matcher {
			id := data["identity"]
			return selector.AllMatcher(func(eles dom.Elements, useCache bool) dom.Elements {
				result := make(dom.Elements, 0, 1)
				if len(eles) == 0 {
					return result
				}
				doc := eles[0].Document()
				if doc == nil {
					return result
				}
				found := doc.ElementByID(id)
				if found == nil {
					return result
				}
				if useCache {
					return append(result, found.Clone())
				}
				for _, ele := range eles {
					if ele.Is(found) {
						return append(result, ele.Clone())
					}
				}
				return result
			})
		},
	})
}
