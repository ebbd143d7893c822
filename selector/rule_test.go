package selector

import (
	"testing"

	"dsq/dom"
	"dsq/pattern"
)

func noopHandler(_ MatcherData) Matcher {
	return OneMatcher(func(dom.Element, bool) bool { return true })
}

func TestCompileTemplate(t *testing.T) {
	patterns := pattern.NewRegistry()
	queue, err := compileTemplate("#{identity}", patterns)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 2 {
		t.Fatalf("queue length %d, want 2", len(queue))
	}
	res := pattern.Exec(queue, []rune("#nav-bar"))
	if !res.Complete || res.Matched != 2 {
		t.Errorf("compiled queue failed on '#nav-bar': %+v", res)
	}
	if res.Steps[1].Name != "identity" || res.Steps[1].String() != "nav-bar" {
		t.Errorf("identity step = %v", res.Steps[1])
	}
}

func TestCompileTemplateLiteralRuns(t *testing.T) {
	patterns := pattern.NewRegistry()
	queue, err := compileTemplate(":first-child", patterns)
	if err != nil {
		t.Fatal(err)
	}
	// a pure literal template compiles to a single character sequence
	if len(queue) != 1 {
		t.Fatalf("queue length %d, want 1", len(queue))
	}
	if res := pattern.Exec(queue, []rune(":first-child")); !res.Complete {
		t.Error("literal queue must consume its own template text")
	}
}

func TestCompileTemplateQuotedContent(t *testing.T) {
	patterns := pattern.NewRegistry()
	queue, err := compileTemplate(`<{regexp#"a\"b}c"}>`, patterns)
	if err != nil {
		t.Fatal(err)
	}
	if len(queue) != 3 {
		t.Fatalf("queue length %d, want 3", len(queue))
	}
	if res := pattern.Exec(queue, []rune(`<a"b}c>`)); !res.Complete {
		t.Error("quoted content must preserve '}' and escaped quotes")
	}
}

func TestCompileTemplateErrors(t *testing.T) {
	patterns := pattern.NewRegistry()
	for _, template := range []string{
		"#{unknown}",
		"{identity",
		"{}",
		"{identity!}",
		"",
		`{regexp#"unterminated}`,
	} {
		if _, err := compileTemplate(template, patterns); err == nil {
			t.Errorf("template %q: expected error", template)
		}
	}
}

func TestRegistryAddValidation(t *testing.T) {
	reg := NewRegistry(nil)
	def := RuleDef{Name: "id", Template: "#{identity}", Priority: 10000, Handler: noopHandler}
	if err := reg.Add(def); err != nil {
		t.Fatal(err)
	}
	if err := reg.Add(def); err == nil {
		t.Error("expected duplicate name error")
	}
	if err := reg.Add(RuleDef{Template: "*", Handler: noopHandler}); err == nil {
		t.Error("expected missing name error")
	}
	if err := reg.Add(RuleDef{Name: "x", Template: "*"}); err == nil {
		t.Error("expected missing handler error")
	}
	if err := reg.Add(RuleDef{Name: "y", Template: "{nope}", Handler: noopHandler}); err == nil {
		t.Error("expected template compile error")
	}
	if rule := reg.Lookup("id"); rule == nil || rule.Priority() != 10000 {
		t.Error("registered rule not found by name")
	}
}

// Priority resolution must not depend on registration sequence.
func TestMatchPriorityOrderIndependence(t *testing.T) {
	lowFirst := NewRegistry(nil)
	highFirst := NewRegistry(nil)
	low := RuleDef{Name: "low", Template: "{identity}", Priority: 100, Handler: noopHandler}
	high := RuleDef{Name: "high", Template: "{identity}", Priority: 10000, Handler: noopHandler}

	lowFirst.MustAdd(low)
	lowFirst.MustAdd(high)
	highFirst.MustAdd(high)
	highFirst.MustAdd(low)

	for _, reg := range []*Registry{lowFirst, highFirst} {
		tok, ok := reg.Match([]rune("div"))
		if !ok {
			t.Fatal("expected a match")
		}
		if tok.Rule.Name() != "high" {
			t.Errorf("matched %q, want the higher-priority rule", tok.Rule.Name())
		}
		if tok.Consumed != 3 {
			t.Errorf("consumed %d, want 3", tok.Consumed)
		}
	}
}

// An all-optional template can match a full queue while consuming no
// input; treating that as a token would pin the tokenizer in place.
func TestMatchRejectsZeroConsumption(t *testing.T) {
	reg := NewRegistry(nil)
	reg.MustAdd(RuleDef{Name: "opt", Template: "{identity?}", Priority: 100, Handler: noopHandler})
	if _, ok := reg.Match([]rune("#rest")); ok {
		t.Error("a zero-consumption match must not produce a token")
	}
	// the same rule still matches when it consumes something
	tok, ok := reg.Match([]rune("div"))
	if !ok || tok.Consumed != 3 {
		t.Fatalf("expected a consuming match, got ok=%v", ok)
	}
}

// Equal priorities resolve by registration order, consistently.
func TestMatchPriorityTieBreak(t *testing.T) {
	reg := NewRegistry(nil)
	reg.MustAdd(RuleDef{Name: "first", Template: "{identity}", Priority: 100, Handler: noopHandler})
	reg.MustAdd(RuleDef{Name: "second", Template: "{identity}", Priority: 100, Handler: noopHandler})
	tok, ok := reg.Match([]rune("div"))
	if !ok {
		t.Fatal("expected a match")
	}
	if tok.Rule.Name() != "first" {
		t.Errorf("matched %q, want registration-order winner 'first'", tok.Rule.Name())
	}
}

func TestFieldData(t *testing.T) {
	reg := NewRegistry(nil)
	reg.MustAdd(RuleDef{
		Name:     "pair",
		Template: "{identity}.{identity}",
		Priority: 1,
		Fields:   []Field{{Name: "identity", Index: 1}},
		Handler:  noopHandler,
	})
	tok, ok := reg.Match([]rune("a.b"))
	if !ok {
		t.Fatal("expected a match")
	}
	if got := tok.Data["identity"]; got != "b" {
		t.Errorf("field value %q, want second identity 'b'", got)
	}
}

func TestRulesEnumerationOrder(t *testing.T) {
	reg := NewRegistry(nil)
	reg.MustAdd(RuleDef{Name: "mid", Template: "m", Priority: 50, Handler: noopHandler})
	reg.MustAdd(RuleDef{Name: "top", Template: "t", Priority: 900, Handler: noopHandler})
	reg.MustAdd(RuleDef{Name: "bottom", Template: "b", Priority: 1, Handler: noopHandler})
	var names []string
	for _, rule := range reg.Rules() {
		names = append(names, rule.Name())
	}
	want := []string{"top", "mid", "bottom"}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("enumeration order %v, want %v", names, want)
		}
	}
}
