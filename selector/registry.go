package selector

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"dsq/pattern"
)

// Registry holds the compiled selector rules in descending priority order,
// stable by registration order on equal priorities. It is write-once at
// process initialization and read-only from then on.
type Registry struct {
	log      *zap.Logger
	patterns *pattern.Registry

	mu     sync.RWMutex
	rules  []*Rule
	byName map[string]*Rule
}

// NewRegistry creates an empty rule registry with the built-in pattern
// kinds available. A nil logger disables logging.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		log:      log.Named("selector"),
		patterns: pattern.NewRegistry(),
		byName:   make(map[string]*Rule, 16),
	}
}

// Patterns exposes the pattern registry rule templates compile against.
func (r *Registry) Patterns() *pattern.Registry {
	return r.patterns
}

// Add compiles def's template and registers the rule. A duplicate name or
// an uncompilable template is a configuration error: the caller must abort
// initialization rather than run with a half-built registry.
func (r *Registry) Add(def RuleDef) error {
	if def.Name == "" {
		return fmt.Errorf("rule with template %q has no name", def.Template)
	}
	if def.Handler == nil {
		return fmt.Errorf("rule %q has no handler", def.Name)
	}
	queue, err := compileTemplate(def.Template, r.patterns)
	if err != nil {
		return fmt.Errorf("rule %q: %w", def.Name, err)
	}
	rule := &Rule{
		name:      def.Name,
		template:  def.Template,
		priority:  def.Priority,
		fields:    def.Fields,
		cacheable: def.Cacheable,
		handler:   def.Handler,
		queue:     queue,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[def.Name]; ok {
		return fmt.Errorf("rule %q is already registered", def.Name)
	}
	// insert keeping descending priority, registration order on ties
	at := len(r.rules)
	for i, cur := range r.rules {
		if cur.priority < rule.priority {
			at = i
			break
		}
	}
	r.rules = append(r.rules, nil)
	copy(r.rules[at+1:], r.rules[at:])
	r.rules[at] = rule
	r.byName[def.Name] = rule
	r.log.Debug("Registered rule",
		zap.String("name", def.Name),
		zap.String("template", def.Template),
		zap.Int("priority", def.Priority))
	return nil
}

// MustAdd is Add for built-in definitions whose failure is a defect.
func (r *Registry) MustAdd(def RuleDef) {
	if err := r.Add(def); err != nil {
		panic(err)
	}
}

// Rules enumerates the registered rules in descending priority order.
func (r *Registry) Rules() []*Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Lookup returns the rule registered under name, or nil.
func (r *Registry) Lookup(name string) *Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// Token is one recognized rule application at a position of selector text.
type Token struct {
	Rule     *Rule
	Data     MatcherData
	Consumed int
}

// Match finds the highest-priority rule whose whole pattern queue matches
// a prefix of chars. The remaining text past the consumed prefix is the
// next caller position; a second boolean of false means no rule applies
// here and the selector text is invalid at this position.
func (r *Registry) Match(chars []rune) (Token, bool) {
	for _, rule := range r.Rules() {
		res := pattern.Exec(rule.queue, chars)
		// a full-queue match that consumed nothing (an all-optional
		// template) would stall the tokenizer at this position, so it does
		// not count as a match
		if res.Matched != len(rule.queue) || res.Consumed == 0 {
			continue
		}
		r.log.Debug("Rule matched",
			zap.String("rule", rule.name),
			zap.String("text", string(chars[:res.Consumed])))
		return Token{
			Rule:     rule,
			Data:     rule.fieldData(res.Steps),
			Consumed: res.Consumed,
		}, true
	}
	return Token{}, false
}
