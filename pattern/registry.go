package pattern

import (
	"fmt"
	"sync"
)

// Factory builds a configured Pattern from the (modifier, content) pair of
// a template placeholder. Factories validate their parameters and return a
// descriptive error on malformed configuration.
type Factory func(modifier, content string) (Pattern, error)

// Registry maps placeholder kind names to factories. It is populated once
// at startup and read-only afterwards, and owns the regex cache shared by
// every cache-enabled RegExp the registry produces.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	regex     *RegexCache
}

// NewRegistry returns a registry pre-loaded with the built-in pattern
// kinds: identity, spaces, attr_key, index, nth, regexp and selector.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory, 8),
		regex:     NewRegexCache(),
	}
	builtin := map[string]Factory{
		"identity": identityFactory,
		"spaces":   spacesFactory,
		"attr_key": noParams(func() Pattern { return AttrKey{} }),
		"index":    noParams(func() Pattern { return Index{} }),
		"nth":      noParams(func() Pattern { return NewNth(r.regex) }),
		"regexp":   r.regexpFactory,
		"selector": noParams(func() Pattern { return NestedSelector{} }),
	}
	for name, factory := range builtin {
		if err := r.Register(name, factory); err != nil {
			// a collision inside a fresh private map is a programming error
			panic(err)
		}
	}
	return r
}

// Regex exposes the registry's shared regex cache.
func (r *Registry) Regex() *RegexCache {
	return r.regex
}

// Register adds a pattern kind. Registering a name twice is a configuration
// error.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("pattern %q is already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is Register for init paths where a failure means a broken
// built-in definition and the process must not continue.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// ToPattern builds a configured pattern of the named kind. An unregistered
// name or malformed parameters indicate a broken rule template, not bad
// user input.
func (r *Registry) ToPattern(name, modifier, content string) (Pattern, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no supported pattern type %q found", name)
	}
	p, err := factory(modifier, content)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", name, err)
	}
	return p, nil
}

func identityFactory(modifier, content string) (Pattern, error) {
	if content != "" {
		return nil, fmt.Errorf("unrecognized content %q", content)
	}
	switch modifier {
	case "":
		return Identity{}, nil
	case "?":
		return Identity{Optional: true}, nil
	}
	return nil, fmt.Errorf("unrecognized modifier %q", modifier)
}

// spacesFactory accepts an optional parenthesized minimum run length,
// e.g. "(1)", parsed with the engine's own primitives.
func spacesFactory(modifier, content string) (Pattern, error) {
	if modifier != "" {
		return nil, fmt.Errorf("unrecognized modifier %q", modifier)
	}
	if content == "" {
		return Spaces{}, nil
	}
	queue := []Pattern{Char('('), Index{}, Char(')')}
	res := Exec(queue, []rune(content))
	if !res.Complete || res.Matched != len(queue) {
		return nil, fmt.Errorf("wrong spaces config %q", content)
	}
	min, err := runesToInt(res.Steps[1].Chars)
	if err != nil {
		return nil, err
	}
	return Spaces{Min: min}, nil
}

func (r *Registry) regexpFactory(modifier, content string) (Pattern, error) {
	cache := r.regex
	switch modifier {
	case "":
	case "!":
		cache = nil
	default:
		return nil, fmt.Errorf("unrecognized modifier %q, only '!' disables caching", modifier)
	}
	// reject a broken expression here instead of at match time; the
	// cache-enabled path warms the shared cache as a side effect
	if cache != nil {
		if _, err := cache.Get(content); err != nil {
			return nil, err
		}
	} else if _, err := compileAnchored(content); err != nil {
		return nil, err
	}
	return NewRegExp(content, cache), nil
}

func noParams(build func() Pattern) Factory {
	return func(modifier, content string) (Pattern, error) {
		if modifier != "" || content != "" {
			return nil, fmt.Errorf("unrecognized params %q", modifier+content)
		}
		return build(), nil
	}
}
