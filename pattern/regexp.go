package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"
)

// RegexCache keeps compiled expressions keyed by their exact anchored text.
// One cache is owned by each Registry and lives for the process lifetime;
// it is safe for concurrent use.
type RegexCache struct {
	mu       sync.Mutex
	compiled map[string]*regexp.Regexp
}

func NewRegexCache() *RegexCache {
	return &RegexCache{compiled: make(map[string]*regexp.Regexp)}
}

// Get returns the compiled form of expr anchored at the start, reusing a
// previously compiled expression when present.
func (c *RegexCache) Get(expr string) (*regexp.Regexp, error) {
	anchored := "^" + expr
	c.mu.Lock()
	defer c.mu.Unlock()
	if re, ok := c.compiled[anchored]; ok {
		return re, nil
	}
	re, err := compileAnchored(expr)
	if err != nil {
		return nil, err
	}
	c.compiled[anchored] = re
	return re, nil
}

func (c *RegexCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.compiled)
}

// RegExp matches whatever its expression, anchored at the start of the
// input, matches. Numbered capture groups become numeric-string-keyed
// fields of the result. With a cache attached the compiled expression is
// looked up in (or inserted into) the shared cache on every call; without
// one it is compiled fresh each call.
type RegExp struct {
	Context string
	cache   *RegexCache
}

// NewRegExp builds a RegExp over context. A nil cache disables caching.
func NewRegExp(context string, cache *RegexCache) RegExp {
	return RegExp{Context: context, cache: cache}
}

func compileAnchored(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^" + expr)
	if err != nil {
		return nil, fmt.Errorf("wrong regex context %q: %w", expr, err)
	}
	return re, nil
}

func (p RegExp) compile() (*regexp.Regexp, error) {
	if p.cache != nil {
		return p.cache.Get(p.Context)
	}
	return compileAnchored(p.Context)
}

func (p RegExp) Match(chars []rune) *Matched {
	re, err := p.compile()
	if err != nil {
		// factories validate the expression; a hand-built pattern with a
		// broken context just never matches
		return nil
	}
	s := string(chars)
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil
	}
	data := make(map[string]string, len(loc)/2-1)
	for i := 1; i*2 < len(loc); i++ {
		if loc[2*i] >= 0 {
			data[strconv.Itoa(i)] = s[loc[2*i]:loc[2*i+1]]
		}
	}
	return &Matched{Chars: []rune(s[:loc[1]]), Name: "regexp", Data: data}
}

// NestedSelector never matches directly: it marks a template region where
// the selector compiler must recursively apply the full selector grammar.
type NestedSelector struct{}

func (p NestedSelector) Match(_ []rune) *Matched {
	return nil
}
