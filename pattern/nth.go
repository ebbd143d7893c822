package pattern

import (
	"fmt"
	"strconv"
)

// nthExpr recognizes An+B style formulas and bare signed integers:
// "2n", "+2n+1", "2n-1", "-2n+1", "n", "+0", "-1", "2" ...
// Groups: 1 coefficient sign, 2 coefficient, 3 offset sign, 4 offset,
// 5 bare sign, 6 bare value.
const nthExpr = `(?:([-+])?([0-9]|[1-9]\d+)?n(?:\s*([+-])\s*([0-9]|[1-9]\d+))?|([-+])?([0-9]|[1-9]\d+))`

// Nth matches an :nth-child style formula, a bare signed integer, or the
// keywords "even"/"odd". The result carries capture fields "n" (absent for
// the bare-integer form) and "index" as signed-integer text; even is 2n+0,
// odd is 2n+1.
type Nth struct {
	cache *RegexCache
}

// NewNth builds an Nth pattern whose inner expression is compiled through
// cache (nil compiles fresh on every call).
func NewNth(cache *RegexCache) Nth {
	return Nth{cache: cache}
}

var evenSeq = CharSeq("even")
var oddSeq = CharSeq("odd")

func (p Nth) Match(chars []rune) *Matched {
	data := make(map[string]string, 2)
	var consumed []rune
	if m := (RegExp{Context: nthExpr, cache: p.cache}).Match(chars); m != nil {
		_, bare := m.Data["6"]
		indexKeys, signKeys := "4", "3"
		if bare {
			indexKeys, signKeys = "6", "5"
		}
		if index, ok := signedNumber(m.Data, indexKeys, signKeys, ""); ok {
			data["index"] = index
		}
		if !bare {
			if n, ok := signedNumber(m.Data, "2", "1", "1"); ok {
				data["n"] = n
			}
		}
		consumed = m.Chars
	} else if m := evenSeq.Match(chars); m != nil {
		data["n"], data["index"] = "2", "0"
		consumed = m.Chars
	} else if m := oddSeq.Match(chars); m != nil {
		data["n"], data["index"] = "2", "1"
		consumed = m.Chars
	}
	if len(data) == 0 {
		return nil
	}
	return &Matched{Chars: consumed, Name: "nth", Data: data}
}

// signedNumber reads the numeric group at numKey (falling back to def when
// the group is absent but a default applies) and prefixes a minus when the
// sign group holds one.
func signedNumber(data map[string]string, numKey, signKey, def string) (string, bool) {
	num, ok := data[numKey]
	if !ok {
		if def == "" {
			return "", false
		}
		num = def
	}
	if data[signKey] == "-" {
		num = "-" + num
	}
	return num, true
}

// NthFormula is a linear congruence coefficient*k + offset over 1-based
// positions. HasCoef distinguishes the pure-index form from coefficient 0.
type NthFormula struct {
	Coef    int
	HasCoef bool
	Offset  int
}

// ParseNth builds a formula from the capture fields of an Nth match
// ("n" and "index").
func ParseNth(data map[string]string) (NthFormula, error) {
	var f NthFormula
	n, hasN := data["n"]
	index, hasIndex := data["index"]
	if !hasN && !hasIndex {
		return f, fmt.Errorf("nth formula needs at least one of 'n' and 'index'")
	}
	if hasN {
		v, err := strconv.Atoi(n)
		if err != nil {
			return f, fmt.Errorf("bad nth coefficient %q: %w", n, err)
		}
		f.Coef, f.HasCoef = v, true
	}
	if hasIndex {
		v, err := strconv.Atoi(index)
		if err != nil {
			return f, fmt.Errorf("bad nth offset %q: %w", index, err)
		}
		f.Offset = v
	}
	return f, nil
}

// Allowed resolves the formula against a collection of total elements,
// returning the zero-based indexes of the satisfying 1-based positions in
// strictly ascending order. Empty results are ordinary.
func (f NthFormula) Allowed(total int) []int {
	if !f.HasCoef || f.Coef == 0 {
		if f.Offset >= 1 && f.Offset <= total {
			return []int{f.Offset - 1}
		}
		return nil
	}
	n, offset := f.Coef, f.Offset
	var start, end int
	if n < 0 {
		if offset <= 0 {
			return nil
		}
		if offset <= -n {
			// only k=0 yields a position >= 1
			if offset <= total {
				return []int{offset - 1}
			}
			return nil
		}
		start = ceilDiv(offset-total, -n)
		end = floorDiv(offset-1, -n)
	} else {
		start = ceilDiv(1-offset, n)
		end = floorDiv(total-offset, n)
	}
	if start < 0 {
		start = 0
	}
	if start > end {
		return nil
	}
	allowed := make([]int, 0, end-start+1)
	if n < 0 {
		// positions decrease as k grows; walk k downwards to keep the
		// result ascending
		for k := end; k >= start; k-- {
			if pos := k*n + offset; pos >= 1 {
				allowed = append(allowed, pos-1)
			}
		}
	} else {
		for k := start; k <= end; k++ {
			if pos := k*n + offset; pos >= 1 {
				allowed = append(allowed, pos-1)
			}
		}
	}
	return allowed
}

// floorDiv and ceilDiv round toward -inf and +inf respectively, unlike Go's
// truncating division; the distinction matters for negative operands.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) == (b < 0) {
		q++
	}
	return q
}
