package platforms

import (
	"math"
	"strings"
)

// Dataset items are untyped JSON. These accessors never panic on a shape
// they do not expect.

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asArray(v any) ([]any, bool) {
	a, ok := v.([]any)
	return a, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// lookup walks nested objects along path.
func lookup(item map[string]any, path ...string) (any, bool) {
	var cur any = item
	for _, key := range path {
		obj, ok := asObject(cur)
		if !ok {
			return nil, false
		}
		cur, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func stringAt(item map[string]any, path ...string) string {
	v, _ := lookup(item, path...)
	s, _ := asString(v)
	return s
}

func objectAt(item map[string]any, path ...string) (map[string]any, bool) {
	v, ok := lookup(item, path...)
	if !ok {
		return nil, false
	}
	return asObject(v)
}

// countAt reads a counter. Anything that is not a finite non-negative
// number reads as 0.
func countAt(item map[string]any, path ...string) int {
	v, _ := lookup(item, path...)
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// joinFragments drops non-string and blank fragments and joins the rest
// with single spaces, in order.
func joinFragments(fragments ...any) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		s, ok := asString(f)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
