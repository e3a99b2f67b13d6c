package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Match reports whether rec satisfies filter.
//
// Every filter field must be present in rec. String filter values that contain
// glob metacharacters are matched with doublestar semantics against the
// record's string value; all other values compare by their JSON encoding, so
// 1, 1.0 and json.Number("1") are treated alike.
func Match(rec, filter Record) bool {
	for field, want := range filter {
		got, ok := rec[field]
		if !ok {
			return false
		}
		if pattern, isStr := want.(string); isStr && hasMeta(pattern) {
			s, isStr := got.(string)
			if !isStr {
				return false
			}
			matched, err := doublestar.Match(pattern, s)
			if err != nil || !matched {
				return false
			}
			continue
		}
		if !sameValue(got, want) {
			return false
		}
	}
	return true
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}

func sameValue(a, b any) bool {
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		return ok && as == bs
	}
	return canonical(a) == canonical(b)
}

func canonical(v any) string {
	switch n := v.(type) {
	case json.Number:
		return normalizeNumber(n.String())
	case float64, float32, int, int64, int32, uint, uint64:
		return normalizeNumber(fmt.Sprint(n))
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%#v", v)
	}
	return string(data)
}

func normalizeNumber(s string) string {
	if strings.ContainsAny(s, ".eE") {
		var f float64
		if _, err := fmt.Sscan(s, &f); err == nil {
			return fmt.Sprint(f)
		}
	}
	return s
}
