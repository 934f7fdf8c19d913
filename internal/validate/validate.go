package validate

import (
	"slices"
	"strconv"
	"strings"
)

// ParseInt parses a base-10 32-bit integer (the width of the id and count columns).
func ParseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, &ParamError{Kind: InvalidInteger, Value: s}
	}
	return int(n), nil
}

// ParseFloat parses a base-10 float64. strconv also takes hex mantissas
// ("0x1p3") and digit separators ("1_000"); both are refused here.
func ParseFloat(s string) (float64, error) {
	if strings.ContainsRune(s, '_') || isHex(s) {
		return 0, &ParamError{Kind: InvalidFloat, Value: s}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParamError{Kind: InvalidFloat, Value: s}
	}
	return f, nil
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

// ParseIDs: "1,2,2" -> []int{1, 2, 2}. Every component must be an integer;
// empty components fail.
func ParseIDs(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := ParseInt(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// UniqueIDs collapses duplicates. The result is sorted ascending.
func UniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
