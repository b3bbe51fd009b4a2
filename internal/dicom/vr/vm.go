package vr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unbounded is the multiplicity used for open-ended VM ranges ("1-n",
// "2-2n", ...). It is the largest 32-bit integer, matching the catalog
// convention for variable multiplicity.
const Unbounded = math.MaxInt32

// ParseVM converts a dictionary VM string into the number of values a column
// must hold:
//
//	"1"        -> 1
//	"1-3"      -> 3
//	"1-n"      -> Unbounded
//	"2-2n"     -> Unbounded
//	"1-n or 1" -> Unbounded
//
// Bounded ranges resolve to their upper bound. Alternatives joined by "or"
// resolve to the widest alternative.
func ParseVM(s string) (int, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("vm: empty value multiplicity")
	}

	best := 0
	for _, alt := range strings.Split(strings.ToLower(raw), " or ") {
		n, err := parseRange(strings.TrimSpace(alt))
		if err != nil {
			return 0, fmt.Errorf("vm: %q: %w", s, err)
		}
		if n > best {
			best = n
		}
	}
	return best, nil
}

func parseRange(s string) (int, error) {
	lo, hi, isRange := strings.Cut(s, "-")
	if !isRange {
		return parseCount(s)
	}
	if _, err := parseCount(lo); err != nil {
		return 0, err
	}
	if strings.HasSuffix(hi, "n") {
		if step := strings.TrimSuffix(hi, "n"); step != "" {
			if _, err := parseCount(step); err != nil {
				return 0, err
			}
		}
		return Unbounded, nil
	}
	return parseCount(hi)
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("count %d must be positive", n)
	}
	if n > Unbounded {
		return Unbounded, nil
	}
	return n, nil
}
