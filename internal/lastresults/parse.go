package lastresults

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned for malformed result references.
var ErrInvalidNumber = errors.New("invalid result number")

const maxRangeSize = 1000

// ParseNumbers parses result numbers such as "2", "1,3" or "1,3-5".
// Spaces separate numbers like commas. Duplicates are dropped and the
// first-seen order is kept.
func ParseNumbers(input string) ([]int, error) {
	input = strings.ReplaceAll(input, " ", ",")

	var result []int
	seen := make(map[int]bool)
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			result = append(result, n)
		}
	}

	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lo, hi, isRange := strings.Cut(part, "-"); isRange {
			start, end, err := parseRange(lo, hi)
			if err != nil {
				return nil, err
			}
			for n := start; n <= end; n++ {
				add(n)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidNumber, part)
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: %d must be positive", ErrInvalidNumber, n)
		}
		add(n)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no numbers found", ErrInvalidNumber)
	}
	return result, nil
}

func parseRange(lo, hi string) (int, int, error) {
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid range start %q", ErrInvalidNumber, lo)
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid range end %q", ErrInvalidNumber, hi)
	}
	switch {
	case start < 1:
		return 0, 0, fmt.Errorf("%w: range start %d must be positive", ErrInvalidNumber, start)
	case end < start:
		return 0, 0, fmt.Errorf("%w: range end %d is before start %d", ErrInvalidNumber, end, start)
	case end-start+1 > maxRangeSize:
		return 0, 0, fmt.Errorf("%w: range %d-%d is too large (max %d)", ErrInvalidNumber, start, end, maxRangeSize)
	}
	return start, end, nil
}

// IsNumber reports whether s is a plain positive result number such as "3".
func IsNumber(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n > 0 && strconv.Itoa(n) == s
}
