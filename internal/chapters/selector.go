package chapters

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Selection is what the user asked to download. Range and List match chapter
// numbers, not positions, so "10-12" also picks 10.5 and 11.5.
type Selection struct {
	Chapter string
	Range   string
	List    string
}

func (s Selection) Empty() bool {
	return s.Chapter == "" && s.Range == "" && s.List == ""
}

// Select applies sel to all, which is expected in ascending order. An empty
// selection returns every chapter.
func Select(all []Chapter, sel Selection) ([]Chapter, error) {
	switch {
	case sel.Chapter != "":
		return selectOne(all, sel.Chapter)
	case sel.Range != "":
		return selectRange(all, sel.Range)
	case sel.List != "":
		return selectList(all, sel.List)
	default:
		return all, nil
	}
}

// selectOne matches a chapter number and falls back to a 1-based position.
func selectOne(all []Chapter, value string) ([]Chapter, error) {
	n, err := parseNumber(value)
	if err != nil {
		return nil, err
	}

	if out := byNumber(all, n, n); len(out) > 0 {
		return out, nil
	}

	if idx := int(n); float64(idx) == n && idx > 0 && idx <= len(all) {
		return []Chapter{all[idx-1]}, nil
	}

	return nil, fmt.Errorf("chapter %q not found", value)
}

// selectRange accepts "a-b", "a-" and "-b".
func selectRange(all []Chapter, rng string) ([]Chapter, error) {
	lo, hi, ok := strings.Cut(rng, "-")
	if !ok {
		return nil, fmt.Errorf("invalid range %q, expected from-to", rng)
	}

	from, to := math.Inf(-1), math.Inf(1)
	var err error
	if strings.TrimSpace(lo) != "" {
		if from, err = parseNumber(lo); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(hi) != "" {
		if to, err = parseNumber(hi); err != nil {
			return nil, err
		}
	}
	if from > to {
		return nil, fmt.Errorf("invalid range %q, start is after end", rng)
	}

	return byNumber(all, from, to), nil
}

func selectList(all []Chapter, list string) ([]Chapter, error) {
	var out []Chapter
	for item := range strings.SplitSeq(list, ",") {
		if strings.TrimSpace(item) == "" {
			continue
		}

		n, err := parseNumber(item)
		if err != nil {
			return nil, err
		}

		matched := byNumber(all, n, n)
		if len(matched) == 0 {
			return nil, fmt.Errorf("chapter %s not found", strings.TrimSpace(item))
		}
		out = append(out, matched...)
	}

	return out, nil
}

func byNumber(all []Chapter, from, to float64) []Chapter {
	var out []Chapter
	for _, ch := range all {
		if ch.ChapNum >= from && ch.ChapNum <= to {
			out = append(out, ch)
		}
	}
	return out
}

func parseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("invalid chapter number %q", strings.TrimSpace(s))
	}
	return n, nil
}
