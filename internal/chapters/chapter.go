package chapters

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/brogergvhs/baotang/internal/providers"
)

type Chapter struct {
	providers.Chapter
}

func Wrap(all []providers.Chapter) []Chapter {
	out := make([]Chapter, len(all))
	for i, c := range all {
		out[i] = Chapter{Chapter: c}
	}

	return out
}

// SortAscending orders chapters by number, keeping the API order for ties.
func SortAscending(all []Chapter) {
	sort.SliceStable(all, func(i, j int) bool { return all[i].ChapNum < all[j].ChapNum })
}

// Label is the chapter number without trailing zeros, e.g. "10" or "10.5".
func (c Chapter) Label() string {
	return strconv.FormatFloat(c.ChapNum, 'f', -1, 64)
}

var reUnderscore = regexp.MustCompile(`_+`)

func sanitize(s string) string {
	s = strings.ToLower(s)

	repl := []string{
		"•", "_",
		"-", "_",
		"—", "_",
		"–", "_",
		"/", "_",
		"\\", "_",
		".", "_",
		" ", "_",
		":", "_",
		"(", "",
		")", "",
	}
	for i := 0; i < len(repl); i += 2 {
		s = strings.ReplaceAll(s, repl[i], repl[i+1])
	}

	clean := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			clean = append(clean, r)
		}
	}
	s = reUnderscore.ReplaceAllString(string(clean), "_")

	return strings.Trim(s, "_")
}

func (c Chapter) baseName() string {
	num := sanitize(c.Label())

	name := sanitize(c.Name)
	for _, p := range []string{"chương_", "chuong_", "chapter_"} {
		name = strings.TrimPrefix(name, p)
	}
	name = strings.Trim(strings.TrimPrefix(name, num), "_")

	if name != "" {
		return "chuong_" + num + "_" + name
	}

	return "chuong_" + num
}

func (c Chapter) FolderName() string {
	return c.baseName() + "_tmp"
}

func (c Chapter) OutputCBZ() string {
	return c.baseName() + ".cbz"
}

func (c Chapter) OutputCBZPath(out string) string {
	return filepath.Join(out, c.OutputCBZ())
}
