package baotang

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var reNumericEntity = regexp.MustCompile(`&#(\d+);`)

// DecodeEntities replaces decimal character references such as "&#68;" with the
// characters they name. Named entities are left as they are.
func DecodeEntities(s string) string {
	if s == "" {
		return ""
	}

	return reNumericEntity.ReplaceAllStringFunc(s, func(m string) string {
		n, err := strconv.Atoi(m[2 : len(m)-1])
		if err != nil || n > utf8.MaxRune || !utf8.ValidRune(rune(n)) {
			return m
		}

		return string(rune(n))
	})
}

type timeUnit struct {
	word  string
	apply func(t time.Time, n int) time.Time
}

// checked in order, first match wins
var timeUnits = []timeUnit{
	{"phút", func(t time.Time, n int) time.Time { return t.Add(-durationOf(n, time.Minute)) }},
	{"giờ", func(t time.Time, n int) time.Time { return t.Add(-durationOf(n, time.Hour)) }},
	{"ngày", func(t time.Time, n int) time.Time { return t.AddDate(0, 0, -clamp(n, maxCalendarUnits)) }},
	{"tháng", func(t time.Time, n int) time.Time { return t.AddDate(0, -clamp(n, maxCalendarUnits), 0) }},
	{"năm", func(t time.Time, n int) time.Time { return t.AddDate(-clamp(n, maxCalendarUnits), 0, 0) }},
}

// maxCalendarUnits keeps AddDate arithmetic away from int overflow.
const maxCalendarUnits = 1 << 24

// durationOf returns n units, saturating instead of overflowing.
func durationOf(n int, unit time.Duration) time.Duration {
	limit := int(math.MaxInt64 / int64(unit))
	return time.Duration(clamp(n, limit)) * unit
}

func clamp(n, limit int) int {
	return max(-limit, min(n, limit))
}

// RelativeTime turns phrases like "5 phút trước" or "2 năm" into an absolute
// time counted back from now. Unknown units return now unchanged.
func RelativeTime(now time.Time, phrase string) time.Time {
	n := leadingInt(phrase)

	for _, u := range timeUnits {
		if strings.Contains(phrase, u.word) {
			return u.apply(now, n)
		}
	}

	return now
}

// leadingInt reads an optionally signed integer at the start of s, after
// leading whitespace. It returns 0 when there is none.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\r\n")

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}

	return n
}

const uriUnescaped = "-_.!~*'();/?:@&=+$,#"

// EncodeURI percent-encodes s the way browsers encode a full URI: reserved
// characters stay, everything else outside ASCII letters and digits is escaped
// as UTF-8. Existing %XX escapes are kept so already encoded links pass through.
func EncodeURI(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case isAlnum(c) || strings.IndexByte(uriUnescaped, c) >= 0:
			b.WriteByte(c)
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}

	return b.String()
}

const upperhex = "0123456789ABCDEF"

func isAlnum(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
