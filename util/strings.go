package util

import (
	"strconv"
	"strings"

	"github.com/ryanuber/go-glob"
)

func GlobAnyMatch(val string, patterns []string) bool {
	for _, p := range patterns {
		if glob.Glob(p, val) {
			return true
		}
	}
	return false
}

// ParseLeadingInt reads an optionally signed integer from the start of s, ignoring leading
// whitespace and anything after the digits. "42 years" is 42; "abc" is not a number.
func ParseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return i, true
}
