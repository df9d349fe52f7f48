package view

import (
	"net/url"
	"strings"
	"unicode/utf8"
)

// DefaultMaxURLLength is used when a non-positive limit is passed to TruncateURL.
const DefaultMaxURLLength = 50

const ellipsis = "…"

// TruncateURL shortens raw for display so that it is at most max runes long. The
// scheme is dropped first, then the middle of the path is elided so the host and
// both ends of the path stay readable.
func TruncateURL(raw string, max int) string {
	if max <= 0 {
		max = DefaultMaxURLLength
	}
	if utf8.RuneCountInString(raw) <= max {
		return raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return clip(raw, max)
	}
	host := u.Host
	hostLen := utf8.RuneCountInString(host)
	if hostLen >= max-10 {
		return clip(raw, max)
	}

	rest := ""
	if i := strings.Index(raw, host); i >= 0 {
		rest = raw[i+len(host):]
	}
	restRunes := []rune(rest)
	if hostLen+len(restRunes) <= max {
		return host + rest
	}

	budget := max - hostLen - 1
	head := (budget + 1) / 2
	tail := budget / 2
	return host + string(restRunes[:head]) + ellipsis + string(restRunes[len(restRunes)-tail:])
}

// clip keeps the first max-1 runes of s and appends an ellipsis.
func clip(s string, max int) string {
	runes := []rune(s)
	if max <= 1 {
		return ellipsis
	}
	return string(runes[:max-1]) + ellipsis
}
