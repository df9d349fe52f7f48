package view

import (
	"regexp"
	"strings"
)

// ForwardInfo describes a forwarded or quoted thread found in a message body.
// Empty header fields mean the quoted block did not carry that header.
type ForwardInfo struct {
	// Marker names the forwarding style that matched: gmail, apple, outlook or
	// generic.
	Marker        string
	UserMessage   string
	QuotedMessage string
	QuotedFrom    string
	QuotedSubject string
	QuotedDate    string
}

// forwardMarkers are tried in order; the first one that matches wins.
var forwardMarkers = []struct {
	client string
	regex  *regexp.Regexp
}{
	{"gmail", regexp.MustCompile(`(?im)^[ \t>]*-{5,}[ \t]*Forwarded message[ \t]*-{5,}[ \t]*$`)},
	{"apple", regexp.MustCompile(`(?im)^[ \t>]*Begin forwarded message:[ \t]*$`)},
	{"outlook", regexp.MustCompile(`(?im)^[ \t>]*-{5,}[ \t]*Original Message[ \t]*-{5,}[ \t]*$`)},
	{"generic", regexp.MustCompile(`(?im)^[ \t>]*[-—]{3,}[ \t]*Forwarded[ \t]*[-—]{3,}[ \t]*$`)},
}

var (
	quotedFromRegex    = regexp.MustCompile(`(?im)^[ \t*]*From:[ \t*]*(.+)$`)
	quotedSubjectRegex = regexp.MustCompile(`(?im)^[ \t*]*Subject:[ \t*]*(.+)$`)
	quotedDateRegex    = regexp.MustCompile(`(?im)^[ \t*]*(?:Date|Sent):[ \t*]*(.+)$`)
	quotedHeaderLine   = regexp.MustCompile(`(?i)^[ \t*]*(?:From|To|Cc|Bcc|Subject|Date|Sent|Reply-To):`)
)

// SplitForward looks for a forwarding marker and, when it finds one, splits s into
// the text the sender wrote and the quoted message below the marker. It returns nil
// when s is not a forward.
func SplitForward(s string) *ForwardInfo {
	for _, marker := range forwardMarkers {
		loc := marker.regex.FindStringIndex(s)
		if loc == nil {
			continue
		}

		quoted := strings.TrimSpace(s[loc[1]:])
		info := &ForwardInfo{
			Marker:        marker.client,
			UserMessage:   strings.TrimSpace(s[:loc[0]]),
			QuotedFrom:    firstHeaderValue(quotedFromRegex, quoted),
			QuotedSubject: firstHeaderValue(quotedSubjectRegex, quoted),
			QuotedDate:    firstHeaderValue(quotedDateRegex, quoted),
		}
		info.QuotedMessage = stripQuotedHeaders(quoted)
		return info
	}
	return nil
}

func firstHeaderValue(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(m[1], "* \t\r"))
}

// stripQuotedHeaders drops the header block at the top of a quoted message. The
// values are already exposed on ForwardInfo.
func stripQuotedHeaders(quoted string) string {
	lines := strings.Split(quoted, "\n")
	i := 0
	for i < len(lines) && quotedHeaderLine.MatchString(lines[i]) {
		i++
	}
	if i == 0 {
		return quoted
	}
	return strings.TrimSpace(strings.Join(lines[i:], "\n"))
}
