package view

import "regexp"

var (
	// htmlTagRegex matches an opening tag from the allow-list. A tag name must be
	// followed by whitespace, '>' or '/' so "<brand>" or "<address>" do not count.
	htmlTagRegex = regexp.MustCompile(`(?i)<(?:html|head|body|div|table|tr|td|p|span|a|img|br|hr)[\s>/]`)

	// mailHeaderRegex matches a line that starts with a mail header field name.
	mailHeaderRegex = regexp.MustCompile(`(?im)^(?:From|Subject|To|Date|Sent|Cc|Reply-To):`)
)

// IsHTMLFlavored reports whether body contains any allow-listed HTML opening tag.
// It is a presence test, not a parse: tag-like text inside plain text counts too.
func IsHTMLFlavored(body string) bool {
	return htmlTagRegex.MatchString(body)
}

// WasTransformed reports whether rendering body changes its text, either because
// it is HTML or because it carries mail header lines. Hosts use it to decide
// whether a "view original" control is worth offering.
func WasTransformed(body string) bool {
	return IsHTMLFlavored(body) || mailHeaderRegex.MatchString(body)
}
