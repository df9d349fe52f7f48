package view

import (
	"bytes"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEscaper = strings.NewReplacer(
		`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
		`(`, `\(`, `)`, `\)`, `<`, `\<`, `>`, `\>`, `#`, `\#`, `!`, `\!`,
		`|`, `\|`, `~`, `\~`, `&`, `\&`,
	)
	destinationEscaper = strings.NewReplacer("<", "%3C", ">", "%3E", " ", "%20", "\n", "")
	titleEscaper       = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	listMarkerRegex    = regexp.MustCompile(`^(\s*)([-+=]|\d+[.)])`)
)

// ToMarkdown reconstructs markdown from a block. Text is escaped so it reads back
// as the same text, links keep their untruncated URL as the title.
func ToMarkdown(block Block) string {
	lines := make([]string, 0, len(block))
	for _, line := range block {
		var b strings.Builder
		for i, n := range line {
			switch n.Kind {
			case NodeLink:
				fmt.Fprintf(&b, `[%s](<%s> "%s")`, markdownEscaper.Replace(n.Text),
					destinationEscaper.Replace(n.Href), titleEscaper.Replace(n.Title))
			case NodeImage:
				fmt.Fprintf(&b, `![%s](<%s>)`, markdownEscaper.Replace(n.Alt), destinationEscaper.Replace(n.Src))
			default:
				if n.Text == NBSP {
					continue
				}
				text := markdownEscaper.Replace(n.Text)
				if i == 0 {
					text = escapeListMarker(text)
				}
				b.WriteString(text)
			}
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// escapeListMarker keeps a line that starts like a list item or heading underline
// from being read as one.
func escapeListMarker(s string) string {
	loc := listMarkerRegex.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	marker := s[loc[4]:loc[5]]
	last := len(marker) - 1
	return s[:loc[4]] + marker[:last] + `\` + marker[last:] + s[loc[5]:]
}

var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// ToHTML renders a block as HTML. Raw HTML is never passed through.
func ToHTML(block Block) (string, error) {
	return MarkdownToHTML(ToMarkdown(block))
}

// MarkdownToHTML renders markdown produced by ToMarkdown, possibly combined
// with other markdown, as HTML.
func MarkdownToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("could not render html: %w", err)
	}
	return buf.String(), nil
}

// quotedDateFormats are tried after RFC 5322 parsing fails.
var quotedDateFormats = []string{
	"Mon, Jan 2, 2006 at 3:04 PM",
	"Jan 2, 2006 at 3:04 PM",
	"January 2, 2006 at 3:04 PM",
	"Monday, January 2, 2006 3:04 PM",
	"Monday, January 2, 2006 at 3:04 PM",
	"Jan 2, 2006 3:04 PM",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2 Jan 2006 15:04:05",
	"02:01:06 15:04",
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
}

// FormatQuotedDate converts the date of a quoted message to "02 Jan 2006 15:04".
// Dates it cannot parse are returned unchanged.
func FormatQuotedDate(s string) string {
	trimmed := strings.TrimSpace(s)
	if t, err := mail.ParseDate(trimmed); err == nil {
		return t.Format("02 Jan 2006 15:04")
	}
	for _, format := range quotedDateFormats {
		if t, err := time.Parse(format, trimmed); err == nil {
			return t.Format("02 Jan 2006 15:04")
		}
	}
	return s
}
