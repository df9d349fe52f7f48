package view

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

var (
	commentRegex     = regexp.MustCompile(`(?s)<!--.*?-->`)
	styleRegex       = regexp.MustCompile(`(?is)<style(?:\s[^>]*)?>.*?</style\s*>`)
	scriptRegex      = regexp.MustCompile(`(?is)<script(?:\s[^>]*)?>.*?</script\s*>`)
	blockCloseRegex  = regexp.MustCompile(`(?i)</(?:p|div|tr|h[1-6]|li|br|hr)\s*>`)
	brRegex          = regexp.MustCompile(`(?i)<br(?:\s[^>]*)?/?>`)
	hrRegex          = regexp.MustCompile(`(?i)<hr(?:\s[^>]*)?/?>`)
	anchorRegex      = regexp.MustCompile(`(?is)<a(\s[^>]*)?>(.*?)</a\s*>`)
	imgRegex         = regexp.MustCompile(`(?is)<img(?:\s[^>]*)?>`)
	tagRegex         = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9:-]*(?:\s[^<>]*)?/?>`)
	declRegex        = regexp.MustCompile(`<![^<>]*>`)
	entityRegex      = regexp.MustCompile(`&(#[0-9]{1,7}|#[xX][0-9a-fA-F]{1,6}|[a-zA-Z]+);`)
	horizontalSpace  = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	excessNewlines   = regexp.MustCompile(`\n{3,}`)
	lineEndingFixups = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

var namedEntities = map[string]string{
	"nbsp":  " ",
	"amp":   "&",
	"lt":    "<",
	"gt":    ">",
	"quot":  `"`,
	"copy":  "©",
	"reg":   "®",
	"trade": "™",
}

// NormalizeHTML converts HTML-flavored text into plain text. Block breaks become
// newlines, links become [text](href) and images become ![alt](src) so the inline
// renderer can pick them up again. Markup it does not recognize is left as text.
func NormalizeHTML(s string) string {
	text := lineEndingFixups.Replace(s)

	text = commentRegex.ReplaceAllString(text, "")
	text = styleRegex.ReplaceAllString(text, "")
	text = scriptRegex.ReplaceAllString(text, "")

	text = blockCloseRegex.ReplaceAllString(text, "\n")
	text = brRegex.ReplaceAllString(text, "\n")
	text = hrRegex.ReplaceAllString(text, "\n---\n")

	text = anchorRegex.ReplaceAllStringFunc(text, rewriteAnchor)
	text = imgRegex.ReplaceAllStringFunc(text, rewriteImage)

	text = tagRegex.ReplaceAllString(text, "")
	text = declRegex.ReplaceAllString(text, "")

	text = decodeEntities(text)

	return collapseWhitespace(text)
}

// rewriteAnchor turns a matched <a> element into a markdown link.
func rewriteAnchor(match string) string {
	parts := anchorRegex.FindStringSubmatch(match)
	if parts == nil {
		return match
	}
	openTag, inner := "<a"+parts[1]+">", parts[2]

	href, _ := tagAttr(openTag, "a", "href")
	href = strings.TrimSpace(href)

	label := strings.TrimSpace(horizontalSpace.ReplaceAllString(
		tagRegex.ReplaceAllString(strings.ReplaceAll(inner, "\n", " "), ""), " "))

	// An anchor wrapping only an image shows the image.
	if label == "" && imgRegex.MatchString(inner) {
		return imgRegex.ReplaceAllStringFunc(inner, rewriteImage)
	}
	if href == "" {
		return label
	}
	if label == "" {
		label = href
	}
	return "[" + label + "](" + href + ")"
}

// rewriteImage turns a matched <img> tag into a markdown image.
func rewriteImage(match string) string {
	src, ok := tagAttr(match, "img", "src")
	src = strings.TrimSpace(src)
	if !ok || src == "" {
		return ""
	}
	alt, _ := tagAttr(match, "img", "alt")
	alt = strings.TrimSpace(strings.NewReplacer("[", "", "]", "", "\n", " ").Replace(alt))
	return "![" + alt + "](" + src + ")"
}

// tagAttr reads a single attribute from a lone tag. goquery handles quoting and
// attribute order, so `<img alt="x" src='y'>` and `<img src=y alt=x>` read alike.
func tagAttr(tag, element, name string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tag))
	if err != nil {
		return "", false
	}
	return doc.Find(element).First().Attr(name)
}

// decodeEntities decodes the supported named entities and numeric references in
// one pass so "&amp;lt;" becomes "&lt;" rather than "<".
func decodeEntities(s string) string {
	return entityRegex.ReplaceAllStringFunc(s, func(entity string) string {
		name := entity[1 : len(entity)-1]
		if strings.HasPrefix(name, "#") {
			var (
				code int64
				err  error
			)
			if len(name) > 1 && (name[1] == 'x' || name[1] == 'X') {
				code, err = strconv.ParseInt(name[2:], 16, 32)
			} else {
				code, err = strconv.ParseInt(name[1:], 10, 32)
			}
			if err != nil || code == 0 || !utf8.ValidRune(rune(code)) {
				return entity
			}
			return string(rune(code))
		}
		if decoded, ok := namedEntities[strings.ToLower(name)]; ok {
			return decoded
		}
		return entity
	})
}

// collapseWhitespace squeezes horizontal whitespace, trims every line and keeps
// at most one blank line between paragraphs.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(horizontalSpace.ReplaceAllString(line, " "))
	}
	text := strings.Join(lines, "\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
