package view

import (
	"regexp"
	"strings"
)

// NodeKind tags the variant held by a Node.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeLink
	NodeImage
)

func (k NodeKind) String() string {
	switch k {
	case NodeLink:
		return "link"
	case NodeImage:
		return "image"
	default:
		return "text"
	}
}

// Node is the smallest unit a host paints: a run of text, a link or an image.
//
// Text nodes use Text. Links use Href, Text (the display text) and Title (the
// full URL, for hover). Images use Src and Alt. Links and images pointing at an
// "attachment:<id>" token also carry the id in AttachmentID.
type Node struct {
	Kind         NodeKind
	Text         string
	Href         string
	Title        string
	Src          string
	Alt          string
	AttachmentID string
}

// Line is one rendered line of a block.
type Line []Node

// Block is a rendered run of lines.
type Block []Line

// Text returns the plain text of a line, using display text for links and alt
// text for images.
func (l Line) Text() string {
	var b strings.Builder
	for _, n := range l {
		switch n.Kind {
		case NodeImage:
			b.WriteString(n.Alt)
		default:
			b.WriteString(n.Text)
		}
	}
	return b.String()
}

// NBSP keeps blank lines from collapsing when a host paints them.
const NBSP = "\u00a0"

const attachmentScheme = "attachment:"

var (
	linkedImageRegex = regexp.MustCompile(`\[!\[([^\]]*)\]\(([^)\s]+)\)\]\(([^)\s]+)\)`)
	mdImageRegex     = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)\)`)
	mdLinkRegex      = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	bareURLRegex     = regexp.MustCompile(`https?://[^\s<>"]+`)
	imageExtRegex    = regexp.MustCompile(`(?i)\.(?:png|jpe?g|gif|webp|svg)(?:\?[^#\s]*)?$`)
)

// RenderBlock renders text line by line. Whitespace-only text renders as an empty
// block so hosts paint nothing for it.
func RenderBlock(text string, maxURLLength int) Block {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lines := strings.Split(lineEndingFixups.Replace(text), "\n")
	block := make(Block, 0, len(lines))
	for _, line := range lines {
		block = append(block, RenderLine(line, maxURLLength))
	}
	return block
}

// RenderLine converts markdown images, markdown links and bare URLs in one line
// into nodes. A blank line becomes a single NBSP text node. An image wrapped in a
// link renders as the image alone.
func RenderLine(line string, maxURLLength int) Line {
	if strings.TrimSpace(line) == "" {
		return Line{{Kind: NodeText, Text: NBSP}}
	}
	var out Line
	splitMatches(line, linkedImageRegex, func(m []string) {
		out = append(out, newImageNode(m[2], m[1]))
	}, func(text string) {
		out = appendImages(out, text, maxURLLength)
	})
	return out
}

func appendImages(out Line, text string, maxURLLength int) Line {
	splitMatches(text, mdImageRegex, func(m []string) {
		out = append(out, newImageNode(m[2], m[1]))
	}, func(rest string) {
		out = appendLinks(out, rest, maxURLLength)
	})
	return out
}

func appendLinks(out Line, text string, maxURLLength int) Line {
	splitMatches(text, mdLinkRegex, func(m []string) {
		out = append(out, newLinkNode(m[2], m[1]))
	}, func(rest string) {
		out = appendBareURLs(out, rest, maxURLLength)
	})
	return out
}

func appendBareURLs(out Line, text string, maxURLLength int) Line {
	pos := 0
	for _, loc := range bareURLRegex.FindAllStringIndex(text, -1) {
		url := trimURLTail(text[loc[0]:loc[1]])
		out = appendText(out, text[pos:loc[0]])
		if imageExtRegex.MatchString(url) {
			out = append(out, newImageNode(url, ""))
		} else {
			link := newLinkNode(url, TruncateURL(url, maxURLLength))
			out = append(out, link)
		}
		pos = loc[0] + len(url)
	}
	return appendText(out, text[pos:])
}

// splitMatches walks the matches of re in s in order, calling onMatch for every
// match and onText for the text between them. Match positions are local to the
// call, so concurrent renders never share scan state.
func splitMatches(s string, re *regexp.Regexp, onMatch func([]string), onText func(string)) {
	pos := 0
	for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > pos {
			onText(s[pos:loc[0]])
		}
		groups := make([]string, len(loc)/2)
		for g := range groups {
			if loc[2*g] >= 0 {
				groups[g] = s[loc[2*g]:loc[2*g+1]]
			}
		}
		onMatch(groups)
		pos = loc[1]
	}
	if pos < len(s) {
		onText(s[pos:])
	}
}

// appendText adds text to the line, merging with a trailing text node.
func appendText(out Line, text string) Line {
	if text == "" {
		return out
	}
	if n := len(out); n > 0 && out[n-1].Kind == NodeText {
		out[n-1].Text += text
		return out
	}
	return append(out, Node{Kind: NodeText, Text: text})
}

// trimURLTail drops sentence punctuation and unbalanced closing brackets that
// follow a URL in running text.
func trimURLTail(url string) string {
	for len(url) > 0 {
		last := url[len(url)-1]
		switch {
		case strings.IndexByte(".,;:!?'", last) >= 0:
			url = url[:len(url)-1]
		case last == ')' && strings.Count(url, "(") < strings.Count(url, ")"):
			url = url[:len(url)-1]
		case last == ']' && strings.Count(url, "[") < strings.Count(url, "]"):
			url = url[:len(url)-1]
		default:
			return url
		}
	}
	return url
}

func newLinkNode(href, display string) Node {
	return Node{
		Kind:         NodeLink,
		Href:         href,
		Text:         display,
		Title:        href,
		AttachmentID: attachmentID(href),
	}
}

func newImageNode(src, alt string) Node {
	return Node{
		Kind:         NodeImage,
		Src:          src,
		Alt:          alt,
		AttachmentID: attachmentID(src),
	}
}

func attachmentID(url string) string {
	if len(url) > len(attachmentScheme) && strings.EqualFold(url[:len(attachmentScheme)], attachmentScheme) {
		return url[len(attachmentScheme):]
	}
	return ""
}
