package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHTML(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Entities",
			input:    "A &amp; B &lt;tag&gt;",
			expected: "A & B <tag>",
		},
		{
			name:     "No double decoding",
			input:    "&amp;lt;",
			expected: "&lt;",
		},
		{
			name:     "Numeric references",
			input:    "&#65;&#x42;&#39;&#0;",
			expected: "AB'&#0;",
		},
		{
			name:     "Named entities",
			input:    "&copy; 2024 Acme&trade; &quot;hi&quot;",
			expected: `© 2024 Acme™ "hi"`,
		},
		{
			name:     "Paragraphs",
			input:    "<p>Hello</p><p>World</p>",
			expected: "Hello\nWorld",
		},
		{
			name:     "Breaks and rules",
			input:    "Line one<br>Line two<hr>End",
			expected: "Line one\nLine two\n---\nEnd",
		},
		{
			name:     "Style and script removed",
			input:    "<style>p{color:red}</style><script>alert(1)</script><div>Hi</div>",
			expected: "Hi",
		},
		{
			name:     "Comments removed",
			input:    "<div>a<!-- hidden --></div>",
			expected: "a",
		},
		{
			name:     "Anchor",
			input:    `<a href="https://x.com/a">Click <b>here</b></a>`,
			expected: "[Click here](https://x.com/a)",
		},
		{
			name:     "Anchor without href",
			input:    `<a name="top">Top</a>`,
			expected: "Top",
		},
		{
			name:     "Anchor without text",
			input:    `<a href="https://x.com/a"></a>`,
			expected: "[https://x.com/a](https://x.com/a)",
		},
		{
			name:     "Image alt first",
			input:    `<img alt="Logo" src="https://x.com/l.png">`,
			expected: "![Logo](https://x.com/l.png)",
		},
		{
			name:     "Image src first unquoted",
			input:    `<img src=https://x.com/l.png alt=Logo />`,
			expected: "![Logo](https://x.com/l.png)",
		},
		{
			name:     "Image without alt",
			input:    `<img src='https://x.com/l.png'>`,
			expected: "![](https://x.com/l.png)",
		},
		{
			name:     "Image without src",
			input:    `before<img alt="x">after`,
			expected: "beforeafter",
		},
		{
			name:     "Linked image",
			input:    `<a href="https://x.com"><img src="https://x.com/i.png" alt="i"></a>`,
			expected: "![i](https://x.com/i.png)",
		},
		{
			name:     "Whitespace collapse",
			input:    "<div>  a   \t b  </div>\n\n\n\n<div>c</div>",
			expected: "a b\n\nc",
		},
		{
			name:     "Carriage returns",
			input:    "<p>a</p>\r\n<p>b</p>",
			expected: "a\n\nb",
		},
		{
			name:     "Unmatched markup passes through",
			input:    "5 < 6 and <b",
			expected: "5 < 6 and <b",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeHTML(tc.input))
		})
	}
}
