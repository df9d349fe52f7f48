package view

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessForwardedHTML(t *testing.T) {
	content := "<div>Hi team,</div><div>---------- Forwarded message ----------</div>" +
		"<div>From: a@b.com</div><div>Subject: X</div><div><br></div><div>Body text</div>"

	doc := Process(content)
	assert.Equal(t, content, doc.Raw.Content)
	assert.True(t, doc.Raw.WasTransformed)
	assert.Nil(t, doc.Separated)
	require.NotNil(t, doc.Forward)
	assert.Equal(t, "Hi team,", doc.Forward.UserMessage)
	assert.Equal(t, "a@b.com", doc.Forward.QuotedFrom)
	assert.Equal(t, Block{{textNode("Hi team,")}}, doc.Body)
	assert.Equal(t, Block{{textNode("Body text")}}, doc.Quoted)
	assert.Empty(t, doc.Signature)
}

func TestProcessSignature(t *testing.T) {
	doc := Process("Thanks for reaching out.\r\n\r\nJohn Smith\r\nAcme Inc\r\n555-123-4567")

	assert.False(t, doc.Raw.WasTransformed)
	assert.Nil(t, doc.Forward)
	require.NotNil(t, doc.Separated)
	require.NotNil(t, doc.Separated.Signature)
	assert.Equal(t, "Thanks for reaching out.", doc.Separated.MainBody)
	assert.Len(t, doc.Body, 1)
	assert.Len(t, doc.Signature, 3)
	assert.Empty(t, doc.Quoted)
}

func TestProcessWhitespaceOnly(t *testing.T) {
	doc := Process("  \n\t\n ")

	assert.Nil(t, doc.Forward)
	require.NotNil(t, doc.Separated)
	assert.Equal(t, "", doc.Separated.MainBody)
	assert.Nil(t, doc.Separated.Signature)
	assert.Empty(t, doc.Body)
}

func TestProcessKeepsRawBody(t *testing.T) {
	for _, content := range []string{
		"<p>Hello &amp; welcome</p>\r\n<p>Bye</p>",
		"From: someone\nSubject: hi\n\nbody",
		"plain\r\ntext",
	} {
		doc := Process(content)
		assert.Equal(t, content, doc.Raw.Content)
	}
}

type mapResolver map[string]string

func (m mapResolver) ResolveAttachment(id string) (string, bool) {
	url, ok := m[id]
	return url, ok
}

func TestProcessAttachmentResolver(t *testing.T) {
	resolver := mapResolver{"abc": "https://files.example.com/abc?sig=1"}

	doc := Process("![shot](attachment:abc)\n[file](attachment:zzz)", WithAttachmentResolver(resolver))
	require.Len(t, doc.Body, 2)

	img := doc.Body[0][0]
	assert.Equal(t, "https://files.example.com/abc?sig=1", img.Src)
	assert.Equal(t, "abc", img.AttachmentID)

	unresolved := doc.Body[1][0]
	assert.Equal(t, "attachment:zzz", unresolved.Href)
	assert.Equal(t, "zzz", unresolved.AttachmentID)
}

func TestRendererMemoizes(t *testing.T) {
	r := NewRenderer()
	first := r.Render("Hello https://example.com")
	second := r.Render("Hello https://example.com")

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, DefaultMaxURLLength, r.MaxURLLength())
}

func TestRendererEvictsOldest(t *testing.T) {
	r := NewRenderer(WithCacheSize(2))
	a := r.Render("a")
	r.Render("b")
	r.Render("c")

	assert.Equal(t, 2, r.Len())
	assert.NotSame(t, a, r.Render("a"))
}

func TestRendererWithoutCache(t *testing.T) {
	r := NewRenderer(WithCacheSize(0))
	assert.NotSame(t, r.Render("a"), r.Render("a"))
	assert.Equal(t, 0, r.Len())
}

func TestRendererURLLength(t *testing.T) {
	url := "https://example.com/a/very/long/path/that/needs/truncation/for/display"

	short := NewRenderer(WithMaxURLLength(30)).Render(url)
	long := NewRenderer(WithMaxURLLength(200)).Render(url)

	assert.LessOrEqual(t, len([]rune(short.Body[0][0].Text)), 30)
	assert.Equal(t, url, long.Body[0][0].Text)
}

func TestRendererConcurrent(t *testing.T) {
	r := NewRenderer(WithCacheSize(8))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := fmt.Sprintf("Message %d\n\n--\nAgent %d\nsupport.example.com", i%10, i%10)
			doc := r.Render(content)
			assert.Equal(t, content, doc.Raw.Content)
			assert.NotNil(t, doc.Separated.Signature)
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, r.Len(), 8)
}
