package view

import (
	"strings"
	"sync"
)

// RawBody is the stored message body exactly as it arrived.
type RawBody struct {
	Content        string
	WasTransformed bool
}

// Document is the processed form of one message body. Exactly one of Forward and
// Separated is set.
type Document struct {
	Raw       RawBody
	Text      string
	Forward   *ForwardInfo
	Separated *SeparatedContent

	Body      Block
	Quoted    Block
	Signature Block
}

// AttachmentResolver maps an attachment id to a URL a host can load.
type AttachmentResolver interface {
	ResolveAttachment(id string) (url string, ok bool)
}

// Option configures Process and NewRenderer.
type Option func(*options)

type options struct {
	maxURLLength int
	resolver     AttachmentResolver
	cacheSize    int
}

const defaultCacheSize = 256

func newOptions(opts []Option) options {
	o := options{maxURLLength: DefaultMaxURLLength, cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxURLLength <= 0 {
		o.maxURLLength = DefaultMaxURLLength
	}
	return o
}

// WithMaxURLLength sets the display limit for bare URLs.
func WithMaxURLLength(n int) Option {
	return func(o *options) { o.maxURLLength = n }
}

// WithAttachmentResolver substitutes resolved URLs for attachment:<id> tokens.
func WithAttachmentResolver(r AttachmentResolver) Option {
	return func(o *options) { o.resolver = r }
}

// WithCacheSize bounds the number of documents a Renderer keeps. Zero or less
// disables caching. Process ignores it.
func WithCacheSize(n int) Option {
	return func(o *options) { o.cacheSize = n }
}

// Process runs the full pipeline over content.
func Process(content string, opts ...Option) *Document {
	return process(content, newOptions(opts))
}

func process(content string, o options) *Document {
	doc := &Document{
		Raw: RawBody{Content: content, WasTransformed: WasTransformed(content)},
	}

	text := lineEndingFixups.Replace(content)
	if IsHTMLFlavored(text) {
		text = NormalizeHTML(text)
	}
	doc.Text = text

	if fwd := SplitForward(text); fwd != nil {
		doc.Forward = fwd
		doc.Body = RenderBlock(fwd.UserMessage, o.maxURLLength)
		doc.Quoted = RenderBlock(fwd.QuotedMessage, o.maxURLLength)
	} else {
		sep := SeparateSignature(text)
		if sep.Signature == nil {
			// Whitespace-only bodies normalize to an empty main body.
			sep.MainBody = strings.TrimSpace(sep.MainBody)
		}
		doc.Separated = &sep
		doc.Body = RenderBlock(sep.MainBody, o.maxURLLength)
		if sep.Signature != nil {
			doc.Signature = RenderBlock(*sep.Signature, o.maxURLLength)
		}
	}

	if o.resolver != nil {
		resolveAttachments(doc.Body, o.resolver)
		resolveAttachments(doc.Quoted, o.resolver)
		resolveAttachments(doc.Signature, o.resolver)
	}
	return doc
}

// resolveAttachments rewrites attachment tokens in place. Unresolved tokens keep
// the literal attachment: URL.
func resolveAttachments(b Block, r AttachmentResolver) {
	for _, line := range b {
		for i := range line {
			n := &line[i]
			if n.AttachmentID == "" {
				continue
			}
			url, ok := r.ResolveAttachment(n.AttachmentID)
			if !ok {
				continue
			}
			switch n.Kind {
			case NodeLink:
				n.Href, n.Title = url, url
			case NodeImage:
				n.Src = url
			}
		}
	}
}

type cacheKey struct {
	content      string
	maxURLLength int
}

// Renderer memoizes processed documents so hosts that re-render often do not run
// the pipeline again for the same body. It is safe for concurrent use. Returned
// documents are shared and must not be modified.
type Renderer struct {
	opts options

	mu    sync.Mutex
	docs  map[cacheKey]*Document
	order []cacheKey
}

// NewRenderer returns a Renderer configured by opts.
func NewRenderer(opts ...Option) *Renderer {
	o := newOptions(opts)
	return &Renderer{
		opts: o,
		docs: make(map[cacheKey]*Document),
	}
}

// MaxURLLength returns the configured display limit for bare URLs.
func (r *Renderer) MaxURLLength() int {
	return r.opts.maxURLLength
}

// Render returns the document for content, processing it on a cache miss.
func (r *Renderer) Render(content string) *Document {
	if r.opts.cacheSize <= 0 {
		return process(content, r.opts)
	}
	key := cacheKey{content: content, maxURLLength: r.opts.maxURLLength}

	r.mu.Lock()
	if doc, ok := r.docs[key]; ok {
		r.mu.Unlock()
		return doc
	}
	r.mu.Unlock()

	doc := process(content, r.opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.docs[key]; ok {
		return cached
	}
	for len(r.order) >= r.opts.cacheSize {
		delete(r.docs, r.order[0])
		r.order = r.order[1:]
	}
	r.docs[key] = doc
	r.order = append(r.order, key)
	return doc
}

// Len returns the number of cached documents.
func (r *Renderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}
