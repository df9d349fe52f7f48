package view

import "github.com/google/uuid"

// Section names a collapsible part of a rendered message.
type Section int

const (
	SectionQuoted Section = iota
	SectionSignature
	SectionSource
	sectionCount
)

func (s Section) String() string {
	switch s {
	case SectionQuoted:
		return "quoted"
	case SectionSignature:
		return "signature"
	case SectionSource:
		return "source"
	default:
		return "unknown"
	}
}

// Controller holds the toggle state for one rendered message. Every rendered
// message gets its own Controller; nothing is shared between instances.
type Controller struct {
	id         string
	doc        *Document
	showSource bool
	expanded   [sectionCount]bool
}

// NewController returns a controller for doc with every section collapsed.
// showSourceToggle controls whether the original source is offered at all.
func NewController(doc *Document, showSourceToggle bool) *Controller {
	return &Controller{
		id:         uuid.NewString(),
		doc:        doc,
		showSource: showSourceToggle,
	}
}

// ID uniquely identifies this controller.
func (c *Controller) ID() string { return c.id }

// Document returns the document the controller presents.
func (c *Controller) Document() *Document { return c.doc }

// Visible reports whether the toggle for section should be offered.
func (c *Controller) Visible(section Section) bool {
	switch section {
	case SectionQuoted:
		return c.doc.Forward != nil
	case SectionSignature:
		return c.doc.Separated != nil && c.doc.Separated.Signature != nil
	case SectionSource:
		return c.showSource && c.doc.Raw.WasTransformed
	default:
		return false
	}
}

// Expanded reports whether section is currently expanded.
func (c *Controller) Expanded(section Section) bool {
	if section < 0 || section >= sectionCount {
		return false
	}
	return c.expanded[section]
}

// Toggle flips section and reports whether it changed. Sections that are not
// visible never change.
func (c *Controller) Toggle(section Section) bool {
	if !c.Visible(section) {
		return false
	}
	c.expanded[section] = !c.expanded[section]
	return true
}

// Tree is what a host paints for one message. A nil section is not offered.
type Tree struct {
	Body      Block
	Quoted    *QuotedSection
	Signature *SignatureSection
	Source    *SourceSection
}

// QuotedSection is the collapsible forwarded message. Its headers and Block are
// only set while the section is expanded.
type QuotedSection struct {
	Expanded bool
	From     string
	Subject  string
	Date     string
	Block    Block
}

type SignatureSection struct {
	Expanded bool
	Block    Block
}

// SourceSection carries the original body verbatim.
type SourceSection struct {
	Expanded bool
	Content  string
}

// Tree composes the current render tree.
func (c *Controller) Tree() Tree {
	t := Tree{Body: c.doc.Body}

	if c.Visible(SectionQuoted) {
		q := &QuotedSection{Expanded: c.expanded[SectionQuoted]}
		if q.Expanded {
			q.From = c.doc.Forward.QuotedFrom
			q.Subject = c.doc.Forward.QuotedSubject
			q.Date = c.doc.Forward.QuotedDate
			q.Block = c.doc.Quoted
		}
		t.Quoted = q
	}

	if c.Visible(SectionSignature) {
		s := &SignatureSection{Expanded: c.expanded[SectionSignature]}
		if s.Expanded {
			s.Block = c.doc.Signature
		}
		t.Signature = s
	}

	if c.Visible(SectionSource) {
		s := &SourceSection{Expanded: c.expanded[SectionSource]}
		if s.Expanded {
			s.Content = c.doc.Raw.Content
		}
		t.Source = s
	}
	return t
}
