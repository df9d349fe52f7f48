package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/floatpane/ticketview/config"
	"github.com/floatpane/ticketview/fetcher"
	"github.com/floatpane/ticketview/view"
)

// sectionKeys maps each toggle key to the section it flips.
var sectionKeys = map[string]view.Section{
	"q": view.SectionQuoted,
	"s": view.SectionSignature,
	"o": view.SectionSource,
}

// MessageView shows one message. It owns the presentation controller for that
// message, so toggles never leak into other messages of the thread.
type MessageView struct {
	viewport   viewport.Model
	message    fetcher.Message
	index      int
	controller *view.Controller
	opts       view.TerminalOptions
	rendered   string
}

func NewMessageView(msg fetcher.Message, index int, doc *view.Document, cfg *config.Config, width, height int) *MessageView {
	m := &MessageView{
		message:    msg,
		index:      index,
		controller: view.NewController(doc, cfg.ShowSourceToggle),
		opts: view.TerminalOptions{
			DisableImages: cfg.DisableImages,
			LinkStyle:     LinkStyle,
			ImageStyle:    ImageStyle,
		},
	}
	m.viewport = viewport.New(width, m.viewportHeight(height))
	m.refresh()
	return m
}

func (m *MessageView) header() string {
	header := fmt.Sprintf("From: %s | Subject: %s", m.message.From, m.message.Subject)
	if !m.message.Date.IsZero() {
		header += " | " + m.message.Date.Local().Format("02 Jan 2006 15:04")
	}
	return header
}

func (m *MessageView) viewportHeight(height int) int {
	// header, its border and the help line
	h := height - lipgloss.Height(m.header()) - 2
	if h < 1 {
		h = 1
	}
	return h
}

// refresh re-renders the current tree into the viewport. The original source is
// set as is, without wrapping or tab expansion.
func (m *MessageView) refresh() {
	if m.controller.Expanded(view.SectionSource) {
		m.rendered = m.content() + "\n"
	} else {
		m.rendered = BodyStyle.Width(m.viewport.Width).Render(m.content()) + "\n"
	}
	m.viewport.SetContent(m.rendered)
}

// content renders the tree. An expanded source section replaces everything
// else with the original body.
func (m *MessageView) content() string {
	tree := m.controller.Tree()

	if tree.Source != nil && tree.Source.Expanded {
		return sectionHeader("Hide original source", "o", true) + "\n\n" + tree.Source.Content
	}

	var b strings.Builder
	b.WriteString(view.RenderTerminal(tree.Body, m.opts))

	if sig := tree.Signature; sig != nil {
		b.WriteString("\n\n")
		if sig.Expanded {
			b.WriteString(sectionHeader("Hide signature", "s", true))
			b.WriteString("\n")
			b.WriteString(signatureStyle.Render(view.RenderTerminal(sig.Block, m.opts)))
		} else {
			b.WriteString(sectionHeader("Show signature", "s", false))
		}
	}

	if q := tree.Quoted; q != nil {
		b.WriteString("\n\n")
		if q.Expanded {
			b.WriteString(sectionHeader("Hide forwarded message", "q", true))
			b.WriteString("\n")
			b.WriteString(quotedStyle.Render(quotedHeaders(q) + "\n\n" + view.RenderTerminal(q.Block, m.opts)))
		} else {
			b.WriteString(sectionHeader("Show forwarded message", "q", false))
		}
	}

	if tree.Source != nil {
		b.WriteString("\n\n")
		b.WriteString(sectionHeader("Show original source", "o", false))
	}

	return b.String()
}

func quotedHeaders(q *view.QuotedSection) string {
	var lines []string
	if q.From != "" {
		lines = append(lines, "From: "+q.From)
	}
	if q.Subject != "" {
		lines = append(lines, "Subject: "+q.Subject)
	}
	if q.Date != "" {
		lines = append(lines, "Date: "+view.FormatQuotedDate(q.Date))
	}
	return strings.Join(lines, "\n")
}

func sectionHeader(label, key string, expanded bool) string {
	marker := "▸"
	if expanded {
		marker = "▾"
	}
	return sectionHeaderStyle.Render(fmt.Sprintf("%s %s (%s)", marker, label, key))
}

func (m *MessageView) Init() tea.Cmd {
	return nil
}

func (m *MessageView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, func() tea.Msg { return BackToThreadMsg{} }
		}
		if section, ok := sectionKeys[msg.String()]; ok {
			if m.controller.Toggle(section) {
				m.refresh()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = m.viewportHeight(msg.Height)
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *MessageView) help() string {
	var parts []string
	if m.controller.Visible(view.SectionQuoted) {
		parts = append(parts, "q: forwarded")
	}
	if m.controller.Visible(view.SectionSignature) {
		parts = append(parts, "s: signature")
	}
	if m.controller.Visible(view.SectionSource) {
		parts = append(parts, "o: source")
	}
	parts = append(parts, "↑/↓: scroll", "esc: back to thread")
	return helpStyle.Render(strings.Join(parts, " • "))
}

func (m *MessageView) View() string {
	styledHeader := headerStyle.Width(m.viewport.Width).Render(m.header())
	return fmt.Sprintf("%s\n%s\n%s", styledHeader, m.viewport.View(), m.help())
}

// Index returns the position of the message in the thread.
func (m *MessageView) Index() int {
	return m.index
}

// Controller returns the presentation state of the message.
func (m *MessageView) Controller() *view.Controller {
	return m.controller
}
