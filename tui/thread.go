package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/floatpane/ticketview/fetcher"
)

var (
	paginationStyle = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	threadHelpStyle = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
)

type item struct {
	title, desc string
	index       int
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + " " + i.desc }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	str := fmt.Sprintf("%d. %s", index+1, i.title)
	if i.desc != "" {
		str += " (" + i.desc + ")"
	}

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + s[0])
		}
	}

	fmt.Fprint(w, fn(str))
}

// Thread lists the messages of one ticket thread.
type Thread struct {
	list     list.Model
	title    string
	messages []fetcher.Message
	status   string
	isError  bool
	width    int
	height   int
}

func NewThread(title string, messages []fetcher.Message) *Thread {
	t := &Thread{title: title}
	t.SetMessages(messages)
	return t
}

// SetMessages replaces the listed messages.
func (m *Thread) SetMessages(messages []fetcher.Message) {
	m.messages = messages

	items := make([]list.Item, len(messages))
	for i, msg := range messages {
		title := msg.Subject
		if title == "" {
			title = "(no subject)"
		}
		desc := msg.From
		if !msg.Date.IsZero() {
			if desc != "" {
				desc += ", "
			}
			desc += msg.Date.Local().Format("02 Jan 2006 15:04")
		}
		items[i] = item{title: title, desc: desc, index: i}
	}

	l := list.New(items, itemDelegate{}, 20, 14)
	l.Title = m.title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = threadHelpStyle
	l.SetStatusBarItemName("message", "messages")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		}
	}

	l.KeyMap.Quit.SetEnabled(false)

	if m.width > 0 {
		l.SetSize(m.width, m.listHeight())
	}

	m.list = l
}

// Messages returns the listed messages in display order.
func (m *Thread) Messages() []fetcher.Message {
	return m.messages
}

// SetStatus shows a line under the list. An error status stays until replaced.
func (m *Thread) SetStatus(status string, isError bool) {
	m.status = status
	m.isError = isError
}

func (m *Thread) listHeight() int {
	h := m.height
	if m.status != "" {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Thread) Init() tea.Cmd {
	return nil
}

func (m *Thread) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "enter":
			selected, ok := m.list.SelectedItem().(item)
			if ok {
				idx := selected.index
				return m, func() tea.Msg { return OpenMessageMsg{Index: idx} }
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.listHeight())
		return m, nil
	case ClearStatusMsg:
		if !m.isError {
			m.status = ""
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Thread) View() string {
	if m.status == "" {
		return m.list.View()
	}
	style := statusStyle
	if m.isError {
		style = errorStyle
	}
	return m.list.View() + "\n" + style.Render(m.status)
}
