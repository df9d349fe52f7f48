package tui

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/floatpane/ticketview/config"
	"github.com/floatpane/ticketview/fetcher"
	"github.com/floatpane/ticketview/view"
)

// App switches between the thread list and the message being read.
type App struct {
	cfg      *config.Config
	renderer *view.Renderer
	thread   *Thread
	current  *MessageView
	load     tea.Cmd
	width    int
	height   int
}

// NewApp returns an app showing messages. When load is not nil it runs on
// start and its MessagesLoadedMsg replaces the thread.
func NewApp(cfg *config.Config, renderer *view.Renderer, title string, messages []fetcher.Message, load tea.Cmd) *App {
	a := &App{
		cfg:      cfg,
		renderer: renderer,
		thread:   NewThread(title, messages),
		load:     load,
	}
	if load != nil {
		a.thread.SetStatus("Fetching messages...", false)
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return a.load
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		h, v := docStyle.GetFrameSize()
		a.thread.Update(tea.WindowSizeMsg{Width: msg.Width - h, Height: msg.Height - v})
		if a.current != nil {
			a.current.Update(msg)
		}
		return a, nil

	case OpenMessageMsg:
		messages := a.thread.Messages()
		if msg.Index < 0 || msg.Index >= len(messages) {
			return a, nil
		}
		selected := messages[msg.Index]
		doc := a.renderer.Render(selected.Body)
		a.current = NewMessageView(selected, msg.Index, doc, a.cfg, a.width, a.height)
		return a, nil

	case BackToThreadMsg:
		a.current = nil
		return a, nil

	case MessagesLoadedMsg:
		if msg.Err != nil {
			log.Printf("could not fetch messages: %v", msg.Err)
			a.thread.SetStatus(fmt.Sprintf("Error: %v", msg.Err), true)
			return a, nil
		}
		a.thread.SetMessages(msg.Messages)
		a.thread.SetStatus(fmt.Sprintf("Fetched %d messages", len(msg.Messages)), false)
		return a, tea.Tick(3*time.Second, func(time.Time) tea.Msg { return ClearStatusMsg{} })

	case ClearStatusMsg:
		_, cmd := a.thread.Update(msg)
		return a, cmd
	}

	if a.current != nil {
		_, cmd := a.current.Update(msg)
		return a, cmd
	}
	_, cmd := a.thread.Update(msg)
	return a, cmd
}

func (a *App) View() string {
	if a.current != nil {
		return a.current.View()
	}
	return docStyle.Render(a.thread.View())
}

// FetchCmd fetches a mailbox in the background and caches the result.
func FetchCmd(account *config.Account, mailbox string, limit uint32) tea.Cmd {
	return func() tea.Msg {
		msgs, err := fetcher.FetchMessages(account, mailbox, limit)
		if err != nil {
			return MessagesLoadedMsg{Err: err}
		}
		cache := &config.MessageCache{
			AccountID: account.ID,
			Mailbox:   mailbox,
			Messages:  fetcher.ToCache(msgs),
		}
		if err := config.SaveMessageCache(cache); err != nil {
			log.Printf("could not save message cache: %v", err)
		}
		return MessagesLoadedMsg{Messages: msgs}
	}
}
