package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/floatpane/ticketview/config"
	"github.com/floatpane/ticketview/fetcher"
	"github.com/floatpane/ticketview/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(load tea.Cmd) *App {
	cfg := &config.Config{MaxURLLength: 50, ShowSourceToggle: true, CacheSize: 16}
	renderer := view.NewRenderer(view.WithMaxURLLength(cfg.MaxURLLength), view.WithCacheSize(cfg.CacheSize))
	return NewApp(cfg, renderer, "Ticket #42", sampleMessages(), load)
}

func TestAppNavigation(t *testing.T) {
	app := newTestApp(nil)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	app.Update(OpenMessageMsg{Index: 1})
	require.NotNil(t, app.current)
	assert.Equal(t, 1, app.current.Index())
	assert.Contains(t, app.View(), "Re: Printer on fire")

	// Toggle keys reach the open message.
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.True(t, app.current.Controller().Expanded(view.SectionQuoted))

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	for _, msg := range collectMsgs(cmd) {
		app.Update(msg)
	}
	assert.Nil(t, app.current)
	assert.Contains(t, app.View(), "Ticket #42")
}

func TestAppOpenOutOfRange(t *testing.T) {
	app := newTestApp(nil)

	for _, idx := range []int{-1, 3, 100} {
		app.Update(OpenMessageMsg{Index: idx})
		assert.Nil(t, app.current, "index %d", idx)
	}
}

func TestAppReopenUsesRenderedDocument(t *testing.T) {
	app := newTestApp(nil)

	app.Update(OpenMessageMsg{Index: 0})
	first := app.current.Controller()
	app.Update(BackToThreadMsg{})
	app.Update(OpenMessageMsg{Index: 0})
	second := app.current.Controller()

	assert.Same(t, first.Document(), second.Document())
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Equal(t, 1, app.renderer.Len())
}

func TestAppMessagesLoaded(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		loaded := []fetcher.Message{{UID: 9, Subject: "Fresh"}}
		app := newTestApp(func() tea.Msg { return MessagesLoadedMsg{Messages: loaded} })
		assert.Contains(t, app.thread.View(), "Fetching messages...")

		msgs := collectMsgs(app.Init())
		require.Len(t, msgs, 1)

		_, cmd := app.Update(msgs[0])
		assert.NotNil(t, cmd)
		assert.Equal(t, loaded, app.thread.Messages())
		assert.Contains(t, app.thread.View(), "Fetched 1 messages")
	})

	t.Run("Error", func(t *testing.T) {
		app := newTestApp(nil)
		app.Update(MessagesLoadedMsg{Err: errors.New("connection refused")})

		assert.Len(t, app.thread.Messages(), 3)
		assert.Contains(t, app.thread.View(), "Error: connection refused")
	})
}

func TestAppQuit(t *testing.T) {
	app := newTestApp(nil)
	app.Update(OpenMessageMsg{Index: 0})

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	msgs := collectMsgs(cmd)
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
}
