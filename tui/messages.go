package tui

import "github.com/floatpane/ticketview/fetcher"

// OpenMessageMsg asks the app to open the message at Index in the thread.
type OpenMessageMsg struct {
	Index int
}

type BackToThreadMsg struct{}

// MessagesLoadedMsg carries the result of a fetch started by the app.
type MessagesLoadedMsg struct {
	Messages []fetcher.Message
	Err      error
}

type ClearStatusMsg struct{}
