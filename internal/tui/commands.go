package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/wardrobe/internal/session"
)

const (
	statusTimeout  = 3 * time.Second
	refreshTimeout = 2 * time.Minute
)

// listenCmd waits for the next state published by the store observer
func listenCmd(ch <-chan session.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return StateChangedMsg{State: s}
	}
}

// waitRefreshCmd reports when r has finished
func waitRefreshCmd(r *session.Refresh) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		err := r.Wait(ctx)
		return RefreshDoneMsg{Generation: r.Generation(), Err: err}
	}
}

// clearStatusCmd clears the status line after a delay
func clearStatusCmd() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
