package tui

import "github.com/mmcdole/wardrobe/internal/session"

// ChannelObserver adapts session.Observer to a channel for Bubble Tea.
// The channel should have capacity 1: only the newest state is kept.
type ChannelObserver struct {
	ch chan session.State
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan session.State) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnChange replaces any undelivered state with s. It never blocks.
func (o *ChannelObserver) OnChange(s session.State) {
	select {
	case o.ch <- s:
		return
	default:
	}
	// Full: drop the stale state
	select {
	case <-o.ch:
	default:
	}
	select {
	case o.ch <- s:
	default:
	}
}
