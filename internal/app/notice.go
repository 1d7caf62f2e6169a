package app

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// noticeMsg carries a dispatch failure that the user must acknowledge.
type noticeMsg struct {
	err error
}

// NoticeBoard is a tracker.Notifier that hands failures to the UI.
// Notify never blocks; when the queue is full the oldest pending notice
// is kept and the new one dropped.
type NoticeBoard struct {
	ch   chan error
	done chan struct{}
	once sync.Once
}

// NewNoticeBoard creates an empty board.
func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{
		ch:   make(chan error, 8),
		done: make(chan struct{}),
	}
}

// Notify queues err for display.
func (b *NoticeBoard) Notify(err error) {
	select {
	case b.ch <- err:
	default:
	}
}

// Close releases any goroutine waiting for the next notice.
func (b *NoticeBoard) Close() {
	b.once.Do(func() { close(b.done) })
}

// wait returns a tea.Cmd that delivers the next notice.
func (b *NoticeBoard) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case err := <-b.ch:
			return noticeMsg{err: err}
		case <-b.done:
			return nil
		}
	}
}
