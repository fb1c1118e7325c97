// Package chat keeps the transcript between a user and the assistant.
package chat

import (
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/domain"
)

// Listener receives the transcript after every change. Version grows by one per
// change; calls for concurrent changes may arrive out of order.
type Listener func(version uint64, messages []domain.ChatMessage)

type History struct {
	mu       sync.Mutex
	messages []domain.ChatMessage
	version  uint64
	now      func() time.Time
	onChange Listener
}

type Option func(*History)

func WithMessages(msgs []domain.ChatMessage) Option {
	return func(h *History) {
		h.messages = append(h.messages, msgs...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *History) {
		h.now = now
	}
}

// OnChange sets the single listener called with a snapshot after every change.
func OnChange(l Listener) Option {
	return func(h *History) {
		h.onChange = l
	}
}

func NewHistory(opts ...Option) *History {
	h := &History{now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Append records one message with the current time and returns it.
func (h *History) Append(sender, text string) domain.ChatMessage {
	msg := domain.ChatMessage{Sender: sender, Text: text, Timestamp: h.now()}

	h.mu.Lock()
	h.messages = append(h.messages, msg)
	h.version++
	version, snapshot := h.version, h.snapshotLocked()
	l := h.onChange
	h.mu.Unlock()

	if l != nil {
		l(version, snapshot)
	}
	return msg
}

func (h *History) List() []domain.ChatMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.messages)
}

func (h *History) Clear() {
	h.mu.Lock()
	h.messages = nil
	h.version++
	version := h.version
	l := h.onChange
	h.mu.Unlock()

	if l != nil {
		l(version, []domain.ChatMessage{})
	}
}

func (h *History) snapshotLocked() []domain.ChatMessage {
	return append([]domain.ChatMessage{}, h.messages...)
}
