// Package workspace holds the per-user board state and keeps it in storage.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/card"
	"github.com/DjordjeVuckovic/news-board/internal/chat"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/DjordjeVuckovic/news-board/internal/storage"
)

const (
	KeySavedCards  = "savedCards"
	KeyChatHistory = "chatHistory"

	persistTimeout = 5 * time.Second
)

// PrefKeys lists the preferences a client may read and write.
var PrefKeys = []string{"debug", "newsViewMode", "gridLayouts", "preferredLayout"}

type Workspace struct {
	username string
	cards    *card.Store
	chat     *chat.History
	kv       storage.KV

	savedCards  stateWriter
	chatHistory stateWriter
}

// stateWriter serializes the writes of one stored value and skips snapshots
// older than the last one written.
type stateWriter struct {
	mu      sync.Mutex
	written uint64
}

func (w *stateWriter) write(version uint64, put func()) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if version <= w.written {
		return
	}
	put()
	w.written = version
}

func (w *Workspace) Username() string    { return w.username }
func (w *Workspace) Cards() *card.Store  { return w.cards }
func (w *Workspace) Chat() *chat.History { return w.chat }

// Pref returns the stored JSON value of key, or nil when it was never set.
func (w *Workspace) Pref(ctx context.Context, key string) (json.RawMessage, error) {
	if err := validatePrefKey(key); err != nil {
		return nil, err
	}
	v, err := w.kv.Get(ctx, w.username, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (w *Workspace) SetPref(ctx context.Context, key string, value json.RawMessage) error {
	if err := validatePrefKey(key); err != nil {
		return err
	}
	if !json.Valid(value) {
		return apperr.NewValidation(fmt.Sprintf("preference %q must be valid JSON", key))
	}
	return w.kv.Put(ctx, w.username, key, value)
}

func validatePrefKey(key string) error {
	if !slices.Contains(PrefKeys, key) {
		return apperr.NewValidation(fmt.Sprintf("unknown preference %q", key))
	}
	return nil
}

// Registry creates one workspace per user on first use.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	kv         storage.KV
}

func NewRegistry(kv storage.KV) *Registry {
	return &Registry{
		workspaces: make(map[string]*Workspace),
		kv:         kv,
	}
}

// Get returns the user's workspace, loading saved cards and chat history the
// first time. Changes to either are written back on every mutation.
func (r *Registry) Get(ctx context.Context, username string) (*Workspace, error) {
	if username == "" {
		return nil, apperr.NewValidation("username is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if ws, ok := r.workspaces[username]; ok {
		return ws, nil
	}

	var cards []domain.Card
	if err := r.load(ctx, username, KeySavedCards, &cards); err != nil {
		return nil, err
	}
	var messages []domain.ChatMessage
	if err := r.load(ctx, username, KeyChatHistory, &messages); err != nil {
		return nil, err
	}

	ws := &Workspace{
		username: username,
		cards:    card.NewStore(card.WithCards(cards)),
		kv:       r.kv,
	}
	ws.chat = chat.NewHistory(
		chat.WithMessages(messages),
		chat.OnChange(func(version uint64, msgs []domain.ChatMessage) {
			ws.chatHistory.write(version, func() { r.persist(username, KeyChatHistory, msgs) })
		}),
	)
	ws.cards.Subscribe(func(snap card.Snapshot) {
		ws.savedCards.write(snap.Version, func() { r.persist(username, KeySavedCards, snap.Cards) })
	})

	r.workspaces[username] = ws
	slog.Info("Workspace loaded", "username", username, "cards", len(cards), "messages", len(messages))
	return ws, nil
}

// load decodes a stored value into dst. Missing or corrupt values leave dst empty.
func (r *Registry) load(ctx context.Context, username, key string, dst any) error {
	raw, err := r.kv.Get(ctx, username, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s for %s: %w", key, username, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		slog.Warn("Discarding unreadable stored value", "username", username, "key", key, "error", err)
	}
	return nil
}

func (r *Registry) persist(username, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Error("Failed to encode workspace state", "username", username, "key", key, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := r.kv.Put(ctx, username, key, raw); err != nil {
		slog.Error("Failed to persist workspace state", "username", username, "key", key, "error", err)
	}
}
