// Package card holds the ordered collection of cards for one workspace.
package card

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
)

// DuplicateFunc decides whether candidate repeats one of existing.
type DuplicateFunc func(candidate domain.Card, existing []domain.Card) bool

// Snapshot is the store content after one mutation. Version grows by one with
// every mutation, so listeners can drop a snapshot older than one already handled.
type Snapshot struct {
	Version uint64
	Cards   []domain.Card
}

// Listener receives a snapshot after every mutation. Listeners of concurrent
// mutations may run in any order; use Version to order them.
type Listener func(snapshot Snapshot)

// Store keeps cards in display order. New cards are appended; Pin moves a card to the front.
type Store struct {
	mu      sync.Mutex
	cards   []domain.Card
	version uint64

	lmu       sync.Mutex
	listeners map[int]Listener
	nextID    int
}

type StoreOption func(*Store)

// WithCards seeds the store, e.g. from persisted state. Invalid cards are skipped.
func WithCards(cards []domain.Card) StoreOption {
	return func(s *Store) {
		for _, c := range cards {
			if err := c.Validate(); err != nil {
				slog.Warn("Skipping persisted card", "id", c.ID, "error", err)
				continue
			}
			s.cards = append(s.cards, c.Clone())
		}
	}
}

func NewStore(opts ...StoreOption) *Store {
	s := &Store{listeners: make(map[int]Listener)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends card. A card without articles is rejected and the store is left unchanged.
func (s *Store) Add(card domain.Card) error {
	return s.AddUnique(card, nil)
}

// AddUnique validates, checks for duplicates and appends as one step, so two
// concurrent commits of the same result can never both pass the check.
func (s *Store) AddUnique(card domain.Card, isDuplicate DuplicateFunc) error {
	if err := card.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if isDuplicate != nil && isDuplicate(card, s.cards) {
		s.mu.Unlock()
		slog.Info("Duplicate card rejected", "id", card.ID, "title", card.Title)
		return fmt.Errorf("card %q: %w", card.Title, apperr.ErrDuplicate)
	}
	s.cards = append(s.cards, card.Clone())
	snapshot := s.commitLocked()
	s.mu.Unlock()

	slog.Debug("Card added", "id", card.ID, "articles", len(card.Articles))
	s.notify(snapshot)
	return nil
}

// Remove deletes the card with id; it reports false when there is none.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return false
	}
	s.cards = append(s.cards[:idx], s.cards[idx+1:]...)
	snapshot := s.commitLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

// Pin moves the card with id to the front. It reports false when the card is
// absent or already first.
func (s *Store) Pin(id string) bool {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx <= 0 {
		s.mu.Unlock()
		return false
	}
	c := s.cards[idx]
	copy(s.cards[1:idx+1], s.cards[:idx])
	s.cards[0] = c
	snapshot := s.commitLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return true
}

// Update shallow-merges patch into the card with id.
func (s *Store) Update(id string, patch domain.CardPatch) (domain.Card, bool) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Card{}, false
	}
	s.cards[idx] = patch.Apply(s.cards[idx])
	updated := s.cards[idx].Clone()
	snapshot := s.commitLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return updated, true
}

func (s *Store) Get(id string) (domain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return domain.Card{}, false
	}
	return s.cards[idx].Clone(), true
}

func (s *Store) List() []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cards)
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.lmu.Lock()
	defer s.lmu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) notify(snapshot Snapshot) {
	s.lmu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.lmu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (s *Store) indexLocked(id string) int {
	for i, c := range s.cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// commitLocked bumps the version and snapshots the cards. Callers hold s.mu.
func (s *Store) commitLocked() Snapshot {
	s.version++
	return Snapshot{Version: s.version, Cards: s.snapshotLocked()}
}

func (s *Store) snapshotLocked() []domain.Card {
	out := make([]domain.Card, len(s.cards))
	for i, c := range s.cards {
		out[i] = c.Clone()
	}
	return out
}
