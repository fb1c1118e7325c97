// Package session authenticates users and tracks their login tokens.
package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/cache"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Manager struct {
	users    map[string]User
	sessions *cache.Cache[domain.Session]
	newToken func() string
}

type Option func(*Manager)

func WithTokenGenerator(f func() string) Option {
	return func(m *Manager) {
		m.newToken = f
	}
}

func NewManager(users map[string]User, sessions *cache.Cache[domain.Session], opts ...Option) *Manager {
	m := &Manager{
		users:    users,
		sessions: sessions,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewSessionCache returns the session table with the given idle timeout.
func NewSessionCache(maxAge time.Duration, opts ...cache.Option) *cache.Cache[domain.Session] {
	if maxAge <= 0 {
		maxAge = cache.SessionMaxAge
	}
	return cache.New[domain.Session]("sessions", maxAge, opts...)
}

func (m *Manager) Login(username, password string) (string, domain.Session, error) {
	if username == "" || password == "" {
		return "", domain.Session{}, apperr.NewValidation("username and password are required")
	}

	u, ok := m.users[username]
	if !ok {
		return "", domain.Session{}, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", domain.Session{}, fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
	}

	token := m.newToken()
	s := u.Session()
	m.sessions.Set(token, s)

	slog.Info("User logged in", "username", username, "role", u.Role)
	return token, s, nil
}

// Validate returns the session for token and restarts its idle timer.
func (m *Manager) Validate(token string) (domain.Session, bool) {
	if token == "" {
		return domain.Session{}, false
	}
	s, ok := m.sessions.Get(token)
	if !ok {
		return domain.Session{}, false
	}
	if !m.sessions.Touch(token) {
		return domain.Session{}, false
	}
	return s, true
}

func (m *Manager) Logout(token string) {
	m.sessions.Delete(token)
}
