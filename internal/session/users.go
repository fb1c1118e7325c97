package session

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed default_users.yaml
var defaultUsers []byte

type User struct {
	Username     string
	PasswordHash []byte
	Role         domain.Role
	Company      *string
	Whitelabel   *domain.Whitelabel
}

func (u User) Session() domain.Session {
	return domain.Session{
		Username:   u.Username,
		Role:       u.Role,
		Company:    u.Company,
		Whitelabel: u.Whitelabel,
	}
}

type userEntry struct {
	Username   string             `yaml:"username"`
	Password   string             `yaml:"password"`
	Role       domain.Role        `yaml:"role"`
	Company    *string            `yaml:"company"`
	Whitelabel *domain.Whitelabel `yaml:"whitelabel"`
}

type usersFile struct {
	Users []userEntry `yaml:"users"`
}

// LoadUsers reads users from path, or the embedded seed when path is empty.
// Plain-text passwords are hashed on load.
func LoadUsers(path string, cost int) (map[string]User, error) {
	data := defaultUsers
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read users file: %w", err)
		}
		data = b
	}
	return ParseUsers(data, cost)
}

func ParseUsers(data []byte, cost int) (map[string]User, error) {
	var f usersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse users: %w", err)
	}

	users := make(map[string]User, len(f.Users))
	for i, e := range f.Users {
		if e.Username == "" || e.Password == "" {
			return nil, apperr.NewValidation(fmt.Sprintf("user %d: username and password are required", i))
		}
		if _, ok := users[e.Username]; ok {
			return nil, apperr.NewValidation(fmt.Sprintf("user %q is defined twice", e.Username))
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(e.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %q: %w", e.Username, err)
		}

		users[e.Username] = User{
			Username:     e.Username,
			PasswordHash: hash,
			Role:         e.Role,
			Company:      e.Company,
			Whitelabel:   e.Whitelabel,
		}
	}
	return users, nil
}
