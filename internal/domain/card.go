package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
)

// Card bundles one result set shown as a single unit on the dashboard.
type Card struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Category      Category  `json:"category,omitempty"`
	Articles      []Article `json:"articles"`
	Explanation   string    `json:"explanation,omitempty"`
	OriginalQuery string    `json:"originalQuery,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// UnmarshalJSON accepts the id as a string or a JSON number. Numbers keep their
// decimal text, so 1718000000000 and "1718000000000" name the same card.
func (c *Card) UnmarshalJSON(b []byte) error {
	type alias Card
	aux := struct {
		*alias
		ID json.RawMessage `json:"id"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	id, err := parseID(aux.ID)
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}

func parseID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("card id must be a string or a number: %w", err)
	}
	return n.String(), nil
}

func (c Card) Validate() error {
	if len(c.Articles) == 0 {
		return apperr.NewValidation("card has no articles")
	}
	return nil
}

// Clone copies the card so callers never share the articles slice with the store.
func (c Card) Clone() Card {
	c.Articles = append([]Article(nil), c.Articles...)
	return c
}

// CardPatch is a shallow update. Nil fields and an empty Articles slice are left untouched.
type CardPatch struct {
	Title       *string   `json:"title,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Explanation *string   `json:"explanation,omitempty"`
	Articles    []Article `json:"articles,omitempty"`
}

func (p CardPatch) Apply(c Card) Card {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Explanation != nil {
		c.Explanation = *p.Explanation
	}
	if len(p.Articles) > 0 {
		c.Articles = append([]Article(nil), p.Articles...)
	}
	return c
}
