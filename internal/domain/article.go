package domain

import (
	"strings"
	"time"
)

const (
	DefaultArticleTitle  = "Untitled Article"
	DefaultArticleSource = "News"
)

type Article struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Source      string     `json:"source"`
	Author      string     `json:"author,omitempty"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Category    Category   `json:"category,omitempty"`
}

// Valid reports whether the article can be attached to a card.
func (a Article) Valid() bool {
	return strings.TrimSpace(a.Title) != "" && strings.TrimSpace(a.URL) != ""
}

// WithDefaults fills the fallbacks used for sparse source data.
func (a Article) WithDefaults(now time.Time) Article {
	if strings.TrimSpace(a.Title) == "" {
		a.Title = DefaultArticleTitle
	}
	if strings.TrimSpace(a.Source) == "" {
		a.Source = DefaultArticleSource
	}
	if a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
	}
	return a
}

type Category string

const (
	CategoryTech          Category = "Tech"
	CategorySports        Category = "Sports"
	CategoryEntertainment Category = "Entertainment"
	CategoryOther         Category = "Other"
	CategoryGeneral       Category = "General"
)
