// Package classify stamps a coarse category on prompts and articles.
package classify

import (
	"strings"
	"unicode"

	"github.com/DjordjeVuckovic/news-board/internal/domain"
)

type rule struct {
	category domain.Category
	keywords []string
}

// Checked in order; the first category with a matching keyword wins.
var rules = []rule{
	{
		category: domain.CategoryTech,
		keywords: []string{"tech", "apple", "google", "ai", "robot", "computer", "software", "hardware", "programming"},
	},
	{
		category: domain.CategorySports,
		keywords: []string{"sport", "game", "team", "player", "match", "tournament", "basketball", "football", "soccer", "nba", "nfl"},
	},
	{
		category: domain.CategoryEntertainment,
		keywords: []string{"movie", "film", "tv", "television", "actor", "actress", "director", "show", "series", "music", "celebrity", "entertainment"},
	},
}

// Text returns the category of free text, Other when nothing matches.
func Text(s string) domain.Category {
	tokens := tokenize(s)
	for _, r := range rules {
		for _, kw := range r.keywords {
			for _, t := range tokens {
				if matches(t, kw) {
					return r.category
				}
			}
		}
	}
	return domain.CategoryOther
}

// Article classifies an article by its title and description.
func Article(title, description string) domain.Category {
	return Text(title + " " + description)
}

// Stamp sets the category on every article that does not have one yet.
func Stamp(articles []domain.Article) []domain.Article {
	out := make([]domain.Article, len(articles))
	for i, a := range articles {
		if a.Category == "" {
			a.Category = Article(a.Title, a.Description)
		}
		out[i] = a
	}
	return out
}

// Short keywords like "ai" or "tv" must match a whole token.
func matches(token, keyword string) bool {
	if token == keyword {
		return true
	}
	return len(keyword) > 2 && strings.HasPrefix(token, keyword)
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
