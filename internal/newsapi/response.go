package newsapi

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/domain"
)

// searchResponse accepts the native {status, totalResults, articles} shape as
// well as the paginated {data, last_page, total_count} one.
type searchResponse struct {
	Status       string       `json:"status"`
	TotalResults *int         `json:"totalResults"`
	Articles     []rawArticle `json:"articles"`

	Data       []rawArticle `json:"data"`
	LastPage   int          `json:"last_page"`
	TotalCount *int         `json:"total_count"`
}

type rawArticle struct {
	Source      rawSource `json:"source"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	URLToImage  string    `json:"urlToImage"`
	PublishedAt string    `json:"publishedAt"`
}

// rawSource is either {"id": ..., "name": ...} or a bare string.
type rawSource struct {
	Name string
}

func (s *rawSource) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		s.Name = name
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	s.Name = obj.Name
	return nil
}

func (r searchResponse) toResult() *Result {
	raw := r.Articles
	if len(raw) == 0 {
		raw = r.Data
	}

	articles := make([]domain.Article, 0, len(raw))
	for _, a := range raw {
		articles = append(articles, a.toArticle())
	}

	total := len(articles)
	switch {
	case r.TotalResults != nil:
		total = *r.TotalResults
	case r.TotalCount != nil:
		total = *r.TotalCount
	}

	return &Result{
		Articles:     articles,
		TotalResults: total,
		LastPage:     r.LastPage,
	}
}

// ArticlesFromJSON decodes a list of articles in the article source's wire format.
func ArticlesFromJSON(b []byte) ([]domain.Article, error) {
	var raw []rawArticle
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Article, 0, len(raw))
	for _, a := range raw {
		out = append(out, a.toArticle())
	}
	return out, nil
}

func (a rawArticle) toArticle() domain.Article {
	art := domain.Article{
		Title:       strings.TrimSpace(a.Title),
		URL:         strings.TrimSpace(a.URL),
		Source:      a.Source.Name,
		Author:      a.Author,
		Description: a.Description,
		ImageURL:    a.URLToImage,
	}
	if t, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
		art.PublishedAt = &t
	}
	return art
}
