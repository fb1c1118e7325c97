package classify

import (
	"testing"

	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.Category
	}{
		{name: "tech keyword", in: "latest on Apple earnings", want: domain.CategoryTech},
		{name: "prefix match", in: "technology trends", want: domain.CategoryTech},
		{name: "short keyword whole token", in: "new AI models", want: domain.CategoryTech},
		{name: "short keyword inside word ignored", in: "he said the rain stopped", want: domain.CategoryOther},
		{name: "sports plural", in: "sports results", want: domain.CategorySports},
		{name: "nba", in: "NBA finals", want: domain.CategorySports},
		{name: "entertainment", in: "new movies this week", want: domain.CategoryEntertainment},
		{name: "tech wins over sports", in: "google buys football club", want: domain.CategoryTech},
		{name: "punctuation", in: "robots!", want: domain.CategoryTech},
		{name: "nothing", in: "dogs", want: domain.CategoryOther},
		{name: "empty", in: "", want: domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}

func TestArticle_UsesDescription(t *testing.T) {
	assert.Equal(t, domain.CategorySports, Article("Weekend recap", "The team won the tournament"))
}

func TestStamp_KeepsExistingCategory(t *testing.T) {
	in := []domain.Article{
		{Title: "Software release", Category: domain.CategoryGeneral},
		{Title: "Soccer tonight"},
	}

	out := Stamp(in)
	assert.Equal(t, domain.CategoryGeneral, out[0].Category)
	assert.Equal(t, domain.CategorySports, out[1].Category)
	assert.Empty(t, in[1].Category, "input slice must not be modified")
}
