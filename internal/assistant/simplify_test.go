package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMainTopic(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{name: "about phrase", prompt: "Can you tell me about electric cars? Thanks", want: "Show me news about electric cars"},
		{name: "show me news", prompt: "show me football news please", want: "Show me football news"},
		{name: "filler stripped", prompt: "Please find me the latest climate summit updates", want: "climate summit updates"},
		{name: "too short", prompt: "please get me some", want: "Show me today's top news"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MainTopic(tt.prompt))
		})
	}
}

func TestSimplify_LaterAttemptsFallBackToHeadlines(t *testing.T) {
	assert.Equal(t, "Show me news about cats", Simplify("Show me news about cats", 1))
	assert.Equal(t, "Show me today's top headlines", Simplify("Show me news about cats", 2))
	assert.Equal(t, "Show me today's top headlines", Simplify("anything", 5))
}

func TestCardTitle(t *testing.T) {
	at := time.Date(2025, 3, 1, 14, 5, 9, 0, time.UTC)

	assert.Equal(t, "cats (14:05:09)", CardTitle("Show me news about cats", at))
	assert.Equal(t, "the economy (14:05:09)", CardTitle("latest news on the economy", at))
	assert.Equal(t, "what happened in the world of finance to (14:05:09)",
		CardTitle("what happened in the world of finance today", at))
}
