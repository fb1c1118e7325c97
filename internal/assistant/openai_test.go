package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, h http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewOpenAIClient(srv.URL, "test-key", WithModel("grok-test"))
}

func TestOpenAIClient_Complete(t *testing.T) {
	c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "grok-test", body.Model)
		assert.InDelta(t, 0.7, body.Temperature, 0.001)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Contains(t, body.Messages[0].Content, "newsapi_query")
		assert.Equal(t, "Show me news about cats", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"explanation\":\"cats\"}"}}]}`))
	})

	reply, err := c.Complete(context.Background(), Request{Prompt: "Show me news about cats"})
	require.NoError(t, err)
	assert.Equal(t, `{"explanation":"cats"}`, reply.Content)

	parsed, err := ParseReply(reply.Raw)
	require.NoError(t, err)
	assert.Equal(t, "cats", parsed.Explanation)
}

func TestOpenAIClient_ErrorMapping(t *testing.T) {
	t.Run("api error", func(t *testing.T) {
		c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
		})

		_, err := c.Complete(context.Background(), Request{Prompt: "cats"})
		var upErr *apperr.UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.True(t, upErr.RateLimited())
		assert.Equal(t, "slow down", upErr.Message)
	})

	t.Run("bare server error", func(t *testing.T) {
		c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`upstream down`))
		})

		_, err := c.Complete(context.Background(), Request{Prompt: "cats"})
		var upErr *apperr.UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.True(t, upErr.ServerError())
	})

	t.Run("deadline", func(t *testing.T) {
		c := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := c.Complete(ctx, Request{Prompt: "cats"})
		assert.True(t, apperr.IsTimeout(err))
	})
}

func TestOpenAIClient_EmptyPrompt(t *testing.T) {
	c := NewOpenAIClient("http://127.0.0.1:0", "k")

	_, err := c.Complete(context.Background(), Request{})
	var vErr *apperr.ValidationError
	assert.ErrorAs(t, err, &vErr)
}
