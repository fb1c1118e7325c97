package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/cache"
	"github.com/DjordjeVuckovic/news-board/internal/card"
	"github.com/DjordjeVuckovic/news-board/internal/chat"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/DjordjeVuckovic/news-board/internal/newsapi"
	"github.com/DjordjeVuckovic/news-board/internal/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testWorkspace struct {
	cards *card.Store
	chat  *chat.History
}

func newTestWorkspace() *testWorkspace {
	return &testWorkspace{cards: card.NewStore(), chat: chat.NewHistory()}
}

func (w *testWorkspace) Cards() *card.Store  { return w.cards }
func (w *testWorkspace) Chat() *chat.History { return w.chat }

type staticCompleter struct {
	raw   string
	err   error
	calls atomic.Int32
}

func (c *staticCompleter) Complete(_ context.Context, _ Request) (*Reply, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	content := c.raw
	return &Reply{Raw: []byte(c.raw), Content: content}, nil
}

type blockingCompleter struct{}

func (blockingCompleter) Complete(ctx context.Context, _ Request) (*Reply, error) {
	<-ctx.Done()
	return nil, mapError(ctx.Err())
}

type fakeSearcher struct {
	result *newsapi.Result
	err    error
	got    []query.Params
}

func (s *fakeSearcher) Search(_ context.Context, p query.Params) (*newsapi.Result, error) {
	s.got = append(s.got, p)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestPipeline(c Completer, s newsapi.Searcher, opts ...Option) *Pipeline {
	var n atomic.Int32
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return fmt.Sprintf("card-%d", n.Add(1)) }),
	}
	return NewPipeline(c, s, append(base, opts...)...)
}

func lastMessage(ws *testWorkspace) string {
	msgs := ws.chat.List()
	return msgs[len(msgs)-1].Text
}

const catsReply = `{"response":"Here is cat news","newsResults":[
	{"title":"Cats rule","url":"https://news/cats-1","description":"new software for cats"},
	{"title":"More cats","url":"https://news/cats-2"},
	{"title":"","url":"https://news/no-title"}
]}`

func TestPipeline_SubmitCreatesCard(t *testing.T) {
	ws := newTestWorkspace()
	p := newTestPipeline(&staticCompleter{raw: catsReply}, &fakeSearcher{})

	out, err := p.Submit(context.Background(), ws, "Show me news about cats")
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, out.State)
	assert.True(t, out.Created)
	assert.Equal(t, "Here is cat news", out.Explanation)
	require.NotNil(t, out.Card)
	assert.Equal(t, "cats (09:30:00)", out.Card.Title)
	assert.Equal(t, domain.CategoryEntertainment, out.Card.Category)
	assert.Equal(t, "Show me news about cats", out.Card.OriginalQuery)
	require.Len(t, out.Card.Articles, 2)
	assert.Equal(t, domain.CategoryTech, out.Card.Articles[0].Category)
	assert.Equal(t, domain.DefaultArticleSource, out.Card.Articles[1].Source)

	assert.Equal(t, 1, ws.cards.Len())
	assert.Equal(t, "New card created with 2 articles!", lastMessage(ws))
	assert.Len(t, ws.chat.List(), 3)
}

func TestPipeline_DuplicatePromptCreatesOneCard(t *testing.T) {
	ws := newTestWorkspace()
	p := newTestPipeline(&staticCompleter{raw: catsReply}, &fakeSearcher{})

	first, err := p.Submit(context.Background(), ws, "Show me news about cats")
	require.NoError(t, err)
	second, err := p.Submit(context.Background(), ws, "Show me news about cats")
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.True(t, second.Duplicate)
	assert.Equal(t, 1, ws.cards.Len())
	assert.Equal(t, MsgCardRejected, lastMessage(ws))
}

func TestPipeline_TimeoutCreatesNoCard(t *testing.T) {
	ws := newTestWorkspace()
	r := NewRetrier(blockingCompleter{}, RetryPolicy{MaxRetries: 0, Timeout: 20 * time.Millisecond})
	p := newTestPipeline(r, &fakeSearcher{})

	out, err := p.Submit(context.Background(), ws, "Show me news about cats")
	require.NoError(t, err)

	assert.Equal(t, StateFailed, out.State)
	assert.NotEmpty(t, out.Error)
	assert.Equal(t, 0, ws.cards.Len())
	assert.Contains(t, lastMessage(ws), "timed out")
}

func TestPipeline_ParseFailureShowsContent(t *testing.T) {
	ws := newTestWorkspace()
	p := newTestPipeline(&staticCompleter{raw: `{"choices":[{"message":{"content":"I cannot browse the news."}}]}`}, &fakeSearcher{})

	out, err := p.Submit(context.Background(), ws, "cats?")
	require.NoError(t, err)

	assert.Equal(t, StateSucceeded, out.State)
	assert.False(t, out.Created)
	assert.Equal(t, 0, ws.cards.Len())
	assert.Equal(t, MsgNoArticles, lastMessage(ws))
}

func TestPipeline_QueryReplyUsesSearcher(t *testing.T) {
	ws := newTestWorkspace()
	searcher := &fakeSearcher{result: &newsapi.Result{Articles: []domain.Article{
		{Title: "NBA finals", URL: "https://nba/1"},
	}}}
	reply := `{"choices":[{"message":{"content":"{\"newsapi_query\":{\"q\":\"nba\",\"from\":\"2025-02-01\"},\"explanation\":\"Basketball news\"}"}}]}`
	p := newTestPipeline(&staticCompleter{raw: reply}, searcher)

	out, err := p.Submit(context.Background(), ws, "latest basketball scores")
	require.NoError(t, err)

	require.Len(t, searcher.got, 1)
	assert.Equal(t, "nba", searcher.got[0].Q)
	assert.Equal(t, "2025-02-01", searcher.got[0].From)
	assert.True(t, out.Created)
	assert.Equal(t, domain.CategorySports, out.Card.Category)
	assert.Equal(t, "New card created with 1 article!", lastMessage(ws))
}

func TestPipeline_EmptyResults(t *testing.T) {
	ws := newTestWorkspace()
	p := newTestPipeline(&staticCompleter{raw: `{"explanation":"","newsResults":[]}`}, &fakeSearcher{})

	out, err := p.Submit(context.Background(), ws, "nothing")
	require.NoError(t, err)

	assert.Equal(t, MsgNoExplanation, out.Explanation)
	assert.Nil(t, out.Card)
	assert.Equal(t, MsgNoArticles, lastMessage(ws))
}

func TestPipeline_SearchFailureIsReported(t *testing.T) {
	ws := newTestWorkspace()
	searcher := &fakeSearcher{err: &apperr.UpstreamError{Service: "newsapi", StatusCode: 429}}
	p := newTestPipeline(&staticCompleter{raw: `{"newsapi_query":{"q":"cats"},"explanation":"ok"}`}, searcher)

	out, err := p.Submit(context.Background(), ws, "cats")
	require.NoError(t, err)

	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, "News API rate limit reached. Please try again in a moment.", lastMessage(ws))
}

func TestPipeline_ReplyCache(t *testing.T) {
	ws := newTestWorkspace()
	completer := &staticCompleter{raw: catsReply}
	p := newTestPipeline(completer, &fakeSearcher{}, WithReplyCache(cache.New[*Reply]("assistant", time.Minute)))

	_, err := p.Submit(context.Background(), ws, "Show me news about cats")
	require.NoError(t, err)
	_, err = p.Submit(context.Background(), ws, "show me NEWS about cats")
	require.NoError(t, err)

	assert.Equal(t, int32(1), completer.calls.Load())
}

func TestPipeline_StateProgression(t *testing.T) {
	var states []State
	p := newTestPipeline(&staticCompleter{err: errors.New("boom")}, &fakeSearcher{},
		WithStateListener(func(s State) { states = append(states, s) }))

	out, err := p.Submit(context.Background(), newTestWorkspace(), "cats")
	require.NoError(t, err)

	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, []State{StateIdle, StateSending, StateFailed}, states)
}

func TestPipeline_EmptyPromptRejected(t *testing.T) {
	ws := newTestWorkspace()
	p := newTestPipeline(&staticCompleter{raw: catsReply}, &fakeSearcher{})

	_, err := p.Submit(context.Background(), ws, "   ")
	var vErr *apperr.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, ws.chat.Len())
}

func TestPipeline_LoadLatest(t *testing.T) {
	t.Run("adds latest news card to an empty workspace", func(t *testing.T) {
		ws := newTestWorkspace()
		searcher := &fakeSearcher{result: &newsapi.Result{Articles: []domain.Article{
			{Title: "Headline", URL: "https://h/1"},
			{URL: "https://h/2"},
			{Title: "No url"},
		}}}
		p := newTestPipeline(&staticCompleter{}, searcher)

		c, err := p.LoadLatest(context.Background(), ws)
		require.NoError(t, err)
		require.NotNil(t, c)
		assert.Equal(t, LatestNewsTitle, c.Title)
		assert.Equal(t, domain.CategoryGeneral, c.Category)
		require.Len(t, c.Articles, 2)
		assert.Equal(t, domain.DefaultArticleTitle, c.Articles[1].Title)
		assert.True(t, searcher.got[0].IsHeadlines())
	})

	t.Run("skips a workspace that has cards", func(t *testing.T) {
		ws := newTestWorkspace()
		require.NoError(t, ws.cards.Add(domain.Card{ID: "x", Title: "x", Articles: []domain.Article{{Title: "a", URL: "https://a"}}}))
		searcher := &fakeSearcher{}
		p := newTestPipeline(&staticCompleter{}, searcher)

		c, err := p.LoadLatest(context.Background(), ws)
		require.NoError(t, err)
		assert.Nil(t, c)
		assert.Empty(t, searcher.got)
	})

	t.Run("no card for an empty result", func(t *testing.T) {
		ws := newTestWorkspace()
		p := newTestPipeline(&staticCompleter{}, &fakeSearcher{result: &newsapi.Result{}})

		c, err := p.LoadLatest(context.Background(), ws)
		require.NoError(t, err)
		assert.Nil(t, c)
		assert.Equal(t, 0, ws.cards.Len())
	})
}

func TestFailureMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "timeout",
			err:  &apperr.NetworkError{Service: serviceName, Timeout: true, Err: context.DeadlineExceeded},
			want: "The request timed out. The server might be busy or Grok is not responding. Please try again later.",
		},
		{
			name: "server error",
			err:  &apperr.UpstreamError{Service: serviceName, StatusCode: 500},
			want: "Grok returned a 500 error. Please try again later.",
		},
		{
			name: "rate limited",
			err:  &apperr.UpstreamError{Service: serviceName, StatusCode: 429},
			want: "Grok rate limit reached. Please try again in a moment.",
		},
		{
			name: "other",
			err:  errors.New("boom"),
			want: "Sorry, I couldn't process your request. Grok may be unavailable or returned an error.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FailureMessage(tt.err, "Grok"))
		})
	}
}

func TestCardCreatedMessage(t *testing.T) {
	assert.Equal(t, "New card created with 1 article!", cardCreatedMessage(1))
	assert.True(t, strings.HasSuffix(cardCreatedMessage(3), "3 articles!"))
}
