package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/cache"
	"github.com/DjordjeVuckovic/news-board/internal/card"
	"github.com/DjordjeVuckovic/news-board/internal/chat"
	"github.com/DjordjeVuckovic/news-board/internal/classify"
	"github.com/DjordjeVuckovic/news-board/internal/dedup"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/DjordjeVuckovic/news-board/internal/newsapi"
	"github.com/DjordjeVuckovic/news-board/internal/query"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type State string

const (
	StateIdle      State = "idle"
	StateSending   State = "sending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Workspace is the per-user state a prompt writes into.
type Workspace interface {
	Cards() *card.Store
	Chat() *chat.History
}

// Outcome reports what one prompt did. Created is true only when the card was
// committed to the store by this call.
type Outcome struct {
	State       State                `json:"state"`
	Explanation string               `json:"explanation,omitempty"`
	Card        *domain.Card         `json:"card,omitempty"`
	Created     bool                 `json:"created"`
	Duplicate   bool                 `json:"duplicate"`
	Messages    []domain.ChatMessage `json:"messages"`
	Error       string               `json:"error,omitempty"`
}

type Option func(*Pipeline)

type Pipeline struct {
	completer   Completer
	searcher    newsapi.Searcher
	replies     *cache.Cache[*Reply]
	model       string
	temperature float32
	name        string
	now         func() time.Time
	newID       func() string
	onState     func(State)
}

func NewPipeline(completer Completer, searcher newsapi.Searcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		completer:   completer,
		searcher:    searcher,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		name:        DefaultAssistantName,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithReplyCache reuses model replies for repeated prompts.
func WithReplyCache(c *cache.Cache[*Reply]) Option {
	return func(p *Pipeline) {
		p.replies = c
	}
}

func WithRequestDefaults(model string, temperature float32) Option {
	return func(p *Pipeline) {
		if model != "" {
			p.model = model
		}
		if temperature > 0 {
			p.temperature = temperature
		}
	}
}

// WithAssistantName sets the name used in user-facing failure messages.
func WithAssistantName(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.name = name
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) {
		p.newID = newID
	}
}

func WithStateListener(l func(State)) Option {
	return func(p *Pipeline) {
		p.onState = l
	}
}

// Submit runs one prompt through the model and, when the reply carries articles,
// commits a card to the workspace. Assistant failures are reported in the outcome,
// not as an error; the error return is reserved for invalid input.
func (p *Pipeline) Submit(ctx context.Context, ws Workspace, prompt string) (*Outcome, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, apperr.NewValidation("prompt is required")
	}

	start := time.Now()
	defer func() {
		RequestDuration.Observe(time.Since(start).Seconds())
	}()

	p.setState(StateIdle)
	out := &Outcome{}
	say := func(sender, text string) {
		out.Messages = append(out.Messages, ws.Chat().Append(sender, text))
	}

	say(domain.SenderUser, prompt)
	p.setState(StateSending)

	reply, err := p.complete(ctx, prompt)
	if err != nil {
		slog.Error("Assistant request failed", "prompt", truncate(prompt, 50), "error", err)
		say(domain.SenderAssistant, FailureMessage(err, p.name))
		return p.finish(out, StateFailed, outcomeFailed, err), nil
	}

	parsed, err := ParseReply(reply.Raw)
	if err != nil {
		slog.Warn("Assistant reply could not be parsed", "error", err)
		out.Explanation = lo.Ternary(strings.TrimSpace(reply.Content) != "", strings.TrimSpace(reply.Content), MsgNoExplanation)
		say(domain.SenderAssistant, out.Explanation)
		say(domain.SenderAssistant, MsgNoArticles)
		return p.finish(out, StateSucceeded, outcomeParseError, nil), nil
	}

	out.Explanation = lo.Ternary(parsed.Explanation != "", parsed.Explanation, MsgNoExplanation)
	say(domain.SenderAssistant, out.Explanation)

	articles := parsed.Articles
	if len(articles) == 0 && parsed.Query != nil {
		res, err := p.searcher.Search(ctx, *parsed.Query)
		if err != nil {
			slog.Error("News search for assistant query failed", "query", parsed.Query.Key(), "error", err)
			say(domain.SenderAssistant, FailureMessage(err, p.name))
			return p.finish(out, StateFailed, outcomeFailed, err), nil
		}
		articles = res.Articles
	}

	articles = prepareArticles(articles, p.now())
	if len(articles) == 0 {
		say(domain.SenderAssistant, MsgNoArticles)
		return p.finish(out, StateSucceeded, outcomeEmpty, nil), nil
	}

	now := p.now()
	candidate := domain.Card{
		ID:            p.newID(),
		Title:         CardTitle(prompt, now),
		Category:      classify.Text(prompt),
		Articles:      articles,
		Explanation:   out.Explanation,
		OriginalQuery: prompt,
		Timestamp:     now,
	}
	out.Card = &candidate

	if err := ws.Cards().AddUnique(candidate, dedup.IsDuplicate); err != nil {
		out.Duplicate = errors.Is(err, apperr.ErrDuplicate)
		slog.Info("Card not committed", "title", candidate.Title, "duplicate", out.Duplicate, "error", err)
		say(domain.SenderAssistant, MsgCardRejected)
		return p.finish(out, StateSucceeded, outcomeDuplicate, nil), nil
	}

	out.Created = true
	say(domain.SenderAssistant, cardCreatedMessage(len(articles)))
	return p.finish(out, StateSucceeded, outcomeCreated, nil), nil
}

// LoadLatest seeds an empty workspace with a card of current top headlines. It
// returns nil when the workspace already has cards or nothing was found.
func (p *Pipeline) LoadLatest(ctx context.Context, ws Workspace) (*domain.Card, error) {
	if ws.Cards().Len() > 0 {
		return nil, nil
	}

	res, err := p.searcher.Search(ctx, query.Params{})
	if err != nil {
		return nil, err
	}

	now := p.now()
	articles := lo.Filter(
		lo.Map(res.Articles, func(a domain.Article, _ int) domain.Article { return a.WithDefaults(now) }),
		func(a domain.Article, _ int) bool { return a.Valid() },
	)
	if len(articles) == 0 {
		return nil, nil
	}

	c := domain.Card{
		ID:        p.newID(),
		Title:     LatestNewsTitle,
		Category:  domain.CategoryGeneral,
		Articles:  classify.Stamp(articles),
		Timestamp: now,
	}
	if err := ws.Cards().AddUnique(c, dedup.IsDuplicate); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (p *Pipeline) complete(ctx context.Context, prompt string) (*Reply, error) {
	key := query.Params{Prompt: prompt}.Key()
	if p.replies != nil {
		if r, ok := p.replies.Get(key); ok {
			return r, nil
		}
	}

	reply, err := p.completer.Complete(ctx, Request{Prompt: prompt, Model: p.model, Temperature: p.temperature})
	if err != nil {
		return nil, err
	}

	if p.replies != nil {
		p.replies.Set(key, reply)
	}
	return reply, nil
}

func (p *Pipeline) finish(out *Outcome, state State, outcome string, err error) *Outcome {
	out.State = state
	if err != nil {
		out.Error = err.Error()
	}
	RequestsTotal.WithLabelValues(outcome).Inc()
	p.setState(state)
	return out
}

func (p *Pipeline) setState(s State) {
	if p.onState != nil {
		p.onState(s)
	}
}

// prepareArticles keeps articles with a title and url, then fills defaults and categories.
func prepareArticles(articles []domain.Article, now time.Time) []domain.Article {
	valid := lo.Filter(articles, func(a domain.Article, _ int) bool { return a.Valid() })
	valid = lo.Map(valid, func(a domain.Article, _ int) domain.Article { return a.WithDefaults(now) })
	return classify.Stamp(valid)
}
