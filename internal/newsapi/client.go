// Package newsapi talks to the article source and caches its answers.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/DjordjeVuckovic/news-board/internal/query"
)

const (
	DefaultBaseURL = "https://newsapi.org/v2"
	serviceName    = "newsapi"
	defaultTimeout = 15 * time.Second

	maxResponseBytes = 4 << 20
)

// Searcher returns the articles matching a search.
type Searcher interface {
	Search(ctx context.Context, params query.Params) (*Result, error)
}

type Result struct {
	Articles     []domain.Article `json:"articles"`
	TotalResults int              `json:"totalResults"`
	LastPage     int              `json:"lastPage,omitempty"`
}

type ClientOption func(*Client)

type Client struct {
	base   url.URL
	apiKey string
	http   *http.Client
}

func NewClient(baseURL, apiKey string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid news api base url: %w", err)
	}

	c := &Client{
		base:   *base,
		apiKey: apiKey,
		http:   &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func WithHttpClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// Search hits /top-headlines when params carry no filter, /everything otherwise.
// Filters are sent as given, only trimmed: NewsAPI operators (AND, OR, NOT) are case sensitive.
func (c *Client) Search(ctx context.Context, params query.Params) (*Result, error) {
	p := params.Normalize()

	values := url.Values{}
	path := "/everything"
	if p.IsHeadlines() {
		path = "/top-headlines"
		values.Set("country", p.Country)
	} else {
		setIf(values, "q", strings.TrimSpace(params.Q))
		setIf(values, "from", strings.TrimSpace(params.From))
		setIf(values, "to", strings.TrimSpace(params.To))
		setIf(values, "sources", strings.TrimSpace(params.Sources))
	}
	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		values.Set("pageSize", strconv.Itoa(p.PageSize))
	}

	var resp searchResponse
	if err := c.do(ctx, path, values, &resp); err != nil {
		return nil, err
	}

	res := resp.toResult()
	slog.Debug("News search completed", "path", path, "articles", len(res.Articles), "total", res.TotalResults)
	return res, nil
}

func (c *Client) do(ctx context.Context, path string, values url.Values, respData any) error {
	reqURL := c.base.JoinPath(path)
	reqURL.RawQuery = values.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return err
	}
	request.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		request.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(request)
	if err != nil {
		return &apperr.NetworkError{Service: serviceName, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &apperr.NetworkError{Service: serviceName, Timeout: isTimeout(err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apperr.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(respBody),
		}
	}

	if err := json.Unmarshal(respBody, respData); err != nil {
		return &apperr.ParseError{Source: serviceName + " response", Err: err}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func upstreamMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		return e.Error
	}
	return ""
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
