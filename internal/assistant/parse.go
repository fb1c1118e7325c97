package assistant

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
	"github.com/DjordjeVuckovic/news-board/internal/domain"
	"github.com/DjordjeVuckovic/news-board/internal/newsapi"
	"github.com/DjordjeVuckovic/news-board/internal/query"
)

var errNoObject = errors.New("no JSON object in reply")

// ParsedReply is what the pipeline needs from a model answer. Query is set when
// the model asked for a search instead of returning articles itself.
type ParsedReply struct {
	Explanation string
	Articles    []domain.Article
	Query       *query.Params
}

type envelope struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type payload struct {
	Explanation  string          `json:"explanation"`
	Response     string          `json:"response"`
	NewsResults  json.RawMessage `json:"newsResults"`
	NewsAPIQuery *struct {
		Q       flexString `json:"q"`
		From    flexString `json:"from"`
		To      flexString `json:"to"`
		Sources flexString `json:"sources"`
	} `json:"newsapi_query"`
}

// ParseReply accepts either a direct {response|explanation, newsResults, newsapi_query}
// object or an OpenAI style envelope whose message content embeds that object.
func ParseReply(raw []byte) (*ParsedReply, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &apperr.ParseError{Source: "assistant reply", Err: err}
	}

	body := raw
	if len(env.Choices) > 0 {
		obj, err := ExtractObject(env.Choices[0].Message.Content)
		if err != nil {
			return nil, &apperr.ParseError{Source: "assistant reply content", Err: err}
		}
		body = obj
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, &apperr.ParseError{Source: "assistant reply content", Err: err}
	}

	out := &ParsedReply{Explanation: strings.TrimSpace(p.Explanation)}
	if out.Explanation == "" {
		out.Explanation = strings.TrimSpace(p.Response)
	}

	if len(p.NewsResults) > 0 && !bytes.Equal(p.NewsResults, []byte("null")) {
		articles, err := newsapi.ArticlesFromJSON(p.NewsResults)
		if err != nil {
			return nil, &apperr.ParseError{Source: "assistant news results", Err: err}
		}
		out.Articles = articles
	}

	if q := p.NewsAPIQuery; q != nil {
		params := query.Params{Q: string(q.Q), From: string(q.From), To: string(q.To), Sources: string(q.Sources)}
		out.Query = &params
	}

	return out, nil
}

// ExtractObject returns the text between the first '{' and the last '}'.
func ExtractObject(content string) ([]byte, error) {
	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return nil, errNoObject
	}
	return []byte(content[start : end+1]), nil
}

// flexString accepts a string (or null), a list of strings joined by commas, or a number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*f = flexString(strings.Join(list, ","))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}
