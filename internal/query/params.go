// Package query builds deterministic cache keys from search parameters.
package query

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	DefaultCountry = "us"

	prefixNews      = "news:"
	prefixHeadlines = "headlines:"
	prefixAssistant = "assistant:"
)

// Params describes one article search. Prompt is only set for searches that
// originate from an assistant prompt.
type Params struct {
	Q        string `json:"q,omitempty" query:"q"`
	From     string `json:"from,omitempty" query:"from"`
	To       string `json:"to,omitempty" query:"to"`
	Sources  string `json:"sources,omitempty" query:"sources"`
	Country  string `json:"country,omitempty" query:"country"`
	Page     int    `json:"page,omitempty" query:"page"`
	PageSize int    `json:"pageSize,omitempty" query:"pageSize"`
	Prompt   string `json:"prompt,omitempty" query:"-"`
}

// FromValues reads params from an HTTP query string. Invalid page numbers are ignored.
func FromValues(v url.Values) Params {
	p := Params{
		Q:       v.Get("q"),
		From:    v.Get("from"),
		To:      v.Get("to"),
		Sources: v.Get("sources"),
		Country: v.Get("country"),
	}
	if n, err := strconv.Atoi(v.Get("page")); err == nil && n > 0 {
		p.Page = n
	}
	if n, err := strconv.Atoi(v.Get("pageSize")); err == nil && n > 0 {
		p.PageSize = n
	}
	return p
}

// Normalize returns a copy with every field in canonical form.
func (p Params) Normalize() Params {
	n := Params{
		Q:        normalizeText(p.Q),
		From:     strings.TrimSpace(p.From),
		To:       strings.TrimSpace(p.To),
		Sources:  normalizeSources(p.Sources),
		Country:  strings.ToLower(strings.TrimSpace(p.Country)),
		Page:     max(p.Page, 0),
		PageSize: max(p.PageSize, 0),
		Prompt:   normalizeText(p.Prompt),
	}
	if n.IsHeadlines() && n.Country == "" {
		n.Country = DefaultCountry
	}
	return n
}

// IsHeadlines reports whether the search carries no filter and should hit top headlines.
func (p Params) IsHeadlines() bool {
	return strings.TrimSpace(p.Q) == "" &&
		strings.TrimSpace(p.From) == "" &&
		strings.TrimSpace(p.To) == "" &&
		strings.TrimSpace(p.Sources) == "" &&
		strings.TrimSpace(p.Prompt) == ""
}

// Key serializes the normalized params as an ordered tuple. Equal parameter sets
// always produce the same key; field order never depends on input order.
func (p Params) Key() string {
	n := p.Normalize()

	var b strings.Builder
	switch {
	case n.Prompt != "":
		b.WriteString(prefixAssistant)
	case n.IsHeadlines():
		b.WriteString(prefixHeadlines)
	default:
		b.WriteString(prefixNews)
	}

	fields := []struct {
		name  string
		value string
	}{
		{"q", n.Q},
		{"from", n.From},
		{"to", n.To},
		{"sources", n.Sources},
		{"country", n.Country},
		{"page", intField(n.Page)},
		{"pageSize", intField(n.PageSize)},
		{"prompt", n.Prompt},
	}

	first := true
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if !first {
			b.WriteByte('|')
		}
		// a lone q keeps the short "news:<q>" form
		if !(first && f.name == "q") {
			b.WriteString(f.name)
			b.WriteByte('=')
		}
		b.WriteString(url.QueryEscape(f.value))
		first = false
	}

	return b.String()
}

func normalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func normalizeSources(s string) string {
	parts := lo.Map(strings.Split(s, ","), func(src string, _ int) string {
		return strings.ToLower(strings.TrimSpace(src))
	})
	parts = lo.Uniq(lo.Compact(parts))
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func intField(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
