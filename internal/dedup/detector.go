// Package dedup decides whether a candidate card repeats one already on the board.
package dedup

import (
	"strings"

	"github.com/DjordjeVuckovic/news-board/internal/domain"
)

// OverlapThreshold is the share of common article URLs above which two cards are
// considered the same. The comparison is strict.
const OverlapThreshold = 0.75

type Reason string

const (
	ReasonNone        Reason = ""
	ReasonID          Reason = "id"
	ReasonQuery       Reason = "query"
	ReasonTitle       Reason = "title"
	ReasonOverlap     Reason = "url_overlap"
	ReasonTitleNoURLs Reason = "title_without_urls"
)

type Result struct {
	Duplicate bool    `json:"duplicate"`
	Reason    Reason  `json:"reason,omitempty"`
	MatchID   string  `json:"matchId,omitempty"`
	Overlap   float64 `json:"overlap,omitempty"`
}

// IsDuplicate matches the card.Store duplicate predicate.
func IsDuplicate(candidate domain.Card, existing []domain.Card) bool {
	return Check(candidate, existing).Duplicate
}

// Check runs the comparisons in priority order and stops at the first match:
// id, originating query, exact title, then per card either URL overlap or,
// when a URL set is empty, case-insensitive title.
func Check(candidate domain.Card, existing []domain.Card) Result {
	if candidate.ID != "" {
		for _, c := range existing {
			if c.ID == candidate.ID {
				return Result{Duplicate: true, Reason: ReasonID, MatchID: c.ID}
			}
		}
	}

	if q := normalizeQuery(candidate.OriginalQuery); q != "" {
		for _, c := range existing {
			if normalizeQuery(c.OriginalQuery) == q {
				return Result{Duplicate: true, Reason: ReasonQuery, MatchID: c.ID}
			}
		}
	}

	for _, c := range existing {
		if c.Title == candidate.Title {
			return Result{Duplicate: true, Reason: ReasonTitle, MatchID: c.ID}
		}
	}

	candidateURLs := urlSet(candidate.Articles)
	for _, c := range existing {
		existingURLs := urlSet(c.Articles)

		if len(candidateURLs) == 0 || len(existingURLs) == 0 {
			if strings.EqualFold(c.Title, candidate.Title) {
				return Result{Duplicate: true, Reason: ReasonTitleNoURLs, MatchID: c.ID}
			}
			continue
		}

		ratio := Overlap(candidateURLs, existingURLs)
		if ratio > OverlapThreshold {
			return Result{Duplicate: true, Reason: ReasonOverlap, MatchID: c.ID, Overlap: ratio}
		}
	}

	return Result{}
}

// Overlap is |a ∩ b| / max(|a|, |b|); zero when either set is empty.
func Overlap(a, b map[string]struct{}) float64 {
	denom := max(len(a), len(b))
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}

	shared := 0
	for u := range small {
		if _, ok := large[u]; ok {
			shared++
		}
	}
	return float64(shared) / float64(denom)
}

func urlSet(articles []domain.Article) map[string]struct{} {
	set := make(map[string]struct{}, len(articles))
	for _, a := range articles {
		if u := strings.TrimSpace(a.URL); u != "" {
			set[u] = struct{}{}
		}
	}
	return set
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
