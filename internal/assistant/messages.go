package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-board/internal/apperr"
)

const (
	MsgNoExplanation = "I couldn't find any specific information about that."
	MsgCardRejected  = "There was a problem creating the card. Please try again!"
	MsgNoArticles    = "No news articles found for that topic. Try a different search!"

	LatestNewsTitle  = "Latest News"
	titleFallbackLen = 40
)

var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)about\s+(.+)`),
	regexp.MustCompile(`(?i)news\s+(?:about|on)\s+(.+)`),
	regexp.MustCompile(`(?i)show\s+me\s+(?:news\s+)?(?:about|on)\s+(.+)`),
}

func cardCreatedMessage(n int) string {
	if n == 1 {
		return "New card created with 1 article!"
	}
	return fmt.Sprintf("New card created with %d articles!", n)
}

// CardTitle derives a card title from the prompt and stamps it with the time of day
// so that repeated topics stay distinguishable.
func CardTitle(prompt string, at time.Time) string {
	title := ""
	for _, p := range titlePatterns {
		if m := p.FindStringSubmatch(prompt); m != nil {
			title = strings.TrimSpace(m[1])
			break
		}
	}
	if title == "" {
		title = strings.TrimSpace(truncateRunes(prompt, titleFallbackLen))
	}
	return fmt.Sprintf("%s (%s)", title, at.Format("15:04:05"))
}

// FailureMessage turns a failed request into the text shown to the user.
func FailureMessage(err error, assistantName string) string {
	name := serviceLabel(err, assistantName)

	if apperr.IsTimeout(err) || errors.Is(err, context.Canceled) {
		return fmt.Sprintf("The request timed out. The server might be busy or %s is not responding. Please try again later.", name)
	}

	var upErr *apperr.UpstreamError
	if errors.As(err, &upErr) {
		switch {
		case upErr.RateLimited():
			return fmt.Sprintf("%s rate limit reached. Please try again in a moment.", name)
		case upErr.ServerError():
			return fmt.Sprintf("%s returned a %d error. Please try again later.", name, upErr.StatusCode)
		}
	}

	return fmt.Sprintf("Sorry, I couldn't process your request. %s may be unavailable or returned an error.", name)
}

func serviceLabel(err error, assistantName string) string {
	service := ""
	var upErr *apperr.UpstreamError
	var netErr *apperr.NetworkError
	switch {
	case errors.As(err, &upErr):
		service = upErr.Service
	case errors.As(err, &netErr):
		service = netErr.Service
	}
	if service == "newsapi" {
		return "News API"
	}
	return assistantName
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
