package assistant

import (
	"regexp"
	"strings"
)

const (
	fallbackHeadlinesPrompt = "Show me today's top headlines"
	fallbackTopNewsPrompt   = "Show me today's top news"
	minSimplifiedLength     = 10
)

var (
	aboutPattern  = regexp.MustCompile(`(?i)about\s+([^.!?]+)`)
	showPattern   = regexp.MustCompile(`(?i)show\s+(?:me|us)?\s+([^.!?]+?)\s+(?:news|articles|information)`)
	fillerPattern = regexp.MustCompile(`(?i)(?:can you|could you|please|i'd like|i would like|i want|get me|find me)`)
	vaguePattern  = regexp.MustCompile(`(?i)(?:some|the latest|recent|current)`)
)

// Simplify rewrites prompt for a retry: the first retry keeps the core topic,
// later ones fall back to a generic headlines request.
func Simplify(prompt string, attempt int) string {
	if attempt <= 1 {
		return MainTopic(prompt)
	}
	return fallbackHeadlinesPrompt
}

func MainTopic(prompt string) string {
	if m := aboutPattern.FindStringSubmatch(prompt); m != nil {
		if topic := strings.TrimSpace(m[1]); topic != "" {
			return "Show me news about " + topic
		}
	}

	if m := showPattern.FindStringSubmatch(prompt); m != nil {
		if topic := strings.TrimSpace(m[1]); topic != "" {
			return "Show me " + topic + " news"
		}
	}

	s := fillerPattern.ReplaceAllString(prompt, "")
	s = vaguePattern.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	if len(s) < minSimplifiedLength {
		return fallbackTopNewsPrompt
	}
	return s
}
