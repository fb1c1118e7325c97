// Package assistant turns free-text prompts into cards using a chat-completion model.
package assistant

import "context"

const serviceName = "assistant"

type Request struct {
	Prompt      string  `json:"prompt"`
	Model       string  `json:"model,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}

// Reply keeps the raw response body next to the extracted message content.
type Reply struct {
	Raw     []byte `json:"-"`
	Content string `json:"content"`
}

type Completer interface {
	Complete(ctx context.Context, req Request) (*Reply, error)
}
