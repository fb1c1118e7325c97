package domain

import "time"

const (
	SenderUser      = "User"
	SenderAssistant = "AI"
)

type ChatMessage struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
