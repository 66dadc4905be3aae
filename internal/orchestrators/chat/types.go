package chat

import "github.com/geocards/geocards-api/internal/entities"

// SendInput defines the request for posting a message. An empty Channel
// posts to the global channel.
type SendInput struct {
	UserID  string
	Channel string
	Text    string
}

// SendOutput carries the stored message
type SendOutput struct {
	Message *entities.ChatMessage
}

// ListInput defines the request for reading a channel. Limit <= 0 uses
// the default.
type ListInput struct {
	Channel string
	Limit   int
}

// ListOutput holds messages oldest first
type ListOutput struct {
	Messages []*entities.ChatMessage
}
