// Package chat persists chat channels at chat/{channel}
package chat

//go:generate mockgen -destination=mock/mock_repository.go -package=chatmock github.com/geocards/geocards-api/internal/repositories/chat Repository

import (
	"context"

	"github.com/geocards/geocards-api/internal/entities"
)

// Repository defines chat persistence
type Repository interface {
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

// AppendInput adds one message to a channel
type AppendInput struct {
	Channel string
	Message *entities.ChatMessage
}

// AppendOutput carries the generated message id
type AppendOutput struct {
	ID string
}

// ListInput reads a channel. Limit <= 0 means no limit.
type ListInput struct {
	Channel string
	Limit   int
}

// ListOutput holds messages oldest first
type ListOutput struct {
	Messages []*entities.ChatMessage
}
