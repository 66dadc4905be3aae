// Package chat implements channel messaging
package chat

//go:generate mockgen -destination=mock/mock_service.go -package=chatmock github.com/geocards/geocards-api/internal/orchestrators/chat Service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
	"github.com/geocards/geocards-api/internal/orchestrators/session"
	"github.com/geocards/geocards-api/internal/pkg/clock"
	chatrepo "github.com/geocards/geocards-api/internal/repositories/chat"
)

// Channel and message limits
const (
	GlobalChannel    = "global"
	MaxMessageLength = 500
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Service defines the interface for chat operations
type Service interface {
	Send(ctx context.Context, input *SendInput) (*SendOutput, error)
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// Config holds the dependencies for the chat orchestrator
type Config struct {
	Sessions session.Registry
	ChatRepo chatrepo.Repository
	Clock    clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sessions == nil {
		vb.RequiredField("Sessions")
	}
	if c.ChatRepo == nil {
		vb.RequiredField("ChatRepo")
	}

	return vb.Build()
}

type orchestrator struct {
	sessions session.Registry
	chatRepo chatrepo.Repository
	clock    clock.Clock
}

// NewOrchestrator creates a new chat orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	return &orchestrator{
		sessions: cfg.Sessions,
		chatRepo: cfg.ChatRepo,
		clock:    c,
	}, nil
}

// Send posts a message as the session user. Delivery is best effort; a
// failed write is returned to the caller.
func (o *orchestrator) Send(ctx context.Context, input *SendInput) (*SendOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	text := strings.TrimSpace(input.Text)
	channel := input.Channel
	if channel == "" {
		channel = GlobalChannel
	}

	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("text", text, vb)
	if utf8.RuneCountInString(text) > MaxMessageLength {
		vb.Fieldf("text", "must be no more than %d characters", MaxMessageLength)
	}
	if err := docstore.ValidateSegment(channel); err != nil {
		vb.Field("channel", errors.GetMessage(err))
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	sess, err := o.sessions.Get(input.UserID)
	if err != nil {
		return nil, err
	}

	msg := &entities.ChatMessage{
		UserID:    sess.UserID(),
		UserEmail: sess.Email(),
		Text:      text,
		Timestamp: o.clock.Now().UnixMilli(),
	}
	out, err := o.chatRepo.Append(ctx, chatrepo.AppendInput{Channel: channel, Message: msg})
	if err != nil {
		return nil, errors.Wrap(err, "failed to send message")
	}

	msg.ID = out.ID
	msg.Channel = channel
	return &SendOutput{Message: msg}, nil
}

// List returns the newest messages of a channel, oldest first
func (o *orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		input = &ListInput{}
	}

	channel := input.Channel
	if channel == "" {
		channel = GlobalChannel
	}
	limit := input.Limit
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	out, err := o.chatRepo.List(ctx, chatrepo.ListInput{Channel: channel, Limit: limit})
	if err != nil {
		return nil, err
	}
	return &ListOutput{Messages: out.Messages}, nil
}
