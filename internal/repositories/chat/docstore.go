package chat

import (
	"context"
	"sort"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
)

const chatPath = "chat"

// ChannelPath is where a channel's messages live
func ChannelPath(channel string) string {
	return docstore.Join(chatPath, channel)
}

// Config holds the configuration for the document store repository
type Config struct {
	Store docstore.Store
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c.Store == nil {
		return errors.InvalidArgument("document store is required")
	}
	return nil
}

type docstoreRepository struct {
	store docstore.Store
}

// NewDocstoreRepository creates a chat repository over a document store
func NewDocstoreRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &docstoreRepository{store: cfg.Store}, nil
}

// Ensure docstoreRepository implements Repository
var _ Repository = (*docstoreRepository)(nil)

// Append pushes a message under a generated key
func (r *docstoreRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if err := docstore.ValidateSegment(input.Channel); err != nil {
		return nil, err
	}
	if input.Message == nil {
		return nil, errors.InvalidArgument("message cannot be nil")
	}

	stored := *input.Message
	stored.ID = ""
	stored.Channel = ""

	key, err := r.store.Push(ctx, ChannelPath(input.Channel), &stored)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store chat message")
	}
	return &AppendOutput{ID: key}, nil
}

// List returns the newest Limit messages, oldest first. Ties on timestamp
// fall back to key order, which is insertion order.
func (r *docstoreRepository) List(ctx context.Context, input ListInput) (*ListOutput, error) {
	if err := docstore.ValidateSegment(input.Channel); err != nil {
		return nil, err
	}

	snap, err := r.store.Get(ctx, ChannelPath(input.Channel))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load chat channel")
	}

	raw := make(map[string]*entities.ChatMessage)
	if err := snap.Decode(&raw); err != nil {
		return nil, errors.Wrapf(err, "failed to decode chat channel")
	}

	return &ListOutput{Messages: Sorted(input.Channel, raw, input.Limit)}, nil
}

// Sorted orders a decoded channel by timestamp and keeps the newest limit
// entries. It is shared with live channel subscribers.
func Sorted(channel string, raw map[string]*entities.ChatMessage, limit int) []*entities.ChatMessage {
	messages := make([]*entities.ChatMessage, 0, len(raw))
	for key, msg := range raw {
		if msg == nil {
			continue
		}
		msg.ID = key
		msg.Channel = channel
		messages = append(messages, msg)
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].Timestamp != messages[j].Timestamp {
			return messages[i].Timestamp < messages[j].Timestamp
		}
		return messages[i].ID < messages[j].ID
	})

	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	return messages
}
