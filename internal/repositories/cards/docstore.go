package cards

import (
	"context"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/entities"
	"github.com/geocards/geocards-api/internal/errors"
)

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

// NewDocstoreRepository creates a card repository over a document store
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

// ListAll reads the field. An empty field is not an error.
func (r *docstoreRepository) ListAll(ctx context.Context, _ ListAllInput) (*ListAllOutput, error) {
	snap, err := r.store.Get(ctx, Path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load cards")
	}

	out := &ListAllOutput{Cards: make(map[string]*entities.Card)}
	if err := snap.Decode(&out.Cards); err != nil {
		return nil, errors.Wrapf(err, "failed to decode cards")
	}
	return out, nil
}

// ReplaceAll overwrites the field
func (r *docstoreRepository) ReplaceAll(ctx context.Context, input ReplaceAllInput) (*ReplaceAllOutput, error) {
	field := make(map[string]*entities.Card, len(input.Cards))
	for _, c := range input.Cards {
		if c == nil || c.ID == "" {
			return nil, errors.InvalidArgument("every card needs an ID")
		}
		field[c.ID] = c
	}

	if err := r.store.Set(ctx, Path, field); err != nil {
		return nil, errors.Wrapf(err, "failed to store cards")
	}
	return &ReplaceAllOutput{}, nil
}

// MarkCollected sets cards/{id}/collected/{uid} = true
func (r *docstoreRepository) MarkCollected(ctx context.Context, input MarkCollectedInput) (*MarkCollectedOutput, error) {
	if input.CardID == "" {
		return nil, errors.InvalidArgument("card ID cannot be empty")
	}
	if input.UserID == "" {
		return nil, errors.InvalidArgument("user ID cannot be empty")
	}

	if err := r.store.Set(ctx, docstore.Join(Path, input.CardID, "collected", input.UserID), true); err != nil {
		return nil, errors.Wrapf(err, "failed to mark card collected")
	}
	return &MarkCollectedOutput{}, nil
}
