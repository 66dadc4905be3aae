package profile

import (
	"context"

	"github.com/geocards/geocards-api/internal/docstore"
	"github.com/geocards/geocards-api/internal/errors"
)

const (
	usersPath = "users"

	errUserIDEmpty = "user ID cannot be empty"
)

// UserPath is where a profile lives
func UserPath(userID string) string {
	return docstore.Join(usersPath, userID)
}

// InventoryPath is where a profile's inventory lives
func InventoryPath(userID string) string {
	return docstore.Join(usersPath, userID, "inventory")
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

// NewDocstoreRepository creates a profile repository over a document store
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

// Create writes the whole profile, replacing any existing one
func (r *docstoreRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.Profile == nil {
		return nil, errors.InvalidArgument("profile cannot be nil")
	}

	if err := r.store.Set(ctx, UserPath(input.UserID), input.Profile); err != nil {
		return nil, errors.Wrapf(err, "failed to store profile")
	}
	return &CreateOutput{Profile: input.Profile}, nil
}

// Get reads a profile
func (r *docstoreRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	snap, err := r.store.Get(ctx, UserPath(input.UserID))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load profile")
	}
	if !snap.Exists() {
		return nil, errors.NotFound("profile not found").WithMeta("user_id", input.UserID)
	}

	out := &GetOutput{}
	if err := snap.Decode(&out.Profile); err != nil {
		return nil, errors.Wrapf(err, "failed to decode profile")
	}
	return out, nil
}

// UpdateProgress writes the experience and level fields
func (r *docstoreRepository) UpdateProgress(ctx context.Context, input UpdateProgressInput) (*UpdateProgressOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	if err := r.store.Set(ctx, docstore.Join(UserPath(input.UserID), "experience"), input.Experience); err != nil {
		return nil, errors.Wrapf(err, "failed to store experience")
	}
	if err := r.store.Set(ctx, docstore.Join(UserPath(input.UserID), "level"), input.Level); err != nil {
		return nil, errors.Wrapf(err, "failed to store level")
	}
	return &UpdateProgressOutput{}, nil
}

// AddInventoryItem stores one item under inventory/{itemId}
func (r *docstoreRepository) AddInventoryItem(ctx context.Context, input AddInventoryItemInput) (*AddInventoryItemOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}
	if input.Item == nil || input.Item.ID == "" {
		return nil, errors.InvalidArgument("item with an ID is required")
	}

	if err := r.store.Set(ctx, docstore.Join(InventoryPath(input.UserID), input.Item.ID), input.Item); err != nil {
		return nil, errors.Wrapf(err, "failed to store inventory item")
	}
	return &AddInventoryItemOutput{}, nil
}

// SetInventory replaces the inventory
func (r *docstoreRepository) SetInventory(ctx context.Context, input SetInventoryInput) (*SetInventoryOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	if err := r.store.Set(ctx, InventoryPath(input.UserID), input.Inventory); err != nil {
		return nil, errors.Wrapf(err, "failed to store inventory")
	}
	return &SetInventoryOutput{}, nil
}

// SetGuild writes users/{uid}/guild; an empty id removes it
func (r *docstoreRepository) SetGuild(ctx context.Context, input SetGuildInput) (*SetGuildOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	var value any
	if input.GuildID != "" {
		value = input.GuildID
	}
	if err := r.store.Set(ctx, docstore.Join(UserPath(input.UserID), "guild"), value); err != nil {
		return nil, errors.Wrapf(err, "failed to store guild link")
	}
	return &SetGuildOutput{}, nil
}

// TouchLastLogin writes the lastLogin field
func (r *docstoreRepository) TouchLastLogin(ctx context.Context, input TouchLastLoginInput) (*TouchLastLoginOutput, error) {
	if input.UserID == "" {
		return nil, errors.InvalidArgument(errUserIDEmpty)
	}

	if err := r.store.Set(ctx, docstore.Join(UserPath(input.UserID), "lastLogin"), input.At); err != nil {
		return nil, errors.Wrapf(err, "failed to store last login")
	}
	return &TouchLastLoginOutput{}, nil
}
