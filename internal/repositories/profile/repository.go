// Package profile persists player profiles at users/{uid}
package profile

//go:generate mockgen -destination=mock/mock_repository.go -package=profilemock github.com/geocards/geocards-api/internal/repositories/profile Repository

import (
	"context"

	"github.com/geocards/geocards-api/internal/entities"
)

// Repository defines profile persistence
type Repository interface {
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
	UpdateProgress(ctx context.Context, input UpdateProgressInput) (*UpdateProgressOutput, error)
	AddInventoryItem(ctx context.Context, input AddInventoryItemInput) (*AddInventoryItemOutput, error)
	SetInventory(ctx context.Context, input SetInventoryInput) (*SetInventoryOutput, error)
	SetGuild(ctx context.Context, input SetGuildInput) (*SetGuildOutput, error)
	TouchLastLogin(ctx context.Context, input TouchLastLoginInput) (*TouchLastLoginOutput, error)
}

// CreateInput contains parameters for creating a profile
type CreateInput struct {
	UserID  string
	Profile *entities.Profile
}

// CreateOutput contains the result of creating a profile
type CreateOutput struct {
	Profile *entities.Profile
}

// GetInput contains parameters for retrieving a profile
type GetInput struct {
	UserID string
}

// GetOutput contains the retrieved profile
type GetOutput struct {
	Profile *entities.Profile
}

// UpdateProgressInput writes experience and level only
type UpdateProgressInput struct {
	UserID     string
	Experience int
	Level      int
}

// UpdateProgressOutput is empty
type UpdateProgressOutput struct{}

// AddInventoryItemInput adds one item to the inventory
type AddInventoryItemInput struct {
	UserID string
	Item   *entities.InventoryItem
}

// AddInventoryItemOutput is empty
type AddInventoryItemOutput struct{}

// SetInventoryInput replaces the whole inventory
type SetInventoryInput struct {
	UserID    string
	Inventory map[string]*entities.InventoryItem
}

// SetInventoryOutput is empty
type SetInventoryOutput struct{}

// SetGuildInput sets or, with an empty GuildID, clears the guild link
type SetGuildInput struct {
	UserID  string
	GuildID string
}

// SetGuildOutput is empty
type SetGuildOutput struct{}

// TouchLastLoginInput records a sign-in time
type TouchLastLoginInput struct {
	UserID string
	At     int64
}

// TouchLastLoginOutput is empty
type TouchLastLoginOutput struct{}
