// Package cards persists the shared field of map cards at cards/{id}
package cards

//go:generate mockgen -destination=mock/mock_repository.go -package=cardsmock github.com/geocards/geocards-api/internal/repositories/cards Repository

import (
	"context"

	"github.com/geocards/geocards-api/internal/entities"
)

// Path is the document store path of the card field
const Path = "cards"

// Repository defines field card persistence
type Repository interface {
	ListAll(ctx context.Context, input ListAllInput) (*ListAllOutput, error)
	ReplaceAll(ctx context.Context, input ReplaceAllInput) (*ReplaceAllOutput, error)
	MarkCollected(ctx context.Context, input MarkCollectedInput) (*MarkCollectedOutput, error)
}

// ListAllInput is empty
type ListAllInput struct{}

// ListAllOutput holds every card by id
type ListAllOutput struct {
	Cards map[string]*entities.Card
}

// ReplaceAllInput is the new field
type ReplaceAllInput struct {
	Cards []*entities.Card
}

// ReplaceAllOutput is empty
type ReplaceAllOutput struct{}

// MarkCollectedInput records one claimant
type MarkCollectedInput struct {
	CardID string
	UserID string
}

// MarkCollectedOutput is empty
type MarkCollectedOutput struct{}
